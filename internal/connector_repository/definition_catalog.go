package connector_repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const credentialFieldKey = "credential_field"

// DefinitionCatalog holds the connector definitions seeded into every deployment.  The uids are
// fixed so that permalinks survive a reseed.
var DefinitionCatalog = []domain.ConnectorDefinition{
	{
		UID:              uuid.MustParse("f20a3c02-c70e-4e76-8566-7c13ebd2c4ea"),
		ID:               "source-http",
		Title:            "HTTP",
		DocumentationURL: "https://docs.example.com/connectors/source-http",
		ConnectorType:    domain.ConnectorTypeSource,
		Spec:             triggerSpec(),
	},
	{
		UID:              uuid.MustParse("82ca7d29-a35c-4222-b900-8d6878195e7a"),
		ID:               "source-grpc",
		Title:            "gRPC",
		DocumentationURL: "https://docs.example.com/connectors/source-grpc",
		ConnectorType:    domain.ConnectorTypeSource,
		Spec:             triggerSpec(),
	},
	{
		UID:              uuid.MustParse("909c3278-f7d1-461c-9352-87741bef11d3"),
		ID:               "destination-http",
		Title:            "HTTP",
		DocumentationURL: "https://docs.example.com/connectors/destination-http",
		ConnectorType:    domain.ConnectorTypeDestination,
		Spec:             triggerSpec(),
	},
	{
		UID:              uuid.MustParse("c0e4a82c-9620-4a72-abd1-18586f2acccd"),
		ID:               "destination-grpc",
		Title:            "gRPC",
		DocumentationURL: "https://docs.example.com/connectors/destination-grpc",
		ConnectorType:    domain.ConnectorTypeDestination,
		Spec:             triggerSpec(),
	},
	{
		UID:              uuid.MustParse("8be1cf83-fde1-477f-a4ad-318d78c9930a"),
		ID:               "destination-csv",
		Title:            "Local CSV",
		DocumentationURL: "https://docs.example.com/connectors/destination-csv",
		ConnectorType:    domain.ConnectorTypeDestination,
		Spec: domain.DefinitionSpec{
			"connection_specification": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"destination_path"},
				"properties": map[string]interface{}{
					"destination_path": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
	{
		UID:              uuid.MustParse("5ee55a5c-6e30-4c7a-80e8-90165a729e0a"),
		ID:               "destination-webhook",
		Title:            "Webhook",
		DocumentationURL: "https://docs.example.com/connectors/destination-webhook",
		ConnectorType:    domain.ConnectorTypeDestination,
		Spec: domain.DefinitionSpec{
			"connection_specification": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"endpoint"},
				"properties": map[string]interface{}{
					"endpoint": map[string]interface{}{"type": "string"},
					"api_key":  map[string]interface{}{"type": "string", credentialFieldKey: true},
				},
			},
		},
	},
}

func triggerSpec() domain.DefinitionSpec {
	return domain.DefinitionSpec{
		"connection_specification": map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

// SeedConnectorDefinitions upserts the catalog.  Create times are staggered so that the catalog
// order is stable across databases.
func SeedConnectorDefinitions(ctx context.Context, database *gorm.DB, catalog []domain.ConnectorDefinition) error {
	log := logger.Log.WithFields(logrus.Fields{"definitions": len(catalog)})

	base := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i, def := range catalog {
		spec, err := json.Marshal(def.Spec)
		if err != nil {
			logger.LogWithError(log, "Unable to marshal connector definition spec", err)
			return err
		}

		createTime := base.Add(time.Duration(i) * time.Second)

		model := ConnectorDefinition{
			UID:              def.UID.String(),
			ID:               def.ID,
			Title:            def.Title,
			DocumentationURL: def.DocumentationURL,
			ConnectorType:    string(def.ConnectorType),
			Spec:             string(spec),
			CreateTime:       createTime,
			UpdateTime:       createTime,
		}

		result := database.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "title", "documentation_url", "connector_type", "spec", "update_time"}),
		}).Create(&model)
		if result.Error != nil {
			logger.LogWithError(log.WithFields(logrus.Fields{"definition": def.ID}), "Unable to seed connector definition", result.Error)
			return result.Error
		}
	}

	log.Debug("Seeded connector definitions")
	return nil
}

// SeedOwner registers an owner so that requests carrying its id or uid resolve
func SeedOwner(ctx context.Context, database *gorm.DB, owner domain.Owner) error {
	model := Owner{
		UID:        owner.UID.String(),
		ID:         string(owner.ID),
		CreateTime: nowForDatabase(),
	}

	return database.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}

// AutoMigrate creates the schema through gorm.  Postgres deployments use db/migrations instead.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(&Owner{}, &ConnectorDefinition{}, &Connector{})
}
