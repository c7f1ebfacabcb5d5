package main

import (
	"context"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/db"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func seedDatabase(ctx context.Context) error {

	logger.InitLogger()
	defer logger.FlushLogger()

	cfg := config.GetConfig()
	logger.Log.Info("Seeding Connector service database")

	database, err := db.InitializeGormDatabaseConnection(cfg)
	if err != nil {
		logger.LogError("Unable to initialize database connection", err)
		return err
	}

	if cfg.ConnectorDatabaseImpl == db.SqliteImpl {
		if err := connector_repository.AutoMigrate(database); err != nil {
			logger.LogError("Unable to migrate sqlite database", err)
			return err
		}
	}

	return seedCatalogAndDefaultOwner(ctx, cfg, database)
}

// prepareSqliteDatabase builds the schema and seed data for a standalone sqlite deployment
func prepareSqliteDatabase(ctx context.Context, cfg *config.Config, database *gorm.DB) error {
	if err := connector_repository.AutoMigrate(database); err != nil {
		return err
	}

	return seedCatalogAndDefaultOwner(ctx, cfg, database)
}

func seedCatalogAndDefaultOwner(ctx context.Context, cfg *config.Config, database *gorm.DB) error {

	if err := connector_repository.SeedConnectorDefinitions(ctx, database, connector_repository.DefinitionCatalog); err != nil {
		return err
	}

	ownerUID, err := uuid.Parse(cfg.DefaultOwnerUid)
	if err != nil {
		logger.LogError("Invalid default owner uid", err)
		return err
	}

	owner := domain.Owner{UID: ownerUID, ID: domain.OwnerID(cfg.DefaultOwnerId)}

	if err := connector_repository.SeedOwner(ctx, database, owner); err != nil {
		logger.LogError("Unable to seed default owner", err)
		return err
	}

	logger.Log.WithFields(logrus.Fields{"owner": owner.Permalink(), "definitions": len(connector_repository.DefinitionCatalog)}).Info("Seeded connector service database")

	return nil
}
