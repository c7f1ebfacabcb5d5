package connector_repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type sqlConnectorRepository struct {
	cfg      *config.Config
	database *gorm.DB
}

func NewSqlConnectorRepository(cfg *config.Config, database *gorm.DB) (ConnectorRepository, error) {
	return &sqlConnectorRepository{cfg: cfg, database: database}, nil
}

func (r *sqlConnectorRepository) CreateConnector(ctx context.Context, log *logrus.Entry, connector domain.Connector) (domain.Connector, error) {
	callDurationTimer := prometheus.NewTimer(metrics.sqlCreateConnectorDuration)
	defer callDurationTimer.ObserveDuration()

	if connector.Owner == "" {
		return domain.Connector{}, InvalidOwnerError
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	db := r.database.WithContext(ctx)

	var definition ConnectorDefinition
	err := db.Where("uid = ?", connector.ConnectorDefinitionUID.String()).Take(&definition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Connector{}, NotFoundError
		}

		logger.LogWithError(log, "SQL query failed", err)
		return domain.Connector{}, err
	}

	if connector.UID == uuid.Nil {
		connector.UID = uuid.New()
	}

	if connector.State == "" || connector.State == domain.StateUnspecified {
		connector.State = domain.StateDisconnected
	}

	now := nowForDatabase()

	configuration, err := marshalConfiguration(connector.Configuration)
	if err != nil {
		logger.LogWithError(log, "Unable to marshal connector configuration", err)
		return domain.Connector{}, err
	}

	model := Connector{
		UID:                    connector.UID.String(),
		ID:                     string(connector.ID),
		Owner:                  connector.Owner,
		ConnectorDefinitionUID: definition.UID,
		ConnectorType:          definition.ConnectorType,
		Description:            connector.Description,
		Configuration:          configuration,
		State:                  string(connector.State),
		CreateTime:             now,
		UpdateTime:             now,
	}

	err = db.Create(&model).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Connector{}, AlreadyExistsError
		}

		logger.LogWithError(log, "SQL insert failed", err)
		return domain.Connector{}, err
	}

	log.WithFields(logrus.Fields{"connector_uid": model.UID, "connector_id": model.ID}).Debug("Created connector")

	return connectorFromModel(log, model, map[string]ConnectorDefinition{definition.UID: definition}, domain.ViewFull)
}

func (r *sqlConnectorRepository) ListConnectors(ctx context.Context, log *logrus.Entry, owner string, params domain.ListParams) (domain.Page[domain.Connector], error) {
	var page domain.Page[domain.Connector]

	callDurationTimer := prometheus.NewTimer(metrics.sqlListConnectorsDuration)
	defer callDurationTimer.ObserveDuration()

	pageSize, err := normalizePageSize(params.PageSize, r.cfg.DefaultPageSize, r.cfg.MaxPageSize)
	if err != nil {
		return page, err
	}

	clauses, err := parseFilter(params.Filter, connectorFilterFields)
	if err != nil {
		return page, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	db := r.database.WithContext(ctx)

	err = applyFilter(scopeToOwner(db.Model(&Connector{}), owner), clauses).Count(&page.TotalSize).Error
	if err != nil {
		logger.LogWithError(log, "SQL count failed", err)
		return page, err
	}

	query, err := paginate(applyFilter(scopeToOwner(db, owner), clauses), params.PageToken, pageSize)
	if err != nil {
		return page, err
	}

	var models []Connector
	err = query.Find(&models).Error
	if err != nil {
		logger.LogWithError(log, "SQL query failed", err)
		return page, err
	}

	fetched := len(models)
	if fetched > pageSize {
		models = models[:pageSize]
	}

	definitions, err := r.definitionsFor(db, log, models)
	if err != nil {
		return page, err
	}

	page.Items = make([]domain.Connector, 0, len(models))
	for _, m := range models {
		connector, err := connectorFromModel(log, m, definitions, params.View)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, connector)
	}

	if len(models) > 0 {
		last := models[len(models)-1]
		page.NextPageToken = nextPageToken(pageSize, fetched, last.CreateTime, last.UID)
	}

	return page, nil
}

func (r *sqlConnectorRepository) GetConnectorByID(ctx context.Context, log *logrus.Entry, owner string, id domain.ConnectorID, view domain.View) (domain.Connector, error) {
	return r.lookup(ctx, log, owner, "id = ?", string(id), view)
}

func (r *sqlConnectorRepository) GetConnectorByUID(ctx context.Context, log *logrus.Entry, owner string, uid uuid.UUID, view domain.View) (domain.Connector, error) {
	return r.lookup(ctx, log, owner, "uid = ?", uid.String(), view)
}

func (r *sqlConnectorRepository) lookup(ctx context.Context, log *logrus.Entry, owner string, where string, arg string, view domain.View) (domain.Connector, error) {
	callDurationTimer := prometheus.NewTimer(metrics.sqlLookupConnectorDuration)
	defer callDurationTimer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	db := r.database.WithContext(ctx)

	model, err := takeConnector(db, log, owner, where, arg)
	if err != nil {
		return domain.Connector{}, err
	}

	definitions, err := r.definitionsFor(db, log, []Connector{model})
	if err != nil {
		return domain.Connector{}, err
	}

	return connectorFromModel(log, model, definitions, view)
}

func (r *sqlConnectorRepository) UpdateConnector(ctx context.Context, log *logrus.Entry, owner string, id domain.ConnectorID, fields ConnectorFields) (domain.Connector, error) {
	callDurationTimer := prometheus.NewTimer(metrics.sqlUpdateConnectorDuration)
	defer callDurationTimer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	db := r.database.WithContext(ctx)

	model, err := takeConnector(db, log, owner, "id = ?", string(id))
	if err != nil {
		return domain.Connector{}, err
	}

	updates := map[string]interface{}{}

	if fields.Description != nil {
		updates["description"] = *fields.Description
	}

	if fields.Configuration != nil {
		configuration, err := marshalConfiguration(fields.Configuration)
		if err != nil {
			logger.LogWithError(log, "Unable to marshal connector configuration", err)
			return domain.Connector{}, err
		}
		updates["configuration"] = configuration
	}

	if fields.State != nil {
		updates["state"] = string(*fields.State)
	}

	if fields.ID != nil {
		updates["id"] = string(*fields.ID)
	}

	if len(updates) > 0 {
		updates["update_time"] = nowForDatabase()

		err = db.Model(&Connector{}).Where("uid = ?", model.UID).Updates(updates).Error
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Connector{}, AlreadyExistsError
			}

			logger.LogWithError(log, "SQL update failed", err)
			return domain.Connector{}, err
		}
	}

	model, err = takeConnector(db, log, "", "uid = ?", model.UID)
	if err != nil {
		return domain.Connector{}, err
	}

	definitions, err := r.definitionsFor(db, log, []Connector{model})
	if err != nil {
		return domain.Connector{}, err
	}

	return connectorFromModel(log, model, definitions, domain.ViewFull)
}

func (r *sqlConnectorRepository) DeleteConnector(ctx context.Context, log *logrus.Entry, owner string, id domain.ConnectorID) error {
	callDurationTimer := prometheus.NewTimer(metrics.sqlDeleteConnectorDuration)
	defer callDurationTimer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	result := scopeToOwner(r.database.WithContext(ctx), owner).Where("id = ?", string(id)).Delete(&Connector{})
	if result.Error != nil {
		logger.LogWithError(log, "SQL delete failed", result.Error)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return NotFoundError
	}

	log.WithFields(logrus.Fields{"connector_id": id}).Debug("Deleted connector")

	return nil
}

func scopeToOwner(query *gorm.DB, owner string) *gorm.DB {
	query = query.Where("tombstone = ?", false)
	if owner == "" {
		return query
	}
	return query.Where("owner = ?", owner)
}

func takeConnector(db *gorm.DB, log *logrus.Entry, owner string, where string, arg string) (Connector, error) {
	var model Connector

	err := scopeToOwner(db, owner).Where(where, arg).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model, NotFoundError
		}

		logger.LogWithError(log, "SQL query failed", err)
		return model, err
	}

	return model, nil
}

func (r *sqlConnectorRepository) definitionsFor(db *gorm.DB, log *logrus.Entry, connectors []Connector) (map[string]ConnectorDefinition, error) {
	definitions := make(map[string]ConnectorDefinition)
	if len(connectors) == 0 {
		return definitions, nil
	}

	uids := make([]string, 0, len(connectors))
	for _, c := range connectors {
		uids = append(uids, c.ConnectorDefinitionUID)
	}

	var models []ConnectorDefinition
	err := db.Where("uid IN ?", uids).Find(&models).Error
	if err != nil {
		logger.LogWithError(log, "SQL query failed", err)
		return nil, err
	}

	for _, m := range models {
		definitions[m.UID] = m
	}

	return definitions, nil
}

func connectorFromModel(log *logrus.Entry, m Connector, definitions map[string]ConnectorDefinition, view domain.View) (domain.Connector, error) {
	log = log.WithFields(logrus.Fields{"connector_uid": m.UID})

	uid, err := uuid.Parse(m.UID)
	if err != nil {
		logger.LogWithError(log, "Unable to parse connector uid from database", err)
		return domain.Connector{}, err
	}

	definitionUID, err := uuid.Parse(m.ConnectorDefinitionUID)
	if err != nil {
		logger.LogWithError(log, "Unable to parse connector definition uid from database", err)
		return domain.Connector{}, err
	}

	connector := domain.Connector{
		UID:                    uid,
		ID:                     domain.ConnectorID(m.ID),
		Owner:                  m.Owner,
		ConnectorDefinitionUID: definitionUID,
		ConnectorType:          domain.ConnectorType(m.ConnectorType),
		Description:            m.Description,
		State:                  domain.State(m.State),
		Tombstone:              m.Tombstone,
		CreateTime:             m.CreateTime.UTC(),
		UpdateTime:             m.UpdateTime.UTC(),
	}

	definitionModel, found := definitions[m.ConnectorDefinitionUID]
	if found {
		connector.ConnectorDefinitionID = definitionModel.ID
	}

	if !view.IsFull() {
		return connector, nil
	}

	connector.Configuration = domain.Configuration{}
	if m.Configuration != "" {
		err = json.Unmarshal([]byte(m.Configuration), &connector.Configuration)
		if err != nil {
			logger.LogWithError(log, "Unable to parse connector configuration from database", err)
			return domain.Connector{}, err
		}
	}

	if found {
		definition, err := definitionFromModel(log, definitionModel, domain.ViewFull)
		if err != nil {
			return domain.Connector{}, err
		}
		connector.ConnectorDefinition = &definition
	}

	return connector, nil
}

func marshalConfiguration(configuration domain.Configuration) (string, error) {
	if configuration == nil {
		return "{}", nil
	}

	b, err := json.Marshal(configuration)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
