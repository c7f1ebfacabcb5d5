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

type sqlConnectorDefinitionRepository struct {
	cfg      *config.Config
	database *gorm.DB
}

func NewSqlConnectorDefinitionRepository(cfg *config.Config, database *gorm.DB) (ConnectorDefinitionRepository, error) {
	return &sqlConnectorDefinitionRepository{cfg: cfg, database: database}, nil
}

func (r *sqlConnectorDefinitionRepository) ListConnectorDefinitions(ctx context.Context, log *logrus.Entry, params domain.ListParams) (domain.Page[domain.ConnectorDefinition], error) {
	var page domain.Page[domain.ConnectorDefinition]

	callDurationTimer := prometheus.NewTimer(metrics.sqlListConnectorDefinitionsDuration)
	defer callDurationTimer.ObserveDuration()

	pageSize, err := normalizePageSize(params.PageSize, r.cfg.DefaultPageSize, r.cfg.MaxPageSize)
	if err != nil {
		return page, err
	}

	clauses, err := parseFilter(params.Filter, definitionFilterFields)
	if err != nil {
		return page, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	db := r.database.WithContext(ctx)

	err = applyFilter(db.Model(&ConnectorDefinition{}), clauses).Count(&page.TotalSize).Error
	if err != nil {
		logger.LogWithError(log, "SQL count failed", err)
		return page, err
	}

	query, err := paginate(applyFilter(db, clauses), params.PageToken, pageSize)
	if err != nil {
		return page, err
	}

	var models []ConnectorDefinition
	err = query.Find(&models).Error
	if err != nil {
		logger.LogWithError(log, "SQL query failed", err)
		return page, err
	}

	fetched := len(models)
	if fetched > pageSize {
		models = models[:pageSize]
	}

	page.Items = make([]domain.ConnectorDefinition, 0, len(models))
	for _, m := range models {
		def, err := definitionFromModel(log, m, params.View)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, def)
	}

	if len(models) > 0 {
		last := models[len(models)-1]
		page.NextPageToken = nextPageToken(pageSize, fetched, last.CreateTime, last.UID)
	}

	return page, nil
}

func (r *sqlConnectorDefinitionRepository) GetConnectorDefinitionByID(ctx context.Context, log *logrus.Entry, id string, view domain.View) (domain.ConnectorDefinition, error) {
	return r.lookup(ctx, log, "id = ?", id, view)
}

func (r *sqlConnectorDefinitionRepository) GetConnectorDefinitionByUID(ctx context.Context, log *logrus.Entry, uid uuid.UUID, view domain.View) (domain.ConnectorDefinition, error) {
	return r.lookup(ctx, log, "uid = ?", uid.String(), view)
}

func (r *sqlConnectorDefinitionRepository) lookup(ctx context.Context, log *logrus.Entry, where string, arg string, view domain.View) (domain.ConnectorDefinition, error) {
	callDurationTimer := prometheus.NewTimer(metrics.sqlLookupConnectorDefinitionDuration)
	defer callDurationTimer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectorDatabaseQueryTimeout)
	defer cancel()

	var model ConnectorDefinition
	err := r.database.WithContext(ctx).Where(where, arg).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ConnectorDefinition{}, NotFoundError
		}

		logger.LogWithError(log, "SQL query failed", err)
		return domain.ConnectorDefinition{}, err
	}

	return definitionFromModel(log, model, view)
}

func definitionFromModel(log *logrus.Entry, m ConnectorDefinition, view domain.View) (domain.ConnectorDefinition, error) {
	uid, err := uuid.Parse(m.UID)
	if err != nil {
		logger.LogWithError(log.WithFields(logrus.Fields{"definition": m.ID}), "Unable to parse connector definition uid from database", err)
		return domain.ConnectorDefinition{}, err
	}

	def := domain.ConnectorDefinition{
		UID:              uid,
		ID:               m.ID,
		Title:            m.Title,
		DocumentationURL: m.DocumentationURL,
		ConnectorType:    domain.ConnectorType(m.ConnectorType),
		CreateTime:       m.CreateTime.UTC(),
		UpdateTime:       m.UpdateTime.UTC(),
	}

	if !view.IsFull() {
		return def, nil
	}

	def.Spec = domain.DefinitionSpec{}
	if m.Spec != "" {
		err = json.Unmarshal([]byte(m.Spec), &def.Spec)
		if err != nil {
			logger.LogWithError(log.WithFields(logrus.Fields{"definition": m.ID}), "Unable to parse connector definition spec from database", err)
			return domain.ConnectorDefinition{}, err
		}
	}

	return def, nil
}
