package controller

import (
	"context"
	"errors"

	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	updateMaskDescription   = "description"
	updateMaskConfiguration = "configuration"
)

type CreateConnectorRequest struct {
	ID                      domain.ConnectorID
	ConnectorDefinitionName string
	Description             string
	Configuration           domain.Configuration
}

// UpdateConnectorRequest replaces the fields named by UpdateMask.  An empty mask selects every
// field that is set.
type UpdateConnectorRequest struct {
	Description   *string
	Configuration domain.Configuration
	UpdateMask    []string
}

type ConnectorService struct {
	definitions connector_repository.ConnectorDefinitionRepository
	connectors  connector_repository.ConnectorRepository
	tester      ConnectionTester
	events      ConnectorEventRecorder
}

func NewConnectorService(definitions connector_repository.ConnectorDefinitionRepository, connectors connector_repository.ConnectorRepository, tester ConnectionTester, events ConnectorEventRecorder) *ConnectorService {
	return &ConnectorService{
		definitions: definitions,
		connectors:  connectors,
		tester:      tester,
		events:      events,
	}
}

func (s *ConnectorService) ListConnectorDefinitions(ctx context.Context, log *logrus.Entry, params domain.ListParams) (domain.Page[domain.ConnectorDefinition], error) {
	page, err := s.definitions.ListConnectorDefinitions(ctx, log, params)
	return page, s.finish("list_connector_definitions", err)
}

func (s *ConnectorService) GetConnectorDefinition(ctx context.Context, log *logrus.Entry, name string, view domain.View) (domain.ConnectorDefinition, error) {
	id, err := domain.ParseConnectorDefinitionName(name)
	if err != nil {
		return domain.ConnectorDefinition{}, s.finish("get_connector_definition", invalidArgument("invalid connector definition name %q", name))
	}

	def, err := s.definitions.GetConnectorDefinitionByID(ctx, log, id, view)
	return def, s.finish("get_connector_definition", err)
}

func (s *ConnectorService) ListConnectors(ctx context.Context, log *logrus.Entry, owner domain.Owner, params domain.ListParams) (domain.Page[domain.Connector], error) {
	page, err := s.connectors.ListConnectors(ctx, log, owner.Permalink(), params)
	if err != nil {
		return page, s.finish("list_connectors", err)
	}

	page.Items = presentConnectors(page.Items)

	return page, s.finish("list_connectors", nil)
}

func (s *ConnectorService) GetConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string, view domain.View) (domain.Connector, error) {
	id, err := parseConnectorName(name)
	if err != nil {
		return domain.Connector{}, s.finish("get_connector", err)
	}

	connector, err := s.connectors.GetConnectorByID(ctx, log, owner.Permalink(), id, view)
	if err != nil {
		return domain.Connector{}, s.finish("get_connector", err)
	}

	return presentConnector(connector), s.finish("get_connector", nil)
}

func (s *ConnectorService) LookUpConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, permalink string, view domain.View) (domain.Connector, error) {
	connector, err := s.lookUp(ctx, log, owner.Permalink(), permalink, view)
	return connector, s.finish("lookup_connector", err)
}

func (s *ConnectorService) CreateConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, req CreateConnectorRequest) (domain.Connector, error) {
	if !domain.ValidConnectorID(req.ID) {
		return domain.Connector{}, s.finish("create_connector", invalidArgument("invalid connector id %q", req.ID))
	}

	definition, err := s.resolveDefinition(ctx, log, req.ConnectorDefinitionName)
	if err != nil {
		return domain.Connector{}, s.finish("create_connector", err)
	}

	configuration := req.Configuration
	if configuration == nil {
		configuration = domain.Configuration{}
	}

	connector, err := s.connectors.CreateConnector(ctx, log, domain.Connector{
		ID:                     req.ID,
		Owner:                  owner.Permalink(),
		ConnectorDefinitionUID: definition.UID,
		Description:            req.Description,
		Configuration:          configuration,
		State:                  domain.StateDisconnected,
	})
	if err != nil {
		return domain.Connector{}, s.finish("create_connector", err)
	}

	s.record(ctx, log, newConnectorEvent(ConnectorCreated, connector))

	return presentConnector(connector), s.finish("create_connector", nil)
}

func (s *ConnectorService) UpdateConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string, req UpdateConnectorRequest) (domain.Connector, error) {
	id, err := parseConnectorName(name)
	if err != nil {
		return domain.Connector{}, s.finish("update_connector", err)
	}

	stored, err := s.connectors.GetConnectorByID(ctx, log, owner.Permalink(), id, domain.ViewFull)
	if err != nil {
		return domain.Connector{}, s.finish("update_connector", err)
	}

	fields, err := updateFields(req, stored)
	if err != nil {
		return domain.Connector{}, s.finish("update_connector", err)
	}

	connector, err := s.connectors.UpdateConnector(ctx, log, owner.Permalink(), id, fields)
	if err != nil {
		return domain.Connector{}, s.finish("update_connector", err)
	}

	s.record(ctx, log, newConnectorEvent(ConnectorUpdated, connector))

	return presentConnector(connector), s.finish("update_connector", nil)
}

func (s *ConnectorService) DeleteConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string) error {
	id, err := parseConnectorName(name)
	if err != nil {
		return s.finish("delete_connector", err)
	}

	connector, err := s.connectors.GetConnectorByID(ctx, log, owner.Permalink(), id, domain.ViewBasic)
	if err != nil {
		return s.finish("delete_connector", err)
	}

	err = s.connectors.DeleteConnector(ctx, log, owner.Permalink(), id)
	if err != nil {
		return s.finish("delete_connector", err)
	}

	s.record(ctx, log, newConnectorEvent(ConnectorDeleted, connector))

	return s.finish("delete_connector", nil)
}

func (s *ConnectorService) RenameConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string, newID domain.ConnectorID) (domain.Connector, error) {
	id, err := parseConnectorName(name)
	if err != nil {
		return domain.Connector{}, s.finish("rename_connector", err)
	}

	if !domain.ValidConnectorID(newID) {
		return domain.Connector{}, s.finish("rename_connector", invalidArgument("invalid connector id %q", newID))
	}

	connector, err := s.connectors.UpdateConnector(ctx, log, owner.Permalink(), id, connector_repository.ConnectorFields{ID: &newID})
	if err != nil {
		return domain.Connector{}, s.finish("rename_connector", err)
	}

	event := newConnectorEvent(ConnectorRenamed, connector)
	event.PreviousID = string(id)
	s.record(ctx, log, event)

	return presentConnector(connector), s.finish("rename_connector", nil)
}

func (s *ConnectorService) ConnectConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string) (domain.Connector, error) {
	return s.changeState(ctx, log, owner, name, domain.StateConnected, ConnectorConnected, "connect_connector")
}

func (s *ConnectorService) DisconnectConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string) (domain.Connector, error) {
	return s.changeState(ctx, log, owner, name, domain.StateDisconnected, ConnectorDisconnected, "disconnect_connector")
}

func (s *ConnectorService) changeState(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string, state domain.State, eventType ConnectorEventType, operation string) (domain.Connector, error) {
	id, err := parseConnectorName(name)
	if err != nil {
		return domain.Connector{}, s.finish(operation, err)
	}

	connector, err := s.connectors.UpdateConnector(ctx, log, owner.Permalink(), id, connector_repository.ConnectorFields{State: &state})
	if err != nil {
		return domain.Connector{}, s.finish(operation, err)
	}

	s.record(ctx, log, newConnectorEvent(eventType, connector))

	return presentConnector(connector), s.finish(operation, nil)
}

// TestConnector checks the connector's configured endpoint.  The result is reported, not stored.
func (s *ConnectorService) TestConnector(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string) (domain.State, error) {
	id, err := parseConnectorName(name)
	if err != nil {
		return domain.StateUnspecified, s.finish("test_connector", err)
	}

	connector, err := s.connectors.GetConnectorByID(ctx, log, owner.Permalink(), id, domain.ViewFull)
	if err != nil {
		return domain.StateUnspecified, s.finish("test_connector", err)
	}

	state := s.tester.TestConnection(ctx, log.WithFields(logrus.Fields{"connector_id": id}), connector.Configuration)

	return state, s.finish("test_connector", nil)
}

func (s *ConnectorService) ListConnectorsAdmin(ctx context.Context, log *logrus.Entry, params domain.ListParams) (domain.Page[domain.Connector], error) {
	page, err := s.connectors.ListConnectors(ctx, log, "", params)
	if err != nil {
		return page, s.finish("list_connectors_admin", err)
	}

	page.Items = presentConnectors(page.Items)

	return page, s.finish("list_connectors_admin", nil)
}

func (s *ConnectorService) LookUpConnectorAdmin(ctx context.Context, log *logrus.Entry, permalink string, view domain.View) (domain.Connector, error) {
	connector, err := s.lookUp(ctx, log, "", permalink, view)
	return connector, s.finish("lookup_connector_admin", err)
}

func (s *ConnectorService) lookUp(ctx context.Context, log *logrus.Entry, owner string, permalink string, view domain.View) (domain.Connector, error) {
	uid, err := domain.ParseConnectorPermalink(permalink)
	if err != nil {
		return domain.Connector{}, invalidArgument("invalid connector permalink %q", permalink)
	}

	connector, err := s.connectors.GetConnectorByUID(ctx, log, owner, uid, view)
	if err != nil {
		return domain.Connector{}, err
	}

	return presentConnector(connector), nil
}

// resolveDefinition accepts a definition name, a bare definition id or a definition uid
func (s *ConnectorService) resolveDefinition(ctx context.Context, log *logrus.Entry, name string) (domain.ConnectorDefinition, error) {
	id, err := domain.ParseConnectorDefinitionName(name)
	if err != nil {
		return domain.ConnectorDefinition{}, invalidArgument("invalid connector definition name %q", name)
	}

	if uid, err := uuid.Parse(id); err == nil {
		return s.definitions.GetConnectorDefinitionByUID(ctx, log, uid, domain.ViewBasic)
	}

	return s.definitions.GetConnectorDefinitionByID(ctx, log, id, domain.ViewBasic)
}

func (s *ConnectorService) record(ctx context.Context, log *logrus.Entry, event ConnectorEvent) {
	if err := s.events.RecordConnectorEvent(ctx, event); err != nil {
		logger.LogWithError(log.WithFields(logrus.Fields{"event": event.Type}), "Unable to record connector event", err)
	}
}

func (s *ConnectorService) finish(operation string, err error) error {
	err = translateRepositoryError(err)

	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrInvalidArgument):
		outcome = "invalid_argument"
	case errors.Is(err, ErrAlreadyExists):
		outcome = "already_exists"
	case err != nil:
		outcome = "error"
	}

	metrics.connectorOperationCounter.WithLabelValues(operation, outcome).Inc()

	return err
}

func parseConnectorName(name string) (domain.ConnectorID, error) {
	id, err := domain.ParseConnectorName(name)
	if err != nil {
		return "", invalidArgument("invalid connector name %q", name)
	}
	return id, nil
}

func updateFields(req UpdateConnectorRequest, stored domain.Connector) (connector_repository.ConnectorFields, error) {
	var fields connector_repository.ConnectorFields

	mask := req.UpdateMask
	if len(mask) == 0 {
		if req.Description != nil {
			mask = append(mask, updateMaskDescription)
		}
		if req.Configuration != nil {
			mask = append(mask, updateMaskConfiguration)
		}
	}

	for _, path := range mask {
		switch path {
		case updateMaskDescription:
			description := ""
			if req.Description != nil {
				description = *req.Description
			}
			fields.Description = &description
		case updateMaskConfiguration:
			configuration := req.Configuration
			if configuration == nil {
				configuration = domain.Configuration{}
			}
			if stored.ConnectorDefinition != nil {
				configuration = configuration.RestoreMaskedCredentials(stored.Configuration, stored.ConnectorDefinition.Spec.CredentialPaths())
			}
			fields.Configuration = configuration
		default:
			return fields, invalidArgument("field %q cannot be updated", path)
		}
	}

	return fields, nil
}

func presentConnectors(connectors []domain.Connector) []domain.Connector {
	for i := range connectors {
		connectors[i] = presentConnector(connectors[i])
	}
	return connectors
}

// presentConnector masks credential values before a connector leaves the service
func presentConnector(connector domain.Connector) domain.Connector {
	if connector.Configuration == nil || connector.ConnectorDefinition == nil {
		return connector
	}

	connector.Configuration = connector.Configuration.MaskCredentials(connector.ConnectorDefinition.Spec.CredentialPaths())

	return connector
}
