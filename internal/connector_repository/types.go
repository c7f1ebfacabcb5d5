package connector_repository

import (
	"context"
	"errors"

	"github.com/RedHatInsights/connector-conformance/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	NotFoundError         = errors.New("Not found")
	AlreadyExistsError    = errors.New("Already exists")
	InvalidPageTokenError = errors.New("Invalid page token")
	InvalidPageSizeError  = errors.New("Invalid page size")
	InvalidFilterError    = errors.New("Invalid filter")
	InvalidOwnerError     = errors.New("Invalid owner")
)

// ConnectorFields selects the mutable fields written by UpdateConnector
type ConnectorFields struct {
	Description   *string
	Configuration domain.Configuration
	State         *domain.State
	ID            *domain.ConnectorID
}

type ConnectorDefinitionRepository interface {
	ListConnectorDefinitions(ctx context.Context, log *logrus.Entry, params domain.ListParams) (domain.Page[domain.ConnectorDefinition], error)
	GetConnectorDefinitionByID(ctx context.Context, log *logrus.Entry, id string, view domain.View) (domain.ConnectorDefinition, error)
	GetConnectorDefinitionByUID(ctx context.Context, log *logrus.Entry, uid uuid.UUID, view domain.View) (domain.ConnectorDefinition, error)
}

// ConnectorRepository scopes every call to an owner permalink.  An empty owner means all owners.
type ConnectorRepository interface {
	CreateConnector(ctx context.Context, log *logrus.Entry, connector domain.Connector) (domain.Connector, error)
	ListConnectors(ctx context.Context, log *logrus.Entry, owner string, params domain.ListParams) (domain.Page[domain.Connector], error)
	GetConnectorByID(ctx context.Context, log *logrus.Entry, owner string, id domain.ConnectorID, view domain.View) (domain.Connector, error)
	GetConnectorByUID(ctx context.Context, log *logrus.Entry, owner string, uid uuid.UUID, view domain.View) (domain.Connector, error)
	UpdateConnector(ctx context.Context, log *logrus.Entry, owner string, id domain.ConnectorID, fields ConnectorFields) (domain.Connector, error)
	DeleteConnector(ctx context.Context, log *logrus.Entry, owner string, id domain.ConnectorID) error
}

type GetOwnerByUID func(ctx context.Context, log *logrus.Entry, uid uuid.UUID) (domain.Owner, error)

type GetOwnerByID func(ctx context.Context, log *logrus.Entry, id domain.OwnerID) (domain.Owner, error)
