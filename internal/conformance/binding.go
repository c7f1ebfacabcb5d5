package conformance

import (
	"context"

	"github.com/RedHatInsights/connector-conformance/internal/protocol"
)

// Binding drives one transport of the connector service.  A call that reaches the service returns
// its Outcome and a nil error, whatever the status.  The error is reserved for transport failures.
type Binding interface {
	Name() string

	ListConnectorDefinitions(ctx context.Context, identity Identity, req protocol.ListConnectorDefinitionsRequest) (protocol.ListConnectorDefinitionsResponse, Outcome, error)
	GetConnectorDefinition(ctx context.Context, identity Identity, req protocol.GetConnectorDefinitionRequest) (protocol.GetConnectorDefinitionResponse, Outcome, error)

	ListConnectors(ctx context.Context, identity Identity, req protocol.ListConnectorsRequest) (protocol.ListConnectorsResponse, Outcome, error)
	GetConnector(ctx context.Context, identity Identity, req protocol.GetConnectorRequest) (protocol.GetConnectorResponse, Outcome, error)
	CreateConnector(ctx context.Context, identity Identity, req protocol.CreateConnectorRequest) (protocol.CreateConnectorResponse, Outcome, error)
	UpdateConnector(ctx context.Context, identity Identity, req protocol.UpdateConnectorRequest) (protocol.UpdateConnectorResponse, Outcome, error)
	DeleteConnector(ctx context.Context, identity Identity, req protocol.DeleteConnectorRequest) (Outcome, error)
	RenameConnector(ctx context.Context, identity Identity, req protocol.RenameConnectorRequest) (protocol.RenameConnectorResponse, Outcome, error)
	LookUpConnector(ctx context.Context, identity Identity, req protocol.LookUpConnectorRequest) (protocol.LookUpConnectorResponse, Outcome, error)
	ConnectConnector(ctx context.Context, identity Identity, req protocol.ConnectConnectorRequest) (protocol.ConnectConnectorResponse, Outcome, error)
	DisconnectConnector(ctx context.Context, identity Identity, req protocol.DisconnectConnectorRequest) (protocol.DisconnectConnectorResponse, Outcome, error)
	TestConnector(ctx context.Context, identity Identity, req protocol.TestConnectorRequest) (protocol.TestConnectorResponse, Outcome, error)

	ListConnectorsAdmin(ctx context.Context, req protocol.ListConnectorsAdminRequest) (protocol.ListConnectorsAdminResponse, Outcome, error)
	LookUpConnectorAdmin(ctx context.Context, req protocol.LookUpConnectorAdminRequest) (protocol.LookUpConnectorAdminResponse, Outcome, error)

	Close() error
}

// BindingFactory opens a fresh binding.  Every scenario group opens its own and closes it on exit.
type BindingFactory struct {
	Name string
	Open func() (Binding, error)
}
