package rpc

import (
	"context"

	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"google.golang.org/grpc"
)

type ConnectorPublicServiceClient interface {
	ListConnectorDefinitions(ctx context.Context, in *protocol.ListConnectorDefinitionsRequest, opts ...grpc.CallOption) (*protocol.ListConnectorDefinitionsResponse, error)
	GetConnectorDefinition(ctx context.Context, in *protocol.GetConnectorDefinitionRequest, opts ...grpc.CallOption) (*protocol.GetConnectorDefinitionResponse, error)
	ListConnectors(ctx context.Context, in *protocol.ListConnectorsRequest, opts ...grpc.CallOption) (*protocol.ListConnectorsResponse, error)
	GetConnector(ctx context.Context, in *protocol.GetConnectorRequest, opts ...grpc.CallOption) (*protocol.GetConnectorResponse, error)
	CreateConnector(ctx context.Context, in *protocol.CreateConnectorRequest, opts ...grpc.CallOption) (*protocol.CreateConnectorResponse, error)
	UpdateConnector(ctx context.Context, in *protocol.UpdateConnectorRequest, opts ...grpc.CallOption) (*protocol.UpdateConnectorResponse, error)
	DeleteConnector(ctx context.Context, in *protocol.DeleteConnectorRequest, opts ...grpc.CallOption) (*protocol.DeleteConnectorResponse, error)
	RenameConnector(ctx context.Context, in *protocol.RenameConnectorRequest, opts ...grpc.CallOption) (*protocol.RenameConnectorResponse, error)
	LookUpConnector(ctx context.Context, in *protocol.LookUpConnectorRequest, opts ...grpc.CallOption) (*protocol.LookUpConnectorResponse, error)
	ConnectConnector(ctx context.Context, in *protocol.ConnectConnectorRequest, opts ...grpc.CallOption) (*protocol.ConnectConnectorResponse, error)
	DisconnectConnector(ctx context.Context, in *protocol.DisconnectConnectorRequest, opts ...grpc.CallOption) (*protocol.DisconnectConnectorResponse, error)
	TestConnector(ctx context.Context, in *protocol.TestConnectorRequest, opts ...grpc.CallOption) (*protocol.TestConnectorResponse, error)
}

type ConnectorPrivateServiceClient interface {
	ListConnectorsAdmin(ctx context.Context, in *protocol.ListConnectorsAdminRequest, opts ...grpc.CallOption) (*protocol.ListConnectorsAdminResponse, error)
	LookUpConnectorAdmin(ctx context.Context, in *protocol.LookUpConnectorAdminRequest, opts ...grpc.CallOption) (*protocol.LookUpConnectorAdminResponse, error)
}

type connectorPublicServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewConnectorPublicServiceClient(cc grpc.ClientConnInterface) ConnectorPublicServiceClient {
	return &connectorPublicServiceClient{cc: cc}
}

type connectorPrivateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewConnectorPrivateServiceClient(cc grpc.ClientConnInterface) ConnectorPrivateServiceClient {
	return &connectorPrivateServiceClient{cc: cc}
}

// invoke sends a unary call with the JSON codec selected
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *connectorPublicServiceClient) ListConnectorDefinitions(ctx context.Context, in *protocol.ListConnectorDefinitionsRequest, opts ...grpc.CallOption) (*protocol.ListConnectorDefinitionsResponse, error) {
	return invoke[protocol.ListConnectorDefinitionsResponse](ctx, c.cc, ConnectorPublicService_ListConnectorDefinitions_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) GetConnectorDefinition(ctx context.Context, in *protocol.GetConnectorDefinitionRequest, opts ...grpc.CallOption) (*protocol.GetConnectorDefinitionResponse, error) {
	return invoke[protocol.GetConnectorDefinitionResponse](ctx, c.cc, ConnectorPublicService_GetConnectorDefinition_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) ListConnectors(ctx context.Context, in *protocol.ListConnectorsRequest, opts ...grpc.CallOption) (*protocol.ListConnectorsResponse, error) {
	return invoke[protocol.ListConnectorsResponse](ctx, c.cc, ConnectorPublicService_ListConnectors_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) GetConnector(ctx context.Context, in *protocol.GetConnectorRequest, opts ...grpc.CallOption) (*protocol.GetConnectorResponse, error) {
	return invoke[protocol.GetConnectorResponse](ctx, c.cc, ConnectorPublicService_GetConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) CreateConnector(ctx context.Context, in *protocol.CreateConnectorRequest, opts ...grpc.CallOption) (*protocol.CreateConnectorResponse, error) {
	return invoke[protocol.CreateConnectorResponse](ctx, c.cc, ConnectorPublicService_CreateConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) UpdateConnector(ctx context.Context, in *protocol.UpdateConnectorRequest, opts ...grpc.CallOption) (*protocol.UpdateConnectorResponse, error) {
	return invoke[protocol.UpdateConnectorResponse](ctx, c.cc, ConnectorPublicService_UpdateConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) DeleteConnector(ctx context.Context, in *protocol.DeleteConnectorRequest, opts ...grpc.CallOption) (*protocol.DeleteConnectorResponse, error) {
	return invoke[protocol.DeleteConnectorResponse](ctx, c.cc, ConnectorPublicService_DeleteConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) RenameConnector(ctx context.Context, in *protocol.RenameConnectorRequest, opts ...grpc.CallOption) (*protocol.RenameConnectorResponse, error) {
	return invoke[protocol.RenameConnectorResponse](ctx, c.cc, ConnectorPublicService_RenameConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) LookUpConnector(ctx context.Context, in *protocol.LookUpConnectorRequest, opts ...grpc.CallOption) (*protocol.LookUpConnectorResponse, error) {
	return invoke[protocol.LookUpConnectorResponse](ctx, c.cc, ConnectorPublicService_LookUpConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) ConnectConnector(ctx context.Context, in *protocol.ConnectConnectorRequest, opts ...grpc.CallOption) (*protocol.ConnectConnectorResponse, error) {
	return invoke[protocol.ConnectConnectorResponse](ctx, c.cc, ConnectorPublicService_ConnectConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) DisconnectConnector(ctx context.Context, in *protocol.DisconnectConnectorRequest, opts ...grpc.CallOption) (*protocol.DisconnectConnectorResponse, error) {
	return invoke[protocol.DisconnectConnectorResponse](ctx, c.cc, ConnectorPublicService_DisconnectConnector_FullMethodName, in, opts)
}

func (c *connectorPublicServiceClient) TestConnector(ctx context.Context, in *protocol.TestConnectorRequest, opts ...grpc.CallOption) (*protocol.TestConnectorResponse, error) {
	return invoke[protocol.TestConnectorResponse](ctx, c.cc, ConnectorPublicService_TestConnector_FullMethodName, in, opts)
}

func (c *connectorPrivateServiceClient) ListConnectorsAdmin(ctx context.Context, in *protocol.ListConnectorsAdminRequest, opts ...grpc.CallOption) (*protocol.ListConnectorsAdminResponse, error) {
	return invoke[protocol.ListConnectorsAdminResponse](ctx, c.cc, ConnectorPrivateService_ListConnectorsAdmin_FullMethodName, in, opts)
}

func (c *connectorPrivateServiceClient) LookUpConnectorAdmin(ctx context.Context, in *protocol.LookUpConnectorAdminRequest, opts ...grpc.CallOption) (*protocol.LookUpConnectorAdminResponse, error) {
	return invoke[protocol.LookUpConnectorAdminResponse](ctx, c.cc, ConnectorPrivateService_LookUpConnectorAdmin_FullMethodName, in, opts)
}
