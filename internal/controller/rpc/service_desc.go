package rpc

import (
	"context"

	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"google.golang.org/grpc"
)

const (
	PublicServiceName  = "vdp.connector.v1alpha.ConnectorPublicService"
	PrivateServiceName = "vdp.connector.v1alpha.ConnectorPrivateService"
)

const (
	ConnectorPublicService_ListConnectorDefinitions_FullMethodName = "/" + PublicServiceName + "/ListConnectorDefinitions"
	ConnectorPublicService_GetConnectorDefinition_FullMethodName   = "/" + PublicServiceName + "/GetConnectorDefinition"
	ConnectorPublicService_ListConnectors_FullMethodName           = "/" + PublicServiceName + "/ListConnectors"
	ConnectorPublicService_GetConnector_FullMethodName             = "/" + PublicServiceName + "/GetConnector"
	ConnectorPublicService_CreateConnector_FullMethodName          = "/" + PublicServiceName + "/CreateConnector"
	ConnectorPublicService_UpdateConnector_FullMethodName          = "/" + PublicServiceName + "/UpdateConnector"
	ConnectorPublicService_DeleteConnector_FullMethodName          = "/" + PublicServiceName + "/DeleteConnector"
	ConnectorPublicService_RenameConnector_FullMethodName          = "/" + PublicServiceName + "/RenameConnector"
	ConnectorPublicService_LookUpConnector_FullMethodName          = "/" + PublicServiceName + "/LookUpConnector"
	ConnectorPublicService_ConnectConnector_FullMethodName         = "/" + PublicServiceName + "/ConnectConnector"
	ConnectorPublicService_DisconnectConnector_FullMethodName      = "/" + PublicServiceName + "/DisconnectConnector"
	ConnectorPublicService_TestConnector_FullMethodName            = "/" + PublicServiceName + "/TestConnector"
)

const (
	ConnectorPrivateService_ListConnectorsAdmin_FullMethodName  = "/" + PrivateServiceName + "/ListConnectorsAdmin"
	ConnectorPrivateService_LookUpConnectorAdmin_FullMethodName = "/" + PrivateServiceName + "/LookUpConnectorAdmin"
)

type ConnectorPublicServiceServer interface {
	ListConnectorDefinitions(context.Context, *protocol.ListConnectorDefinitionsRequest) (*protocol.ListConnectorDefinitionsResponse, error)
	GetConnectorDefinition(context.Context, *protocol.GetConnectorDefinitionRequest) (*protocol.GetConnectorDefinitionResponse, error)
	ListConnectors(context.Context, *protocol.ListConnectorsRequest) (*protocol.ListConnectorsResponse, error)
	GetConnector(context.Context, *protocol.GetConnectorRequest) (*protocol.GetConnectorResponse, error)
	CreateConnector(context.Context, *protocol.CreateConnectorRequest) (*protocol.CreateConnectorResponse, error)
	UpdateConnector(context.Context, *protocol.UpdateConnectorRequest) (*protocol.UpdateConnectorResponse, error)
	DeleteConnector(context.Context, *protocol.DeleteConnectorRequest) (*protocol.DeleteConnectorResponse, error)
	RenameConnector(context.Context, *protocol.RenameConnectorRequest) (*protocol.RenameConnectorResponse, error)
	LookUpConnector(context.Context, *protocol.LookUpConnectorRequest) (*protocol.LookUpConnectorResponse, error)
	ConnectConnector(context.Context, *protocol.ConnectConnectorRequest) (*protocol.ConnectConnectorResponse, error)
	DisconnectConnector(context.Context, *protocol.DisconnectConnectorRequest) (*protocol.DisconnectConnectorResponse, error)
	TestConnector(context.Context, *protocol.TestConnectorRequest) (*protocol.TestConnectorResponse, error)
}

type ConnectorPrivateServiceServer interface {
	ListConnectorsAdmin(context.Context, *protocol.ListConnectorsAdminRequest) (*protocol.ListConnectorsAdminResponse, error)
	LookUpConnectorAdmin(context.Context, *protocol.LookUpConnectorAdminRequest) (*protocol.LookUpConnectorAdminResponse, error)
}

// unaryHandler adapts a typed server method to the handler signature a grpc.ServiceDesc expects
func unaryHandler[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server := srv.(S)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ConnectorPublicService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PublicServiceName,
	HandlerType: (*ConnectorPublicServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListConnectorDefinitions",
			Handler:    unaryHandler(ConnectorPublicService_ListConnectorDefinitions_FullMethodName, ConnectorPublicServiceServer.ListConnectorDefinitions),
		},
		{
			MethodName: "GetConnectorDefinition",
			Handler:    unaryHandler(ConnectorPublicService_GetConnectorDefinition_FullMethodName, ConnectorPublicServiceServer.GetConnectorDefinition),
		},
		{
			MethodName: "ListConnectors",
			Handler:    unaryHandler(ConnectorPublicService_ListConnectors_FullMethodName, ConnectorPublicServiceServer.ListConnectors),
		},
		{
			MethodName: "GetConnector",
			Handler:    unaryHandler(ConnectorPublicService_GetConnector_FullMethodName, ConnectorPublicServiceServer.GetConnector),
		},
		{
			MethodName: "CreateConnector",
			Handler:    unaryHandler(ConnectorPublicService_CreateConnector_FullMethodName, ConnectorPublicServiceServer.CreateConnector),
		},
		{
			MethodName: "UpdateConnector",
			Handler:    unaryHandler(ConnectorPublicService_UpdateConnector_FullMethodName, ConnectorPublicServiceServer.UpdateConnector),
		},
		{
			MethodName: "DeleteConnector",
			Handler:    unaryHandler(ConnectorPublicService_DeleteConnector_FullMethodName, ConnectorPublicServiceServer.DeleteConnector),
		},
		{
			MethodName: "RenameConnector",
			Handler:    unaryHandler(ConnectorPublicService_RenameConnector_FullMethodName, ConnectorPublicServiceServer.RenameConnector),
		},
		{
			MethodName: "LookUpConnector",
			Handler:    unaryHandler(ConnectorPublicService_LookUpConnector_FullMethodName, ConnectorPublicServiceServer.LookUpConnector),
		},
		{
			MethodName: "ConnectConnector",
			Handler:    unaryHandler(ConnectorPublicService_ConnectConnector_FullMethodName, ConnectorPublicServiceServer.ConnectConnector),
		},
		{
			MethodName: "DisconnectConnector",
			Handler:    unaryHandler(ConnectorPublicService_DisconnectConnector_FullMethodName, ConnectorPublicServiceServer.DisconnectConnector),
		},
		{
			MethodName: "TestConnector",
			Handler:    unaryHandler(ConnectorPublicService_TestConnector_FullMethodName, ConnectorPublicServiceServer.TestConnector),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vdp/connector/v1alpha/connector_public_service.proto",
}

var ConnectorPrivateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PrivateServiceName,
	HandlerType: (*ConnectorPrivateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListConnectorsAdmin",
			Handler:    unaryHandler(ConnectorPrivateService_ListConnectorsAdmin_FullMethodName, ConnectorPrivateServiceServer.ListConnectorsAdmin),
		},
		{
			MethodName: "LookUpConnectorAdmin",
			Handler:    unaryHandler(ConnectorPrivateService_LookUpConnectorAdmin_FullMethodName, ConnectorPrivateServiceServer.LookUpConnectorAdmin),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vdp/connector/v1alpha/connector_private_service.proto",
}

func RegisterConnectorPublicServiceServer(s grpc.ServiceRegistrar, srv ConnectorPublicServiceServer) {
	s.RegisterService(&ConnectorPublicService_ServiceDesc, srv)
}

func RegisterConnectorPrivateServiceServer(s grpc.ServiceRegistrar, srv ConnectorPrivateServiceServer) {
	s.RegisterService(&ConnectorPrivateService_ServiceDesc, srv)
}
