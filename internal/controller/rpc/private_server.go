package rpc

import (
	"context"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus/ctxlogrus"
	"github.com/sirupsen/logrus"
)

// PrivateServer serves ConnectorPrivateService, the cross owner view used by operators
type PrivateServer struct {
	service *controller.ConnectorService
}

func NewPrivateServer(service *controller.ConnectorService) *PrivateServer {
	return &PrivateServer{service: service}
}

func (s *PrivateServer) ListConnectorsAdmin(ctx context.Context, req *protocol.ListConnectorsAdminRequest) (*protocol.ListConnectorsAdminResponse, error) {
	params, err := listParams(req.PageSize, req.PageToken, req.View, req.Filter)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	page, err := s.service.ListConnectorsAdmin(ctx, ctxlogrus.Extract(ctx), params)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.ListConnectorsAdminResponse{
		Connectors:    protocol.FromConnectors(page.Items, params.View),
		NextPageToken: page.NextPageToken,
		TotalSize:     page.TotalSize,
	}, nil
}

func (s *PrivateServer) LookUpConnectorAdmin(ctx context.Context, req *protocol.LookUpConnectorAdminRequest) (*protocol.LookUpConnectorAdminResponse, error) {
	view, err := parseView(req.View)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	log := ctxlogrus.Extract(ctx).WithFields(logrus.Fields{"permalink": req.Permalink})

	connector, err := s.service.LookUpConnectorAdmin(ctx, log, req.Permalink, view)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.LookUpConnectorAdminResponse{Connector: protocol.FromConnector(connector, view)}, nil
}
