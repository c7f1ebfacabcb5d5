package rpc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus/ctxlogrus"
	"github.com/sirupsen/logrus"
)

// PublicServer serves ConnectorPublicService on top of the ConnectorService
type PublicServer struct {
	service *controller.ConnectorService
}

func NewPublicServer(service *controller.ConnectorService) *PublicServer {
	return &PublicServer{service: service}
}

func parseView(raw string) (domain.View, error) {
	view, ok := domain.ParseView(raw)
	if !ok {
		return domain.ViewUnspecified, fmt.Errorf("%w: invalid view %q", controller.ErrInvalidArgument, raw)
	}
	return view, nil
}

func listParams(pageSize int32, pageToken string, view string, filter string) (domain.ListParams, error) {
	v, err := parseView(view)
	if err != nil {
		return domain.ListParams{}, err
	}

	return domain.ListParams{
		Filter:    filter,
		PageSize:  int(pageSize),
		PageToken: pageToken,
		View:      v,
	}, nil
}

func callLogger(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	return ctxlogrus.Extract(ctx).WithFields(fields)
}

func (s *PublicServer) ListConnectorDefinitions(ctx context.Context, req *protocol.ListConnectorDefinitionsRequest) (*protocol.ListConnectorDefinitionsResponse, error) {
	params, err := listParams(req.PageSize, req.PageToken, req.View, req.Filter)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	page, err := s.service.ListConnectorDefinitions(ctx, ctxlogrus.Extract(ctx), params)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.ListConnectorDefinitionsResponse{
		ConnectorDefinitions: protocol.FromConnectorDefinitions(page.Items, params.View),
		NextPageToken:        page.NextPageToken,
		TotalSize:            page.TotalSize,
	}, nil
}

func (s *PublicServer) GetConnectorDefinition(ctx context.Context, req *protocol.GetConnectorDefinitionRequest) (*protocol.GetConnectorDefinitionResponse, error) {
	view, err := parseView(req.View)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	log := callLogger(ctx, logrus.Fields{"definition": req.Name})

	definition, err := s.service.GetConnectorDefinition(ctx, log, req.Name, view)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.GetConnectorDefinitionResponse{ConnectorDefinition: protocol.FromConnectorDefinition(definition, view)}, nil
}

func (s *PublicServer) ListConnectors(ctx context.Context, req *protocol.ListConnectorsRequest) (*protocol.ListConnectorsResponse, error) {
	params, err := listParams(req.PageSize, req.PageToken, req.View, req.Filter)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	page, err := s.service.ListConnectors(ctx, ctxlogrus.Extract(ctx), ownerFromContext(ctx), params)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.ListConnectorsResponse{
		Connectors:    protocol.FromConnectors(page.Items, params.View),
		NextPageToken: page.NextPageToken,
		TotalSize:     page.TotalSize,
	}, nil
}

func (s *PublicServer) GetConnector(ctx context.Context, req *protocol.GetConnectorRequest) (*protocol.GetConnectorResponse, error) {
	view, err := parseView(req.View)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	log := callLogger(ctx, logrus.Fields{"connector": req.Name})

	connector, err := s.service.GetConnector(ctx, log, ownerFromContext(ctx), req.Name, view)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.GetConnectorResponse{Connector: protocol.FromConnector(connector, view)}, nil
}

func (s *PublicServer) CreateConnector(ctx context.Context, req *protocol.CreateConnectorRequest) (*protocol.CreateConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector_id": req.Connector.ID})

	connector, err := s.service.CreateConnector(ctx, log, ownerFromContext(ctx), controller.CreateConnectorRequest{
		ID:                      domain.ConnectorID(req.Connector.ID),
		ConnectorDefinitionName: req.Connector.ConnectorDefinitionName,
		Description:             req.Connector.Description,
		Configuration:           req.Connector.Configuration,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	setHTTPCode(ctx, http.StatusCreated)

	return &protocol.CreateConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)}, nil
}

func (s *PublicServer) UpdateConnector(ctx context.Context, req *protocol.UpdateConnectorRequest) (*protocol.UpdateConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector": req.Name})

	connector, err := s.service.UpdateConnector(ctx, log, ownerFromContext(ctx), req.Name, controller.UpdateConnectorRequest{
		Description:   req.Connector.Description,
		Configuration: req.Connector.Configuration,
		UpdateMask:    protocol.ParseUpdateMask(req.UpdateMask),
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.UpdateConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)}, nil
}

func (s *PublicServer) DeleteConnector(ctx context.Context, req *protocol.DeleteConnectorRequest) (*protocol.DeleteConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector": req.Name})

	if err := s.service.DeleteConnector(ctx, log, ownerFromContext(ctx), req.Name); err != nil {
		return nil, toStatus(ctx, err)
	}

	setHTTPCode(ctx, http.StatusNoContent)

	return &protocol.DeleteConnectorResponse{}, nil
}

func (s *PublicServer) RenameConnector(ctx context.Context, req *protocol.RenameConnectorRequest) (*protocol.RenameConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector": req.Name, "new_connector_id": req.NewConnectorID})

	connector, err := s.service.RenameConnector(ctx, log, ownerFromContext(ctx), req.Name, domain.ConnectorID(req.NewConnectorID))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.RenameConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)}, nil
}

func (s *PublicServer) LookUpConnector(ctx context.Context, req *protocol.LookUpConnectorRequest) (*protocol.LookUpConnectorResponse, error) {
	view, err := parseView(req.View)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	log := callLogger(ctx, logrus.Fields{"permalink": req.Permalink})

	connector, err := s.service.LookUpConnector(ctx, log, ownerFromContext(ctx), req.Permalink, view)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.LookUpConnectorResponse{Connector: protocol.FromConnector(connector, view)}, nil
}

func (s *PublicServer) ConnectConnector(ctx context.Context, req *protocol.ConnectConnectorRequest) (*protocol.ConnectConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector": req.Name})

	connector, err := s.service.ConnectConnector(ctx, log, ownerFromContext(ctx), req.Name)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.ConnectConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)}, nil
}

func (s *PublicServer) DisconnectConnector(ctx context.Context, req *protocol.DisconnectConnectorRequest) (*protocol.DisconnectConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector": req.Name})

	connector, err := s.service.DisconnectConnector(ctx, log, ownerFromContext(ctx), req.Name)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.DisconnectConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)}, nil
}

func (s *PublicServer) TestConnector(ctx context.Context, req *protocol.TestConnectorRequest) (*protocol.TestConnectorResponse, error) {
	log := callLogger(ctx, logrus.Fields{"connector": req.Name})

	state, err := s.service.TestConnector(ctx, log, ownerFromContext(ctx), req.Name)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &protocol.TestConnectorResponse{State: string(state)}, nil
}
