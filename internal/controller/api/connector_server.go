package api

import (
	"context"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/middlewares"
	logging "github.com/RedHatInsights/connector-conformance/internal/platform/logger"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/gorilla/mux"
	"github.com/redhatinsights/platform-go-middlewares/request_id"
	"github.com/sirupsen/logrus"
)

type ConnectorServer struct {
	service       *controller.ConnectorService
	ownerResolver controller.OwnerResolver
	router        *mux.Router
	config        *config.Config
	urlPrefix     string
}

func NewConnectorServer(service *controller.ConnectorService, ownerResolver controller.OwnerResolver, r *mux.Router, urlPrefix string, cfg *config.Config) *ConnectorServer {
	return &ConnectorServer{
		service:       service,
		ownerResolver: ownerResolver,
		router:        r,
		config:        cfg,
		urlPrefix:     urlPrefix,
	}
}

func (this *ConnectorServer) Routes() {
	mmw := &middlewares.MetricsMiddleware{}
	omw := &middlewares.OwnerMiddleware{Resolver: this.ownerResolver}

	securedSubRouter := this.router.PathPrefix(this.urlPrefix).Subrouter()
	securedSubRouter.Use(logging.AccessLoggerMiddleware,
		mmw.RecordHTTPMetrics,
		omw.ResolveOwner)

	securedSubRouter.HandleFunc("/connectors", this.handleListConnectors()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/connectors", this.handleCreateConnector()).Methods(http.MethodPost)
	securedSubRouter.HandleFunc("/connectors/{id}", this.handleGetConnector()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/connectors/{id}", this.handleUpdateConnector()).Methods(http.MethodPatch)
	securedSubRouter.HandleFunc("/connectors/{id}", this.handleDeleteConnector()).Methods(http.MethodDelete)
	securedSubRouter.HandleFunc("/connectors/{uid}/lookUp", this.handleLookUpConnector()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/connectors/{id}/rename", this.handleRenameConnector()).Methods(http.MethodPost)
	securedSubRouter.HandleFunc("/connectors/{id}/connect", this.handleConnectConnector()).Methods(http.MethodPost)
	securedSubRouter.HandleFunc("/connectors/{id}/disconnect", this.handleDisconnectConnector()).Methods(http.MethodPost)
	securedSubRouter.HandleFunc("/connectors/{id}/testConnection", this.handleTestConnector()).Methods(http.MethodPost)
}

func (this *ConnectorServer) requestLogger(req *http.Request) (*logrus.Entry, domain.Owner) {
	owner, _ := middlewares.GetOwner(req.Context())
	requestId := request_id.GetReqID(req.Context())

	logger := logging.Log.WithFields(logrus.Fields{
		"owner":      owner.Permalink(),
		"request_id": requestId,
	})

	if id, ok := mux.Vars(req)["id"]; ok {
		logger = logger.WithFields(logrus.Fields{"connector_id": id})
	}

	return logger, owner
}

func (this *ConnectorServer) handleListConnectors() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		params, err := getListParamsFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		page, err := this.service.ListConnectors(req.Context(), logger, owner, params)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		response := protocol.ListConnectorsResponse{
			Connectors:    protocol.FromConnectors(page.Items, params.View),
			NextPageToken: page.NextPageToken,
			TotalSize:     page.TotalSize,
		}

		writeJSONResponse(w, http.StatusOK, response)
	}
}

func (this *ConnectorServer) handleCreateConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		var input protocol.ConnectorInput

		body := http.MaxBytesReader(w, req.Body, maxRequestBodySize)

		if err := decodeJSON(body, &input); err != nil {
			writeInvalidInputResponse(logger, w, err)
			return
		}

		logger = logger.WithFields(logrus.Fields{"connector_id": input.ID})

		connector, err := this.service.CreateConnector(req.Context(), logger, owner, controller.CreateConnectorRequest{
			ID:                      domain.ConnectorID(input.ID),
			ConnectorDefinitionName: input.ConnectorDefinitionName,
			Description:             input.Description,
			Configuration:           input.Configuration,
		})
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		logger.Info("Created connector")

		response := protocol.CreateConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)}

		writeJSONResponse(w, http.StatusCreated, response)
	}
}

func (this *ConnectorServer) handleGetConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		view, err := getViewFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		connector, err := this.service.GetConnector(req.Context(), logger, owner, mux.Vars(req)["id"], view)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, protocol.GetConnectorResponse{Connector: protocol.FromConnector(connector, view)})
	}
}

func (this *ConnectorServer) handleLookUpConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		view, err := getViewFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		permalink := domain.ConnectorCollection + "/" + mux.Vars(req)["uid"]

		connector, err := this.service.LookUpConnector(req.Context(), logger, owner, permalink, view)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, protocol.LookUpConnectorResponse{Connector: protocol.FromConnector(connector, view)})
	}
}

func (this *ConnectorServer) handleUpdateConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		var patch protocol.ConnectorPatch

		body := http.MaxBytesReader(w, req.Body, maxRequestBodySize)

		if err := decodeJSON(body, &patch); err != nil {
			writeInvalidInputResponse(logger, w, err)
			return
		}

		connector, err := this.service.UpdateConnector(req.Context(), logger, owner, mux.Vars(req)["id"], controller.UpdateConnectorRequest{
			Description:   patch.Description,
			Configuration: patch.Configuration,
			UpdateMask:    protocol.ParseUpdateMask(req.URL.Query().Get(updateMaskParam)),
		})
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		logger.Info("Updated connector")

		writeJSONResponse(w, http.StatusOK, protocol.UpdateConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)})
	}
}

func (this *ConnectorServer) handleDeleteConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		if err := this.service.DeleteConnector(req.Context(), logger, owner, mux.Vars(req)["id"]); err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		logger.Info("Deleted connector")

		w.WriteHeader(http.StatusNoContent)
	}
}

func (this *ConnectorServer) handleRenameConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		var renameRequest protocol.RenameConnectorRequest

		body := http.MaxBytesReader(w, req.Body, maxRequestBodySize)

		if err := decodeJSON(body, &renameRequest); err != nil {
			writeInvalidInputResponse(logger, w, err)
			return
		}

		logger = logger.WithFields(logrus.Fields{"new_connector_id": renameRequest.NewConnectorID})

		connector, err := this.service.RenameConnector(req.Context(), logger, owner, mux.Vars(req)["id"], domain.ConnectorID(renameRequest.NewConnectorID))
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		logger.Info("Renamed connector")

		writeJSONResponse(w, http.StatusOK, protocol.RenameConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)})
	}
}

func (this *ConnectorServer) handleConnectConnector() http.HandlerFunc {
	return this.handleStateChange(this.service.ConnectConnector)
}

func (this *ConnectorServer) handleDisconnectConnector() http.HandlerFunc {
	return this.handleStateChange(this.service.DisconnectConnector)
}

type stateChange func(ctx context.Context, log *logrus.Entry, owner domain.Owner, name string) (domain.Connector, error)

func (this *ConnectorServer) handleStateChange(change stateChange) http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		connector, err := change(req.Context(), logger, owner, mux.Vars(req)["id"])
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		logger.WithFields(logrus.Fields{"state": connector.State}).Info("Changed connector state")

		writeJSONResponse(w, http.StatusOK, protocol.ConnectConnectorResponse{Connector: protocol.FromConnector(connector, domain.ViewFull)})
	}
}

func (this *ConnectorServer) handleTestConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger, owner := this.requestLogger(req)

		state, err := this.service.TestConnector(req.Context(), logger, owner, mux.Vars(req)["id"])
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, protocol.TestConnectorResponse{State: string(state)})
	}
}
