package api

import (
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

// ConnectorDefinitionServer serves the read only definition catalog.  The catalog is shared by
// every owner so no identity is required.
type ConnectorDefinitionServer struct {
	service   *controller.ConnectorService
	router    *mux.Router
	config    *config.Config
	urlPrefix string
}

func NewConnectorDefinitionServer(service *controller.ConnectorService, r *mux.Router, urlPrefix string, cfg *config.Config) *ConnectorDefinitionServer {
	return &ConnectorDefinitionServer{
		service:   service,
		router:    r,
		config:    cfg,
		urlPrefix: urlPrefix,
	}
}

func (this *ConnectorDefinitionServer) Routes() {
	mmw := &middlewares.MetricsMiddleware{}

	subRouter := this.router.PathPrefix(this.urlPrefix).Subrouter()
	subRouter.Use(logging.AccessLoggerMiddleware,
		mmw.RecordHTTPMetrics)

	subRouter.HandleFunc("/connector-definitions", this.handleListConnectorDefinitions()).Methods(http.MethodGet)
	subRouter.HandleFunc("/connector-definitions/{id}", this.handleGetConnectorDefinition()).Methods(http.MethodGet)
}

func (this *ConnectorDefinitionServer) handleListConnectorDefinitions() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger := logging.Log.WithFields(logrus.Fields{"request_id": request_id.GetReqID(req.Context())})

		params, err := getListParamsFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		page, err := this.service.ListConnectorDefinitions(req.Context(), logger, params)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		response := protocol.ListConnectorDefinitionsResponse{
			ConnectorDefinitions: protocol.FromConnectorDefinitions(page.Items, params.View),
			NextPageToken:        page.NextPageToken,
			TotalSize:            page.TotalSize,
		}

		writeJSONResponse(w, http.StatusOK, response)
	}
}

func (this *ConnectorDefinitionServer) handleGetConnectorDefinition() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		id := mux.Vars(req)["id"]

		logger := logging.Log.WithFields(logrus.Fields{
			"request_id":    request_id.GetReqID(req.Context()),
			"definition_id": id,
		})

		view, err := getViewFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		definition, err := this.service.GetConnectorDefinition(req.Context(), logger, domain.ConnectorDefinitionName(id), view)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, protocol.GetConnectorDefinitionResponse{ConnectorDefinition: protocol.FromConnectorDefinition(definition, view)})
	}
}
