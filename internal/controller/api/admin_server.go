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
	"github.com/redhatinsights/platform-go-middlewares/identity"
	"github.com/redhatinsights/platform-go-middlewares/request_id"
	"github.com/sirupsen/logrus"
)

// AdminServer serves the private, cross owner view of the connectors
type AdminServer struct {
	service   *controller.ConnectorService
	router    *mux.Router
	config    *config.Config
	urlPrefix string
}

func NewAdminServer(service *controller.ConnectorService, r *mux.Router, urlPrefix string, cfg *config.Config) *AdminServer {
	return &AdminServer{
		service:   service,
		router:    r,
		config:    cfg,
		urlPrefix: urlPrefix,
	}
}

func (this *AdminServer) Routes() {
	mmw := &middlewares.MetricsMiddleware{}
	amw := &middlewares.AdminAuthMiddleware{
		Secrets:      this.config.ServiceToServiceCredentials,
		IdentityAuth: identity.EnforceIdentity,
	}

	securedSubRouter := this.router.PathPrefix(this.urlPrefix).Subrouter()
	securedSubRouter.Use(logging.AccessLoggerMiddleware,
		mmw.RecordHTTPMetrics,
		amw.Authenticate)

	securedSubRouter.HandleFunc("/admin/connectors", this.handleListConnectors()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/admin/connectors/{uid}/lookUp", this.handleLookUpConnector()).Methods(http.MethodGet)
}

func (this *AdminServer) requestLogger(req *http.Request) *logrus.Entry {
	fields := logrus.Fields{"request_id": request_id.GetReqID(req.Context())}

	if principal, ok := middlewares.GetPrincipal(req.Context()); ok {
		fields["principal"] = principal.GetName()
	}

	return logging.Log.WithFields(fields)
}

func (this *AdminServer) handleListConnectors() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger := this.requestLogger(req)

		params, err := getListParamsFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		page, err := this.service.ListConnectorsAdmin(req.Context(), logger, params)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		response := protocol.ListConnectorsAdminResponse{
			Connectors:    protocol.FromConnectors(page.Items, params.View),
			NextPageToken: page.NextPageToken,
			TotalSize:     page.TotalSize,
		}

		writeJSONResponse(w, http.StatusOK, response)
	}
}

func (this *AdminServer) handleLookUpConnector() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		logger := this.requestLogger(req)

		view, err := getViewFromRequest(req)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		permalink := domain.ConnectorCollection + "/" + mux.Vars(req)["uid"]

		connector, err := this.service.LookUpConnectorAdmin(req.Context(), logger, permalink, view)
		if err != nil {
			writeErrorResponse(logger, w, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, protocol.LookUpConnectorAdminResponse{Connector: protocol.FromConnector(connector, view)})
	}
}
