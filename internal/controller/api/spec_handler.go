package api

import (
	_ "embed"
	"net/http"
	"os"

	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:embed api.spec.json
var embeddedApiSpec []byte

// ApiSpecServer serves the OpenAPI document of the public connector api.  The document compiled
// into the binary is served unless a spec file overrides it.
type ApiSpecServer struct {
	router       *mux.Router
	urlPrefix    string
	specFileName string
}

func NewApiSpecServer(r *mux.Router, urlPrefix string, specFileName string) *ApiSpecServer {
	return &ApiSpecServer{
		router:       r,
		urlPrefix:    urlPrefix,
		specFileName: specFileName,
	}
}

func (s *ApiSpecServer) Routes() {
	s.router.HandleFunc("/openapi.json", s.handleApiSpec()).Methods(http.MethodGet)
	s.router.HandleFunc(s.urlPrefix+"/openapi.json", s.handleApiSpec()).Methods(http.MethodGet)
}

func (s *ApiSpecServer) handleApiSpec() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {
		spec := embeddedApiSpec

		if s.specFileName != "" {
			file, err := os.ReadFile(s.specFileName)
			if err != nil {
				logger.Log.WithFields(logrus.Fields{"error": err, "file": s.specFileName}).Warn("Unable to read API spec file")
				w.WriteHeader(http.StatusNotFound)
				return
			}
			spec = file
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
