package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/db"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/gomega"
)

const (
	URL_BASE_PATH        = "/v1alpha"
	IDENTITY_HEADER_NAME = "x-rh-identity"
)

var (
	localUser = domain.Owner{UID: uuid.MustParse("2a06c2f7-8da9-4046-91ea-240f88a5d000"), ID: "local-user"}
	otherUser = domain.Owner{UID: uuid.MustParse("5d2f8a31-0b6e-4d47-9a7e-3c1fd2a64b90"), ID: "other-user"}
)

func buildIdentityHeader(orgID string, identityType string) string {
	identityJson := fmt.Sprintf(
		"{ \"identity\": {\"org_id\": \"%s\", \"type\": \"%s\", \"internal\": { \"org_id\": \"%s\" } } }",
		orgID,
		identityType,
		orgID)
	return base64.StdEncoding.EncodeToString([]byte(identityJson))
}

func buildAssociateIdentityHeader(email string) string {
	identityJson := fmt.Sprintf(
		"{ \"identity\": {\"type\": \"Associate\", \"auth_type\": \"saml-auth\", \"associate\": { \"email\": \"%s\" } } }",
		email)
	return base64.StdEncoding.EncodeToString([]byte(identityJson))
}

type reachableConnectionTester struct{}

func (reachableConnectionTester) TestConnection(ctx context.Context, log *logrus.Entry, configuration domain.Configuration) domain.State {
	return domain.StateConnected
}

type discardingEventRecorder struct{}

func (discardingEventRecorder) RecordConnectorEvent(ctx context.Context, event controller.ConnectorEvent) error {
	return nil
}

func (discardingEventRecorder) Close() error {
	return nil
}

// newTestRouter wires the public, definition and admin servers onto one router over a fresh
// in-memory database
func newTestRouter(cfg *config.Config) *mux.Router {
	database, err := db.OpenSqlite(":memory:")
	Expect(err).NotTo(HaveOccurred())

	ctx := context.Background()
	Expect(connector_repository.AutoMigrate(database)).To(Succeed())
	Expect(connector_repository.SeedConnectorDefinitions(ctx, database, connector_repository.DefinitionCatalog)).To(Succeed())
	Expect(connector_repository.SeedOwner(ctx, database, localUser)).To(Succeed())
	Expect(connector_repository.SeedOwner(ctx, database, otherUser)).To(Succeed())

	definitions, err := connector_repository.NewSqlConnectorDefinitionRepository(cfg, database)
	Expect(err).NotTo(HaveOccurred())
	connectors, err := connector_repository.NewSqlConnectorRepository(cfg, database)
	Expect(err).NotTo(HaveOccurred())
	getOwnerByUID, err := connector_repository.NewSqlGetOwnerByUID(cfg, database)
	Expect(err).NotTo(HaveOccurred())
	getOwnerByID, err := connector_repository.NewSqlGetOwnerByID(cfg, database)
	Expect(err).NotTo(HaveOccurred())

	service := controller.NewConnectorService(definitions, connectors, reachableConnectionTester{}, discardingEventRecorder{})
	ownerResolver := controller.NewOwnerResolver(getOwnerByUID, getOwnerByID, domain.OwnerID(cfg.DefaultOwnerId))

	apiMux := mux.NewRouter()

	NewConnectorDefinitionServer(service, apiMux, URL_BASE_PATH, cfg).Routes()
	NewConnectorServer(service, ownerResolver, apiMux, URL_BASE_PATH, cfg).Routes()
	NewAdminServer(service, apiMux, URL_BASE_PATH, cfg).Routes()

	return apiMux
}

func doRequest(router *mux.Router, method string, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	var err error

	if body == "" {
		req, err = http.NewRequest(method, path, nil)
	} else {
		req, err = http.NewRequest(method, path, strings.NewReader(body))
	}
	Expect(err).NotTo(HaveOccurred())

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}
