package conformance

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/controller/api"
	"github.com/RedHatInsights/connector-conformance/internal/controller/rpc"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/db"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const (
	bufSize   = 1024 * 1024
	urlPrefix = "/v1alpha"
)

var (
	localUser = domain.Owner{UID: uuid.MustParse("2a06c2f7-8da9-4046-91ea-240f88a5d000"), ID: "local-user"}
	otherUser = domain.Owner{UID: uuid.MustParse("5d2f8a31-0b6e-4d47-9a7e-3c1fd2a64b90"), ID: "other-user"}
)

func init() {
	logger.InitLogger()
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

type referenceService struct {
	publicURL  string
	privateURL string
	grpcDialer func(context.Context, string) (net.Conn, error)
}

// startReferenceService runs the connector service in process: REST over httptest and gRPC over
// bufconn, sharing one in-memory database
func startReferenceService(t *testing.T, cfg *config.Config) referenceService {
	t.Helper()

	database, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, connector_repository.AutoMigrate(database))
	require.NoError(t, connector_repository.SeedConnectorDefinitions(ctx, database, connector_repository.DefinitionCatalog))
	require.NoError(t, connector_repository.SeedOwner(ctx, database, localUser))
	require.NoError(t, connector_repository.SeedOwner(ctx, database, otherUser))

	definitions, err := connector_repository.NewSqlConnectorDefinitionRepository(cfg, database)
	require.NoError(t, err)
	connectors, err := connector_repository.NewSqlConnectorRepository(cfg, database)
	require.NoError(t, err)
	getOwnerByUID, err := connector_repository.NewSqlGetOwnerByUID(cfg, database)
	require.NoError(t, err)
	getOwnerByID, err := connector_repository.NewSqlGetOwnerByID(cfg, database)
	require.NoError(t, err)

	service := controller.NewConnectorService(definitions, connectors, reachableConnectionTester{}, discardingEventRecorder{})
	ownerResolver := controller.NewOwnerResolver(getOwnerByUID, getOwnerByID, domain.OwnerID(cfg.DefaultOwnerId))

	publicMux := mux.NewRouter()
	api.NewConnectorDefinitionServer(service, publicMux, urlPrefix, cfg).Routes()
	api.NewConnectorServer(service, ownerResolver, publicMux, urlPrefix, cfg).Routes()

	privateMux := mux.NewRouter()
	api.NewAdminServer(service, privateMux, urlPrefix, cfg).Routes()

	publicServer := httptest.NewServer(publicMux)
	t.Cleanup(publicServer.Close)
	privateServer := httptest.NewServer(privateMux)
	t.Cleanup(privateServer.Close)

	grpcServer, err := rpc.NewServer(cfg, service, ownerResolver)
	require.NoError(t, err)

	lis := bufconn.Listen(bufSize)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			t.Errorf("gRPC server exited with error: %v", err)
		}
	}()
	t.Cleanup(grpcServer.Stop)

	return referenceService{
		publicURL:  publicServer.URL,
		privateURL: privateServer.URL,
		grpcDialer: func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		},
	}
}

func (r referenceService) factories(cfg Config) []BindingFactory {
	return []BindingFactory{
		{
			Name: RestBindingName,
			Open: func() (Binding, error) {
				return NewRestBinding(r.publicURL, r.privateURL, cfg.AdminIdentity(), nil, cfg.RequestTimeout), nil
			},
		},
		{
			Name: GrpcBindingName,
			Open: func() (Binding, error) {
				return DialGrpcBinding("passthrough:///bufnet", cfg.AdminIdentity(), nil, cfg.RequestTimeout, grpc.WithContextDialer(r.grpcDialer))
			},
		},
	}
}

func harnessConfig(r referenceService) Config {
	return Config{
		PublicURL:      r.publicURL,
		PrivateURL:     r.privateURL,
		GrpcTarget:     "bufnet",
		Bindings:       []string{RestBindingName, GrpcBindingName},
		OwnerID:        string(localUser.ID),
		ForeignOwnerID: string(otherUser.ID),
		RequestTimeout: 5 * time.Second,
	}
}

func testLogger() framework.TestLogger {
	return &framework.LogrusTestLogger{
		Log:                  logger.Log.WithFields(logrus.Fields{"component": "conformance"}),
		DebugOutputOnFailure: true,
	}
}

func requireConformant(t *testing.T, results framework.Results) {
	t.Helper()
	for _, failure := range results.Failures {
		for _, err := range failure.Errors {
			t.Errorf("%s", framework.TestFailure{ID: failure.TestID, Err: err})
		}
	}
	require.True(t, results.OK())
}

func TestReferenceServiceConforms(t *testing.T) {
	reference := startReferenceService(t, config.GetConfig())
	cfg := harnessConfig(reference)

	results := Run(context.Background(), cfg, reference.factories(cfg), nil, testLogger())
	requireConformant(t, results)

	report := NewReport(cfg, results, time.Now())
	assert.True(t, report.OK())
	assert.Zero(t, report.TotalFailed)
	assert.Zero(t, report.TotalSkipped)
	assert.Greater(t, report.TotalPassed, 0)

	var categories []string
	for _, cat := range report.Categories {
		categories = append(categories, cat.Name)
	}
	for _, binding := range []string{RestBindingName, GrpcBindingName} {
		for _, name := range SuiteNames() {
			assert.Contains(t, categories, binding+"/"+name)
		}
	}

	summary := report.Summary()
	assert.Contains(t, summary, "[PASS] unregistered-jwt-sub")
	assert.NotContains(t, summary, "[FAIL]")
}

func TestReferenceServiceConformsWithAdminCredentials(t *testing.T) {
	serviceCfg := config.GetConfig()
	serviceCfg.ServiceToServiceCredentials = map[string]interface{}{"conformance": "s3cr3t"}

	reference := startReferenceService(t, serviceCfg)
	cfg := harnessConfig(reference)
	cfg.AdminClientID = "conformance"
	cfg.AdminPSK = "s3cr3t"

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/admin"))
	require.NoError(t, filters.MustMatch.Set("^grpc/admin"))

	results := Run(context.Background(), cfg, reference.factories(cfg), filters.AsFilter, testLogger())
	requireConformant(t, results)

	report := NewReport(cfg, results, time.Now())
	require.Len(t, report.Categories, 2)
	assert.Equal(t, "rest/admin", report.Categories[0].Name)
	assert.Equal(t, "grpc/admin", report.Categories[1].Name)
}

func TestWrongAdminCredentialsFail(t *testing.T) {
	serviceCfg := config.GetConfig()
	serviceCfg.ServiceToServiceCredentials = map[string]interface{}{"conformance": "s3cr3t"}

	reference := startReferenceService(t, serviceCfg)
	cfg := harnessConfig(reference)
	cfg.AdminClientID = "conformance"
	cfg.AdminPSK = "wrong"

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/admin/list"))

	results := Run(context.Background(), cfg, reference.factories(cfg), filters.AsFilter, nil)
	require.False(t, results.OK())

	report := NewReport(cfg, results, time.Now())
	assert.Equal(t, 1, report.TotalFailed)
	assert.Contains(t, report.Summary(), "[FAIL] list -- ")
}

func TestNonConformingServiceIsReported(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodDelete {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, req)
	}))
	defer broken.Close()

	cfg := Config{
		PublicURL:      broken.URL,
		PrivateURL:     broken.URL,
		Bindings:       []string{RestBindingName},
		OwnerID:        string(localUser.ID),
		RequestTimeout: time.Second,
	}

	factories, err := NewBindingFactories(cfg)
	require.NoError(t, err)
	require.Len(t, factories, 1)

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/definitions"))
	require.NoError(t, filters.MustMatch.Set("^rest/connectors/delete"))

	results := Run(context.Background(), cfg, factories, filters.AsFilter, nil)
	require.False(t, results.OK())

	report := NewReport(cfg, results, time.Now())
	assert.Zero(t, report.TotalPassed)
	assert.Equal(t, len(definitionSuite.groups)+1, report.TotalFailed)

	summary := report.Summary()
	assert.True(t, strings.Contains(summary, "[FAIL] list -- "))
	assert.True(t, strings.Contains(summary, "404 Not Found"))
}

func TestNewBindingFactoriesRejectsUnknownBinding(t *testing.T) {
	_, err := NewBindingFactories(Config{Bindings: []string{"soap"}})
	assert.Error(t, err)
}

func TestUnreachableServiceFailsEveryScenario(t *testing.T) {
	cfg := Config{
		PublicURL:      "http://127.0.0.1:1",
		PrivateURL:     "http://127.0.0.1:1",
		Bindings:       []string{RestBindingName},
		OwnerID:        string(localUser.ID),
		RequestTimeout: time.Second,
	}

	factories, err := NewBindingFactories(cfg)
	require.NoError(t, err)

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/definitions/get"))

	results := Run(context.Background(), cfg, factories, filters.AsFilter, nil)
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "did not reach the service")
}

// rewritingProxy fronts target and lets rewrite alter every reply before the harness sees it
func rewritingProxy(t *testing.T, target string, rewrite func(*http.Response) error) string {
	t.Helper()

	targetURL, err := url.Parse(target)
	require.NoError(t, err)

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.ModifyResponse = rewrite

	server := httptest.NewServer(proxy)
	t.Cleanup(server.Close)
	return server.URL
}

// dropNullKeys removes the named keys from every json object in v when their value is null and
// reports how many it removed
func dropNullKeys(v interface{}, keys ...string) int {
	dropped := 0
	switch v := v.(type) {
	case map[string]interface{}:
		for _, key := range keys {
			if value, ok := v[key]; ok && value == nil {
				delete(v, key)
				dropped++
			}
		}
		for _, child := range v {
			dropped += dropNullKeys(child, keys...)
		}
	case []interface{}:
		for _, child := range v {
			dropped += dropNullKeys(child, keys...)
		}
	}
	return dropped
}

func failureMessages(results framework.Results) string {
	var sb strings.Builder
	for _, failure := range results.Failures {
		for _, err := range failure.Errors {
			sb.WriteString(framework.TestFailure{ID: failure.TestID, Err: err}.Error())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func failedIDs(results framework.Results) []string {
	var ids []string
	for _, failure := range results.Failures {
		ids = append(ids, failure.TestID.String())
	}
	return ids
}

func TestOmittedBasicViewKeysFail(t *testing.T) {
	reference := startReferenceService(t, config.GetConfig())

	var stripped atomic.Int32
	publicURL := rewritingProxy(t, reference.publicURL, func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return nil
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		resp.Body.Close()

		var reply interface{}
		if json.Unmarshal(data, &reply) == nil && dropNullKeys(reply, "spec", "configuration", "connector_definition_detail") > 0 {
			if data, err = json.Marshal(reply); err != nil {
				return err
			}
			stripped.Add(1)
		}

		resp.Body = io.NopCloser(bytes.NewReader(data))
		resp.ContentLength = int64(len(data))
		resp.Header.Set("Content-Length", strconv.Itoa(len(data)))
		return nil
	})

	cfg := harnessConfig(reference)
	cfg.PublicURL = publicURL
	cfg.Bindings = []string{RestBindingName}

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/definitions"))
	require.NoError(t, filters.MustMatch.Set("^rest/connectors/list"))

	results := Run(context.Background(), cfg, reference.factories(cfg), filters.AsFilter, nil)
	require.False(t, results.OK())
	assert.Greater(t, stripped.Load(), int32(0))

	ids := failedIDs(results)
	assert.Contains(t, ids, "rest/definitions/list")
	assert.Contains(t, ids, "rest/definitions/get")
	assert.Contains(t, ids, "rest/connectors/list")

	messages := failureMessages(results)
	assert.Contains(t, messages, `"spec" is missing, expected an explicit null`)
	assert.Contains(t, messages, `"configuration" is missing, expected an explicit null`)
	assert.Contains(t, messages, `"connector_definition_detail" is missing, expected an explicit null`)
}

func TestForbiddenInsteadOfNotFoundFails(t *testing.T) {
	reference := startReferenceService(t, config.GetConfig())

	publicURL := rewritingProxy(t, reference.publicURL, func(resp *http.Response) error {
		if resp.StatusCode == http.StatusNotFound && resp.Request.Header.Get(controller.OwnerIDHeader) == string(otherUser.ID) {
			resp.StatusCode = http.StatusForbidden
			resp.Status = "403 Forbidden"
		}
		return nil
	})

	cfg := harnessConfig(reference)
	cfg.PublicURL = publicURL
	cfg.Bindings = []string{RestBindingName}

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/foreign-identity"))

	results := Run(context.Background(), cfg, reference.factories(cfg), filters.AsFilter, nil)
	require.False(t, results.OK())
	assert.Equal(t, []string{"rest/foreign-identity/other-owner"}, failedIDs(results))

	messages := failureMessages(results)
	assert.Contains(t, messages, "foreign get: 403 Forbidden")
	assert.Contains(t, messages, "foreign delete: 403 Forbidden")
}

func TestUnreachableGrpcServiceFailsEveryScenario(t *testing.T) {
	lis := bufconn.Listen(bufSize)
	require.NoError(t, lis.Close())

	cfg := Config{
		GrpcTarget:     "bufnet",
		Bindings:       []string{GrpcBindingName},
		OwnerID:        string(localUser.ID),
		RequestTimeout: time.Second,
	}

	factories := []BindingFactory{
		{
			Name: GrpcBindingName,
			Open: func() (Binding, error) {
				return DialGrpcBinding("passthrough:///bufnet", cfg.AdminIdentity(), nil, cfg.RequestTimeout,
					grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
						return lis.DialContext(ctx)
					}))
			},
		},
	}

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^grpc/definitions/get"))

	results := Run(context.Background(), cfg, factories, filters.AsFilter, nil)
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "did not reach the service")
}
