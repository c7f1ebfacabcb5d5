package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/controller/api"
	"github.com/RedHatInsights/connector-conformance/internal/controller/rpc"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/db"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"
	"github.com/RedHatInsights/connector-conformance/internal/platform/utils"

	"github.com/gorilla/mux"
	"github.com/redhatinsights/platform-go-middlewares/request_id"
	"gorm.io/gorm"
)

func startConnectorServiceApiServer(specFile string) {

	logger.InitLogger()
	defer logger.FlushLogger()

	logger.Log.Info("Starting Connector service")

	cfg := config.GetConfig()
	logger.Log.Info("Connector service configuration:\n", cfg)

	database, err := db.InitializeGormDatabaseConnection(cfg)
	if err != nil {
		logger.LogFatalError("Unable to connect to database: ", err)
	}

	if cfg.ConnectorDatabaseImpl == db.SqliteImpl {
		if err := prepareSqliteDatabase(context.Background(), cfg, database); err != nil {
			logger.LogFatalError("Unable to prepare sqlite database", err)
		}
	}

	service, ownerResolver, eventRecorder := buildConnectorService(cfg, database)

	publicMux := mux.NewRouter()
	publicMux.Use(request_id.ConfiguredRequestID("x-rh-insights-request-id"))

	apiSpecServer := api.NewApiSpecServer(publicMux, cfg.UrlBasePath, specFile)
	apiSpecServer.Routes()

	monitoringServer := api.NewMonitoringServer(publicMux, cfg, databaseReadinessCheck(database))
	monitoringServer.Routes()

	definitionServer := api.NewConnectorDefinitionServer(service, publicMux, cfg.UrlBasePath, cfg)
	definitionServer.Routes()

	connectorServer := api.NewConnectorServer(service, ownerResolver, publicMux, cfg.UrlBasePath, cfg)
	connectorServer.Routes()

	privateMux := mux.NewRouter()
	privateMux.Use(request_id.ConfiguredRequestID("x-rh-insights-request-id"))

	adminServer := api.NewAdminServer(service, privateMux, cfg.UrlBasePath, cfg)
	adminServer.Routes()

	grpcServer, err := rpc.NewServer(cfg, service, ownerResolver)
	if err != nil {
		logger.LogFatalError("Unable to create gRPC server", err)
	}

	publicSrv := utils.StartHTTPServer(cfg.PublicHttpAddr, "public", publicMux)
	privateSrv := utils.StartHTTPServer(cfg.PrivateHttpAddr, "private", privateMux)

	if _, err := utils.StartGRPCServer(cfg.GrpcAddr, "grpc", grpcServer); err != nil {
		logger.LogFatalError("Unable to listen for gRPC connections", err)
	}

	signalChan := make(chan os.Signal, 1)

	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalChan
	logger.Log.Info("Received signal to shutdown: ", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HttpShutdownTimeout)
	defer cancel()

	utils.ShutdownHTTPServer(ctx, "public", publicSrv)
	utils.ShutdownHTTPServer(ctx, "private", privateSrv)
	utils.ShutdownGRPCServer(ctx, "grpc", grpcServer)

	if err := eventRecorder.Close(); err != nil {
		logger.LogError("Unable to close the connector event recorder", err)
	}

	logger.Log.Info("Connector service shutting down")
}

func buildConnectorService(cfg *config.Config, database *gorm.DB) (*controller.ConnectorService, controller.OwnerResolver, controller.ConnectorEventRecorder) {

	definitions, err := connector_repository.NewSqlConnectorDefinitionRepository(cfg, database)
	if err != nil {
		logger.LogFatalError("Unable to create connector definition repository", err)
	}

	connectors, err := connector_repository.NewSqlConnectorRepository(cfg, database)
	if err != nil {
		logger.LogFatalError("Unable to create connector repository", err)
	}

	getOwnerByUID, err := connector_repository.NewSqlGetOwnerByUID(cfg, database)
	if err != nil {
		logger.LogFatalError("Unable to create connector_repository.GetOwnerByUID() function", err)
	}

	getOwnerByID, err := connector_repository.NewSqlGetOwnerByID(cfg, database)
	if err != nil {
		logger.LogFatalError("Unable to create connector_repository.GetOwnerByID() function", err)
	}

	getOwnerByUID = connector_repository.NewCachedGetOwnerByUID(cfg.OwnerCacheSize, cfg.OwnerCacheTTL, getOwnerByUID)
	getOwnerByID = connector_repository.NewCachedGetOwnerByID(cfg.OwnerCacheSize, cfg.OwnerCacheTTL, getOwnerByID)

	logger.Log.Infof("Using \"%s\" connector event recorder impl", cfg.ConnectorEventRecorderImpl)

	eventRecorder, err := controller.NewConnectorEventRecorder(cfg.ConnectorEventRecorderImpl, cfg)
	if err != nil {
		logger.LogFatalError("Unable to create connector event recorder", err)
	}

	tester := controller.NewConnectionTester(cfg.ConnectionTestTimeout)

	service := controller.NewConnectorService(definitions, connectors, tester, eventRecorder)

	ownerResolver := controller.NewOwnerResolver(getOwnerByUID, getOwnerByID, domain.OwnerID(cfg.DefaultOwnerId))

	return service, ownerResolver, eventRecorder
}

func databaseReadinessCheck(database *gorm.DB) api.ReadinessCheck {
	return func(ctx context.Context) error {
		sqlDatabase, err := database.DB()
		if err != nil {
			return err
		}
		return sqlDatabase.PingContext(ctx)
	}
}
