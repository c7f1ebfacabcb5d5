package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/platform/db"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/sirupsen/logrus"
)

const migrationsSource = "file://db/migrations"

func NewRootCommand() *cobra.Command {

	var seedCatalog bool

	// rootCmd represents the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use: "migrate_db",
	}

	var upCmd = &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade to a later version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigration(func(m *migrate.Migrate) error {
				err := m.Up()
				if err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return err
				}
				if seedCatalog {
					if seedErr := seedConnectorDefinitions(cmd.Context()); seedErr != nil {
						return seedErr
					}
				}
				return err
			})
		},
	}

	var downCmd = &cobra.Command{
		Use:   "downgrade",
		Short: "Revert to a previous version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigration(func(m *migrate.Migrate) error {
				return m.Steps(-1)
			})
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigration(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				logger.Log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Current schema version")
				return nil
			})
		},
	}

	rootCmd.AddCommand(upCmd)
	upCmd.Flags().BoolVar(&seedCatalog, "seed", false, "Seed the connector definition catalog after upgrading")

	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

type loggerWrapper struct {
	*logrus.Logger
}

func (lw loggerWrapper) Verbose() bool {
	return true
}

func withMigration(step func(*migrate.Migrate) error) error {

	cfg := config.GetConfig()
	logger.Log.Info("Starting Connector service DB migration")
	logger.Log.Info("Connector service configuration:\n", cfg)

	gormDb, err := db.InitializeGormDatabaseConnection(cfg)
	if err != nil {
		logger.LogError("Unable to initialize database connection", err)
		return err
	}

	postgresDb, err := gormDb.DB()
	if err != nil {
		logger.LogError("Unable to retrieve DB from gorm connection", err)
		return err
	}

	driver, err := postgres.WithInstance(postgresDb, &postgres.Config{})
	if err != nil {
		logger.LogError("Unable to get postgres driver from database connection", err)
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsSource, "postgres", driver)
	if err != nil {
		logger.LogError("Unable to initialize database migration util", err)
		return err
	}

	m.Log = loggerWrapper{logger.Log}

	err = step(m)
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Log.Info("DB migration resulted in no changes")
	} else if err != nil {
		logger.LogError("DB migration resulted in an error", err)
		return err
	}

	return nil
}

func seedConnectorDefinitions(ctx context.Context) error {
	cfg := config.GetConfig()

	gormDb, err := db.InitializeGormDatabaseConnection(cfg)
	if err != nil {
		return err
	}

	return connector_repository.SeedConnectorDefinitions(ctx, gormDb, connector_repository.DefinitionCatalog)
}

func main() {

	logger.InitLogger()
	defer logger.FlushLogger()

	if err := NewRootCommand().Execute(); err != nil {
		logger.FlushLogger()
		os.Exit(1)
	}
}
