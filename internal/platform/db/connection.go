package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/RedHatInsights/connector-conformance/internal/config"

	_ "github.com/lib/pq"
)

const (
	PostgresImpl = "postgres"
	SqliteImpl   = "sqlite"
)

func InitializeDatabaseConnection(cfg *config.Config) (*sql.DB, error) {
	if cfg.ConnectorDatabaseImpl != PostgresImpl {
		return nil, errors.New("Invalid SQL database impl requested: " + cfg.ConnectorDatabaseImpl)
	}

	return initializePostgresConnection(cfg)
}

func initializePostgresConnection(cfg *config.Config) (*sql.DB, error) {
	psqlConnectionInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s TimeZone=UTC",
		cfg.ConnectorDatabaseHost,
		cfg.ConnectorDatabasePort,
		cfg.ConnectorDatabaseUser,
		cfg.ConnectorDatabasePassword,
		cfg.ConnectorDatabaseName)

	sslSettings, err := buildPostgresSslConfigString(cfg)
	if err != nil {
		return nil, err
	}

	psqlConnectionInfo += " " + sslSettings

	return sql.Open("postgres", psqlConnectionInfo)
}

func buildPostgresSslConfigString(cfg *config.Config) (string, error) {
	if cfg.ConnectorDatabaseSslMode == "disable" {
		return "sslmode=disable", nil
	} else if cfg.ConnectorDatabaseSslMode == "verify-full" {
		return "sslmode=verify-full sslrootcert=" + cfg.ConnectorDatabaseSslRootCert, nil
	} else {
		return "", errors.New("Invalid SSL configuration for database connection: " + cfg.ConnectorDatabaseSslMode)
	}
}

func InitializeGormDatabaseConnection(cfg *config.Config) (*gorm.DB, error) {

	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	switch cfg.ConnectorDatabaseImpl {
	case PostgresImpl:
		sqlDatabase, err := initializePostgresConnection(cfg)
		if err != nil {
			return nil, err
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDatabase}), gormConfig)
	case SqliteImpl:
		return OpenSqlite(cfg.ConnectorDatabaseSqliteFile)
	default:
		return nil, errors.New("Invalid SQL database impl requested: " + cfg.ConnectorDatabaseImpl)
	}
}

// OpenSqlite opens a sqlite backed gorm connection.  Pass ":memory:" for a throwaway database.
func OpenSqlite(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// an in-memory sqlite database only lives as long as its connection
	sqlDatabase, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDatabase.SetMaxOpenConns(1)

	return database, nil
}
