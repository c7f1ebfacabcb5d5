package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ENV_PREFIX = "CONNECTOR_SERVICE"

	URL_API_VERSION                  = "URL_Api_Version"
	URL_BASE_PATH                    = "URL_Base_Path"
	HTTP_SHUTDOWN_TIMEOUT            = "HTTP_Shutdown_Timeout"
	PUBLIC_HTTP_ADDR                 = "Public_Http_Addr"
	PRIVATE_HTTP_ADDR                = "Private_Http_Addr"
	GRPC_ADDR                        = "Grpc_Addr"
	GRPC_TLS_CERT_FILE               = "Grpc_Tls_Cert_File"
	GRPC_TLS_KEY_FILE                = "Grpc_Tls_Key_File"
	SERVICE_TO_SERVICE_CREDENTIALS   = "Service_To_Service_Credentials"
	PROFILE                          = "Enable_Profile"
	DEFAULT_PAGE_SIZE                = "Default_Page_Size"
	MAX_PAGE_SIZE                    = "Max_Page_Size"
	DEFAULT_OWNER_ID                 = "Default_Owner_Id"
	DEFAULT_OWNER_UID                = "Default_Owner_Uid"
	OWNER_CACHE_SIZE                 = "Owner_Cache_Size"
	OWNER_CACHE_TTL                  = "Owner_Cache_TTL"
	CONNECTION_TEST_TIMEOUT          = "Connection_Test_Timeout"
	CONNECTOR_EVENT_RECORDER_IMPL    = "Connector_Event_Recorder_Impl"
	BROKERS                          = "Kafka_Brokers"
	CONNECTOR_EVENTS_TOPIC           = "Kafka_Connector_Events_Topic"
	CONNECTOR_EVENTS_BATCH_SIZE      = "Kafka_Connector_Events_Batch_Size"
	CONNECTOR_EVENTS_BATCH_BYTES     = "Kafka_Connector_Events_Batch_Bytes"
	KAFKA_CA                         = "Kafka_CA"
	KAFKA_USERNAME                   = "Kafka_Username"
	KAFKA_PASSWORD                   = "Kafka_Password"
	KAFKA_SASL_MECHANISM             = "Kafka_SASL_Mechanism"
	DEFAULT_BROKER_ADDRESS           = "kafka:29092"
	CONNECTOR_DATABASE_IMPL          = "Connector_Database_Impl"
	CONNECTOR_DATABASE_HOST          = "Connector_Database_Host"
	CONNECTOR_DATABASE_PORT          = "Connector_Database_Port"
	CONNECTOR_DATABASE_USER          = "Connector_Database_User"
	CONNECTOR_DATABASE_PASSWORD      = "Connector_Database_Password"
	CONNECTOR_DATABASE_NAME          = "Connector_Database_Name"
	CONNECTOR_DATABASE_SSL_MODE      = "Connector_Database_SSL_Mode"
	CONNECTOR_DATABASE_SSL_ROOT_CERT = "Connector_Database_SSL_Root_Cert"
	CONNECTOR_DATABASE_SQLITE_FILE   = "Connector_Database_Sqlite_File"
	CONNECTOR_DATABASE_QUERY_TIMEOUT = "Connector_Database_Query_Timeout"
)

type Config struct {
	UrlApiVersion                  string
	UrlBasePath                    string
	HttpShutdownTimeout            time.Duration
	PublicHttpAddr                 string
	PrivateHttpAddr                string
	GrpcAddr                       string
	GrpcTlsCertFile                string
	GrpcTlsKeyFile                 string
	ServiceToServiceCredentials    map[string]interface{}
	Profile                        bool
	DefaultPageSize                int
	MaxPageSize                    int
	DefaultOwnerId                 string
	DefaultOwnerUid                string
	OwnerCacheSize                 int
	OwnerCacheTTL                  time.Duration
	ConnectionTestTimeout          time.Duration
	ConnectorEventRecorderImpl     string
	KafkaBrokers                   []string
	KafkaConnectorEventsTopic      string
	KafkaConnectorEventsBatchSize  int
	KafkaConnectorEventsBatchBytes int
	KafkaCA                        string
	KafkaUsername                  string
	KafkaPassword                  string
	KafkaSASLMechanism             string
	ConnectorDatabaseImpl          string
	ConnectorDatabaseHost          string
	ConnectorDatabasePort          int
	ConnectorDatabaseUser          string
	ConnectorDatabasePassword      string
	ConnectorDatabaseName          string
	ConnectorDatabaseSslMode       string
	ConnectorDatabaseSslRootCert   string
	ConnectorDatabaseSqliteFile    string
	ConnectorDatabaseQueryTimeout  time.Duration
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", URL_API_VERSION, c.UrlApiVersion)
	fmt.Fprintf(&b, "%s: %s\n", URL_BASE_PATH, c.UrlBasePath)
	fmt.Fprintf(&b, "%s: %s\n", HTTP_SHUTDOWN_TIMEOUT, c.HttpShutdownTimeout)
	fmt.Fprintf(&b, "%s: %s\n", PUBLIC_HTTP_ADDR, c.PublicHttpAddr)
	fmt.Fprintf(&b, "%s: %s\n", PRIVATE_HTTP_ADDR, c.PrivateHttpAddr)
	fmt.Fprintf(&b, "%s: %s\n", GRPC_ADDR, c.GrpcAddr)
	fmt.Fprintf(&b, "%s: %s\n", GRPC_TLS_CERT_FILE, c.GrpcTlsCertFile)
	fmt.Fprintf(&b, "%s: %s\n", GRPC_TLS_KEY_FILE, c.GrpcTlsKeyFile)
	fmt.Fprintf(&b, "%s: %t\n", PROFILE, c.Profile)
	fmt.Fprintf(&b, "%s: %d\n", DEFAULT_PAGE_SIZE, c.DefaultPageSize)
	fmt.Fprintf(&b, "%s: %d\n", MAX_PAGE_SIZE, c.MaxPageSize)
	fmt.Fprintf(&b, "%s: %s\n", DEFAULT_OWNER_ID, c.DefaultOwnerId)
	fmt.Fprintf(&b, "%s: %s\n", DEFAULT_OWNER_UID, c.DefaultOwnerUid)
	fmt.Fprintf(&b, "%s: %d\n", OWNER_CACHE_SIZE, c.OwnerCacheSize)
	fmt.Fprintf(&b, "%s: %s\n", OWNER_CACHE_TTL, c.OwnerCacheTTL)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_TEST_TIMEOUT, c.ConnectionTestTimeout)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_EVENT_RECORDER_IMPL, c.ConnectorEventRecorderImpl)
	fmt.Fprintf(&b, "%s: %s\n", BROKERS, c.KafkaBrokers)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_EVENTS_TOPIC, c.KafkaConnectorEventsTopic)
	fmt.Fprintf(&b, "%s: %d\n", CONNECTOR_EVENTS_BATCH_SIZE, c.KafkaConnectorEventsBatchSize)
	fmt.Fprintf(&b, "%s: %d\n", CONNECTOR_EVENTS_BATCH_BYTES, c.KafkaConnectorEventsBatchBytes)
	fmt.Fprintf(&b, "%s: %s\n", KAFKA_SASL_MECHANISM, c.KafkaSASLMechanism)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_IMPL, c.ConnectorDatabaseImpl)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_HOST, c.ConnectorDatabaseHost)
	fmt.Fprintf(&b, "%s: %d\n", CONNECTOR_DATABASE_PORT, c.ConnectorDatabasePort)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_USER, c.ConnectorDatabaseUser)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_NAME, c.ConnectorDatabaseName)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_SSL_MODE, c.ConnectorDatabaseSslMode)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_SSL_ROOT_CERT, c.ConnectorDatabaseSslRootCert)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_SQLITE_FILE, c.ConnectorDatabaseSqliteFile)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTOR_DATABASE_QUERY_TIMEOUT, c.ConnectorDatabaseQueryTimeout)

	return b.String()
}

func GetConfig() *Config {
	options := viper.New()

	options.SetDefault(URL_API_VERSION, "v1alpha")
	options.SetDefault(HTTP_SHUTDOWN_TIMEOUT, 2)
	options.SetDefault(PUBLIC_HTTP_ADDR, ":8080")
	options.SetDefault(PRIVATE_HTTP_ADDR, ":8081")
	options.SetDefault(GRPC_ADDR, ":9090")
	options.SetDefault(SERVICE_TO_SERVICE_CREDENTIALS, "")
	options.SetDefault(PROFILE, false)
	options.SetDefault(DEFAULT_PAGE_SIZE, 10)
	options.SetDefault(MAX_PAGE_SIZE, 100)

	options.SetDefault(DEFAULT_OWNER_ID, "local-user")
	options.SetDefault(DEFAULT_OWNER_UID, "2a06c2f7-8da9-4046-91ea-240f88a5d000")
	options.SetDefault(OWNER_CACHE_SIZE, 1000)
	options.SetDefault(OWNER_CACHE_TTL, 30)

	options.SetDefault(CONNECTION_TEST_TIMEOUT, 5)

	options.SetDefault(CONNECTOR_EVENT_RECORDER_IMPL, "fake")
	options.SetDefault(BROKERS, []string{DEFAULT_BROKER_ADDRESS})
	options.SetDefault(CONNECTOR_EVENTS_TOPIC, "platform.connector-service.events")
	options.SetDefault(CONNECTOR_EVENTS_BATCH_SIZE, 100)
	options.SetDefault(CONNECTOR_EVENTS_BATCH_BYTES, 1048576)
	options.SetDefault(KAFKA_SASL_MECHANISM, "plain")

	options.SetDefault(CONNECTOR_DATABASE_IMPL, "postgres")
	options.SetDefault(CONNECTOR_DATABASE_HOST, "localhost")
	options.SetDefault(CONNECTOR_DATABASE_PORT, 5432)
	options.SetDefault(CONNECTOR_DATABASE_USER, "insights")
	options.SetDefault(CONNECTOR_DATABASE_PASSWORD, "insights")
	options.SetDefault(CONNECTOR_DATABASE_NAME, "connector-service")
	options.SetDefault(CONNECTOR_DATABASE_SSL_MODE, "disable")
	options.SetDefault(CONNECTOR_DATABASE_SSL_ROOT_CERT, "db_ssl_root_cert.pem")
	options.SetDefault(CONNECTOR_DATABASE_SQLITE_FILE, "connector-service.db")
	options.SetDefault(CONNECTOR_DATABASE_QUERY_TIMEOUT, 5)

	options.SetEnvPrefix(ENV_PREFIX)
	options.AutomaticEnv()

	return &Config{
		UrlApiVersion:                  options.GetString(URL_API_VERSION),
		UrlBasePath:                    buildUrlBasePath(options.GetString(URL_API_VERSION)),
		HttpShutdownTimeout:            options.GetDuration(HTTP_SHUTDOWN_TIMEOUT) * time.Second,
		PublicHttpAddr:                 options.GetString(PUBLIC_HTTP_ADDR),
		PrivateHttpAddr:                options.GetString(PRIVATE_HTTP_ADDR),
		GrpcAddr:                       options.GetString(GRPC_ADDR),
		GrpcTlsCertFile:                options.GetString(GRPC_TLS_CERT_FILE),
		GrpcTlsKeyFile:                 options.GetString(GRPC_TLS_KEY_FILE),
		ServiceToServiceCredentials:    options.GetStringMap(SERVICE_TO_SERVICE_CREDENTIALS),
		Profile:                        options.GetBool(PROFILE),
		DefaultPageSize:                options.GetInt(DEFAULT_PAGE_SIZE),
		MaxPageSize:                    options.GetInt(MAX_PAGE_SIZE),
		DefaultOwnerId:                 options.GetString(DEFAULT_OWNER_ID),
		DefaultOwnerUid:                options.GetString(DEFAULT_OWNER_UID),
		OwnerCacheSize:                 options.GetInt(OWNER_CACHE_SIZE),
		OwnerCacheTTL:                  options.GetDuration(OWNER_CACHE_TTL) * time.Second,
		ConnectionTestTimeout:          options.GetDuration(CONNECTION_TEST_TIMEOUT) * time.Second,
		ConnectorEventRecorderImpl:     options.GetString(CONNECTOR_EVENT_RECORDER_IMPL),
		KafkaBrokers:                   options.GetStringSlice(BROKERS),
		KafkaConnectorEventsTopic:      options.GetString(CONNECTOR_EVENTS_TOPIC),
		KafkaConnectorEventsBatchSize:  options.GetInt(CONNECTOR_EVENTS_BATCH_SIZE),
		KafkaConnectorEventsBatchBytes: options.GetInt(CONNECTOR_EVENTS_BATCH_BYTES),
		KafkaCA:                        options.GetString(KAFKA_CA),
		KafkaUsername:                  options.GetString(KAFKA_USERNAME),
		KafkaPassword:                  options.GetString(KAFKA_PASSWORD),
		KafkaSASLMechanism:             options.GetString(KAFKA_SASL_MECHANISM),
		ConnectorDatabaseImpl:          options.GetString(CONNECTOR_DATABASE_IMPL),
		ConnectorDatabaseHost:          options.GetString(CONNECTOR_DATABASE_HOST),
		ConnectorDatabasePort:          options.GetInt(CONNECTOR_DATABASE_PORT),
		ConnectorDatabaseUser:          options.GetString(CONNECTOR_DATABASE_USER),
		ConnectorDatabasePassword:      options.GetString(CONNECTOR_DATABASE_PASSWORD),
		ConnectorDatabaseName:          options.GetString(CONNECTOR_DATABASE_NAME),
		ConnectorDatabaseSslMode:       options.GetString(CONNECTOR_DATABASE_SSL_MODE),
		ConnectorDatabaseSslRootCert:   options.GetString(CONNECTOR_DATABASE_SSL_ROOT_CERT),
		ConnectorDatabaseSqliteFile:    options.GetString(CONNECTOR_DATABASE_SQLITE_FILE),
		ConnectorDatabaseQueryTimeout:  options.GetDuration(CONNECTOR_DATABASE_QUERY_TIMEOUT) * time.Second,
	}
}

func buildUrlBasePath(apiVersion string) string {
	return fmt.Sprintf("/%s", apiVersion)
}
