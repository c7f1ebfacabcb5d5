package connector_repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type connectorRepositoryMetrics struct {
	sqlListConnectorDefinitionsDuration  prometheus.Histogram
	sqlLookupConnectorDefinitionDuration prometheus.Histogram

	sqlCreateConnectorDuration prometheus.Histogram
	sqlListConnectorsDuration  prometheus.Histogram
	sqlLookupConnectorDuration prometheus.Histogram
	sqlUpdateConnectorDuration prometheus.Histogram
	sqlDeleteConnectorDuration prometheus.Histogram

	sqlLookupOwnerDuration prometheus.Histogram
	ownerCacheHitCounter   prometheus.Counter
	ownerCacheMissCounter  prometheus.Counter
}

var metrics *connectorRepositoryMetrics

func init() {
	metrics = new(connectorRepositoryMetrics)

	metrics.sqlListConnectorDefinitionsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_list_connector_definitions_duration",
		Help: "The amount of time it took to list connector definitions",
	})

	metrics.sqlLookupConnectorDefinitionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_lookup_connector_definition_duration",
		Help: "The amount of time it took to lookup a connector definition by id or uid",
	})

	metrics.sqlCreateConnectorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_create_connector_duration",
		Help: "The amount of time it took to insert a connector in the db",
	})

	metrics.sqlListConnectorsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_list_connectors_duration",
		Help: "The amount of time it took to list connectors",
	})

	metrics.sqlLookupConnectorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_lookup_connector_duration",
		Help: "The amount of time it took to lookup a connector by id or uid",
	})

	metrics.sqlUpdateConnectorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_update_connector_duration",
		Help: "The amount of time it took to update a connector in the db",
	})

	metrics.sqlDeleteConnectorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_delete_connector_duration",
		Help: "The amount of time it took to delete a connector from the db",
	})

	metrics.sqlLookupOwnerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_sql_lookup_owner_duration",
		Help: "The amount of time it took to lookup an owner",
	})

	metrics.ownerCacheHitCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connector_service_owner_cache_hit_count",
		Help: "The number of owner lookups served from the cache",
	})

	metrics.ownerCacheMissCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connector_service_owner_cache_miss_count",
		Help: "The number of owner lookups that missed the cache",
	})
}
