package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	connectorEventKafkaWriterGoRoutineGauge prometheus.Gauge
	connectorEventKafkaWriterSuccessCounter prometheus.Counter
	connectorEventKafkaWriterFailureCounter prometheus.Counter

	connectorOperationCounter *prometheus.CounterVec
	connectionTestCounter     *prometheus.CounterVec
	connectionTestDuration    prometheus.Histogram

	ownerResolutionCounter *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	metrics := new(Metrics)

	metrics.connectorEventKafkaWriterGoRoutineGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "connector_service_event_kafka_writer_go_routine_count",
		Help: "The total number of active kafka connector event writer go routines",
	})

	metrics.connectorEventKafkaWriterSuccessCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connector_service_event_kafka_writer_success_count",
		Help: "The number of connector events that were sent to the kafka topic",
	})

	metrics.connectorEventKafkaWriterFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connector_service_event_kafka_writer_failure_count",
		Help: "The number of connector events that failed to get produced to kafka topic",
	})

	metrics.connectorOperationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_service_connector_operation_count",
		Help: "The number of connector operations by operation and outcome",
	}, []string{"operation", "outcome"})

	metrics.connectionTestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_service_connection_test_count",
		Help: "The number of connection tests by resulting state",
	}, []string{"state"})

	metrics.connectionTestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "connector_service_connection_test_duration",
		Help: "The amount of time a connection test took",
	})

	metrics.ownerResolutionCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_service_owner_resolution_count",
		Help: "The number of owner resolutions by identity header and outcome",
	}, []string{"header", "outcome"})

	return metrics
}

var (
	metrics = NewMetrics()
)
