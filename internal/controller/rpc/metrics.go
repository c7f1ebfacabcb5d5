package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	grpcHandledCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_service_grpc_server_handled_total",
		Help: "The number of completed grpc calls by service, method and code",
	}, []string{"grpc_service", "grpc_method", "grpc_code"})

	grpcHandledDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "connector_service_grpc_server_handling_seconds",
		Help: "The time spent handling grpc calls by service and method",
	}, []string{"grpc_service", "grpc_method"})

	grpcPanicCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connector_service_grpc_server_panics_total",
		Help: "The number of grpc handler panics that were recovered",
	})
)
