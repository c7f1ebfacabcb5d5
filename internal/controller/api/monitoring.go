package api

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency of the service can take traffic
type ReadinessCheck func(ctx context.Context) error

type MonitoringServer struct {
	router          *mux.Router
	config          *config.Config
	readinessChecks []ReadinessCheck
}

func NewMonitoringServer(r *mux.Router, cfg *config.Config, checks ...ReadinessCheck) *MonitoringServer {
	return &MonitoringServer{
		router:          r,
		config:          cfg,
		readinessChecks: checks,
	}
}

func (s *MonitoringServer) Routes() {
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/liveness", s.handleLiveness()).Methods(http.MethodGet)
	s.router.HandleFunc("/readiness", s.handleReadiness()).Methods(http.MethodGet)

	if s.config.Profile {
		logger.Log.Warn("WARNING: Enabling the profiler endpoint!!")
		s.router.PathPrefix("/debug").Handler(http.DefaultServeMux)
	}
}

func (s *MonitoringServer) handleLiveness() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func (s *MonitoringServer) handleReadiness() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		for _, check := range s.readinessChecks {
			if err := check(ctx); err != nil {
				logger.LogError("Readiness check failed", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}
