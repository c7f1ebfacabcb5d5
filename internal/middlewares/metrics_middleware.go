package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statusCodeCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_service_http_status_code_counter",
		Help: "The number of http status codes per method and route",
	}, []string{"method", "route", "status_code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "connector_service_http_request_duration_seconds",
		Help: "The time spent handling a request per method and route",
	}, []string{"method", "route"})
)

// MetricsMiddleware records status codes and latency per route template, so that connector ids
// do not end up in label values
type MetricsMiddleware struct {
}

func (mw *MetricsMiddleware) RecordHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {

		route := routeTemplate(req)

		timer := prometheus.NewTimer(requestDuration.With(prometheus.Labels{"method": req.Method, "route": route}))
		defer timer.ObserveDuration()

		resp := &wrappedResponseWriter{w, http.StatusOK}

		next.ServeHTTP(resp, req)

		statusCodeCounter.With(prometheus.Labels{
			"method":      req.Method,
			"route":       route,
			"status_code": strconv.Itoa(resp.statusCode)}).Inc()
	})
}

func routeTemplate(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return "unknown"
}

type wrappedResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (ww *wrappedResponseWriter) WriteHeader(status int) {
	ww.statusCode = status
	ww.ResponseWriter.WriteHeader(status)
}
