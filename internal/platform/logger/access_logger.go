package logger

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

const requestIdHeader = "X-Rh-Insights-Request-Id"

// identity headers in the order the owner resolver consults them
var identitySources = []string{"jwt-sub", "owner-id", "x-rh-identity"}

func AccessLoggerMiddleware(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, logrusAccessLogAdapter)
}

func logrusAccessLogAdapter(w io.Writer, params handlers.LogFormatterParams) {
	req := params.Request

	fields := logrus.Fields{
		"remote_addr":     req.RemoteAddr,
		"method":          req.Method,
		"path":            params.URL.Path,
		"query":           params.URL.RawQuery,
		"request_id":      req.Header.Get(requestIdHeader),
		"identity_source": identitySource(req.Header),
		"status":          params.StatusCode,
		"size":            params.Size,
		"duration_ms":     time.Since(params.TimeStamp).Milliseconds(),
	}

	entry := Log.WithFields(fields)
	if params.StatusCode >= http.StatusInternalServerError {
		entry.Warn("access")
		return
	}
	entry.Info("access")
}

func identitySource(header http.Header) string {
	for _, name := range identitySources {
		if header.Get(name) != "" {
			return name
		}
	}
	return "none"
}
