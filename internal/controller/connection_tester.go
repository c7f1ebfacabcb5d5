package controller

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type ConnectionTester interface {
	TestConnection(ctx context.Context, log *logrus.Entry, configuration domain.Configuration) domain.State
}

type dialingConnectionTester struct {
	timeout    time.Duration
	httpClient *http.Client
	dialer     *net.Dialer
}

func NewConnectionTester(timeout time.Duration) ConnectionTester {
	return &dialingConnectionTester{
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		dialer:     &net.Dialer{Timeout: timeout},
	}
}

// TestConnection checks the endpoint named by the configuration.  An http(s) endpoint or url gets
// a HEAD request, a target or host/port pair gets a tcp dial.  A configuration without an
// endpoint has nothing to reach and reports connected.
func (t *dialingConnectionTester) TestConnection(ctx context.Context, log *logrus.Entry, configuration domain.Configuration) domain.State {
	callDurationTimer := prometheus.NewTimer(metrics.connectionTestDuration)
	defer callDurationTimer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	state := domain.StateConnected

	if endpoint, ok := httpEndpoint(configuration); ok {
		log = log.WithFields(logrus.Fields{"endpoint": endpoint})
		if err := t.checkHTTP(ctx, endpoint); err != nil {
			log.WithFields(logrus.Fields{"error": err}).Debug("HTTP connection test failed")
			state = domain.StateError
		}
	} else if address, ok := tcpAddress(configuration); ok {
		log = log.WithFields(logrus.Fields{"address": address})
		if err := t.checkTCP(ctx, address); err != nil {
			log.WithFields(logrus.Fields{"error": err}).Debug("TCP connection test failed")
			state = domain.StateError
		}
	}

	metrics.connectionTestCounter.WithLabelValues(string(state)).Inc()

	return state
}

func (t *dialingConnectionTester) checkHTTP(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}

	return nil
}

func (t *dialingConnectionTester) checkTCP(ctx context.Context, address string) error {
	conn, err := t.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}

func httpEndpoint(configuration domain.Configuration) (string, bool) {
	for _, key := range []string{"endpoint", "url"} {
		value, ok := configuration[key].(string)
		if !ok || value == "" {
			continue
		}

		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}

		return value, true
	}

	return "", false
}

func tcpAddress(configuration domain.Configuration) (string, bool) {
	if target, ok := configuration["target"].(string); ok && target != "" {
		return target, true
	}

	host, _ := configuration["host"].(string)
	if host == "" {
		return "", false
	}

	switch port := configuration["port"].(type) {
	case string:
		return net.JoinHostPort(host, port), port != ""
	case float64:
		return net.JoinHostPort(host, fmt.Sprintf("%d", int(port))), true
	default:
		return "", false
	}
}
