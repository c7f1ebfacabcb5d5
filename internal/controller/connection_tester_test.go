package controller

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/domain"
)

func TestConnectionTester(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected a HEAD request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal("unable to listen: ", err)
	}
	defer listener.Close()

	host, port, _ := net.SplitHostPort(listener.Addr().String())
	portNumber, _ := strconv.Atoi(port)

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal("unable to listen: ", err)
	}
	closedAddress := closed.Addr().String()
	closed.Close()

	testCases := []struct {
		testName      string
		configuration domain.Configuration
		expectedState domain.State
	}{
		{"no-endpoint", domain.Configuration{}, domain.StateConnected},
		{"nil-configuration", nil, domain.StateConnected},
		{"http-endpoint", domain.Configuration{"endpoint": healthy.URL}, domain.StateConnected},
		{"http-url", domain.Configuration{"url": healthy.URL}, domain.StateConnected},
		{"http-server-error", domain.Configuration{"endpoint": broken.URL}, domain.StateError},
		{"http-unreachable", domain.Configuration{"endpoint": "http://" + closedAddress}, domain.StateError},
		{"tcp-target", domain.Configuration{"target": listener.Addr().String()}, domain.StateConnected},
		{"tcp-host-port", domain.Configuration{"host": host, "port": float64(portNumber)}, domain.StateConnected},
		{"tcp-host-port-string", domain.Configuration{"host": host, "port": port}, domain.StateConnected},
		{"tcp-unreachable", domain.Configuration{"target": closedAddress}, domain.StateError},
	}

	tester := NewConnectionTester(2 * time.Second)

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			state := tester.TestConnection(context.Background(), testLog(), tc.configuration)
			if state != tc.expectedState {
				t.Fatalf("expected %s, but got %s", tc.expectedState, state)
			}
		})
	}
}
