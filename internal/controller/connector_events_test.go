package controller

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func TestNewConnectorEventRecorder(t *testing.T) {
	cfg := config.GetConfig()

	recorder, err := NewConnectorEventRecorder("fake", cfg)
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}

	if _, ok := recorder.(*FakeConnectorEventRecorder); !ok {
		t.Fatalf("expected a fake recorder, but got %T", recorder)
	}

	event := newConnectorEvent(ConnectorCreated, domain.Connector{UID: uuid.New(), ID: "fake", Owner: owner.Permalink()})
	if err := recorder.RecordConnectorEvent(context.Background(), event); err != nil {
		t.Fatal("unexpected error: ", err)
	}

	if _, err := NewConnectorEventRecorder("carrier-pigeon", cfg); err == nil {
		t.Fatal("expected an error for an unknown impl")
	}
}

func TestNewConnectorEvent(t *testing.T) {
	connector := domain.Connector{
		UID:           uuid.New(),
		ID:            "evented",
		Owner:         owner.Permalink(),
		ConnectorType: domain.ConnectorTypeSource,
		State:         domain.StateConnected,
	}

	event := newConnectorEvent(ConnectorConnected, connector)

	if event.ConnectorUID != connector.UID.String() || event.ConnectorID != "evented" || event.State != "STATE_CONNECTED" {
		t.Fatalf("unexpected event %+v", event)
	}

	if event.Timestamp.IsZero() {
		t.Fatal("expected the event to be timestamped")
	}
}

func TestConnectorEventsAreLoggedCompactly(t *testing.T) {
	event := newConnectorEvent(ConnectorRenamed, domain.Connector{UID: uuid.New(), ID: "renamed", Owner: owner.Permalink()})
	event.PreviousID = "original"

	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{"event": event})
	formatted, err := logger.NewCloudwatchFormatter().Format(entry)
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}

	var logged struct {
		Event map[string]interface{} `json:"event"`
	}
	if err := json.Unmarshal(formatted, &logged); err != nil {
		t.Fatal("unexpected error: ", err)
	}

	if logged.Event["connector_uid"] != event.ConnectorUID || logged.Event["previous_id"] != "original" || logged.Event["type"] != "renamed" {
		t.Fatalf("unexpected log fields %v", logged.Event)
	}

	if _, ok := logged.Event["timestamp"]; ok {
		t.Fatal("expected the timestamp to be left to the log entry")
	}

	if _, ok := logged.Event["state"]; ok {
		t.Fatal("expected an empty state to be omitted")
	}
}

func TestKafkaRecorderCloseWaitsForPendingWrites(t *testing.T) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP("127.0.0.1:1"),
		Topic:        "connector-events",
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  1,
	}
	recorder := &KafkaConnectorEventRecorder{KafkaWriter: writer}

	failuresBefore := testutil.ToFloat64(metrics.connectorEventKafkaWriterFailureCounter)

	event := newConnectorEvent(ConnectorDeleted, domain.Connector{UID: uuid.New(), ID: "deleted", Owner: owner.Permalink()})
	if err := recorder.RecordConnectorEvent(context.Background(), event); err != nil {
		t.Fatal("unexpected error: ", err)
	}

	if err := recorder.Close(); err != nil {
		t.Fatal("unexpected error: ", err)
	}

	if got := testutil.ToFloat64(metrics.connectorEventKafkaWriterFailureCounter) - failuresBefore; got != 1 {
		t.Fatalf("expected the pending write to finish before close, but %v writes failed", got)
	}

	if got := testutil.ToFloat64(metrics.connectorEventKafkaWriterGoRoutineGauge); got != 0 {
		t.Fatalf("expected no writer goroutines after close, but got %v", got)
	}
}
