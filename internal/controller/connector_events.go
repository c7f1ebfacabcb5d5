package controller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"
	"github.com/RedHatInsights/connector-conformance/internal/platform/queue"

	"github.com/redhatinsights/platform-go-middlewares/request_id"
	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type ConnectorEventType string

const (
	ConnectorCreated      ConnectorEventType = "created"
	ConnectorUpdated      ConnectorEventType = "updated"
	ConnectorRenamed      ConnectorEventType = "renamed"
	ConnectorConnected    ConnectorEventType = "connected"
	ConnectorDisconnected ConnectorEventType = "disconnected"
	ConnectorDeleted      ConnectorEventType = "deleted"
)

type ConnectorEvent struct {
	Type          ConnectorEventType `json:"type"`
	Owner         string             `json:"owner"`
	ConnectorUID  string             `json:"connector_uid"`
	ConnectorID   string             `json:"connector_id"`
	PreviousID    string             `json:"previous_id,omitempty"`
	ConnectorType string             `json:"connector_type,omitempty"`
	State         string             `json:"state,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

// MarshalLog keeps the event compact in the cloudwatch log formatter
func (e ConnectorEvent) MarshalLog() map[string]interface{} {
	fields := map[string]interface{}{
		"type":          e.Type,
		"owner":         e.Owner,
		"connector_uid": e.ConnectorUID,
		"connector_id":  e.ConnectorID,
	}
	if e.PreviousID != "" {
		fields["previous_id"] = e.PreviousID
	}
	if e.State != "" {
		fields["state"] = e.State
	}
	return fields
}

func newConnectorEvent(eventType ConnectorEventType, connector domain.Connector) ConnectorEvent {
	return ConnectorEvent{
		Type:          eventType,
		Owner:         connector.Owner,
		ConnectorUID:  connector.UID.String(),
		ConnectorID:   string(connector.ID),
		ConnectorType: string(connector.ConnectorType),
		State:         string(connector.State),
		Timestamp:     time.Now().UTC(),
	}
}

type ConnectorEventRecorder interface {
	RecordConnectorEvent(context.Context, ConnectorEvent) error
	Close() error
}

func NewConnectorEventRecorder(impl string, cfg *config.Config) (ConnectorEventRecorder, error) {

	switch impl {
	case "kafka":
		kafkaProducerCfg := &queue.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaConnectorEventsTopic,
			BatchSize:    cfg.KafkaConnectorEventsBatchSize,
			BatchBytes:   cfg.KafkaConnectorEventsBatchBytes,
			Balancer:     "hash",
			RequiredAcks: int(kafka.RequireAll),
			WriteTimeout: 10 * time.Second,
			SaslConfig: &queue.SaslConfig{
				SaslMechanism: cfg.KafkaSASLMechanism,
				SaslUsername:  cfg.KafkaUsername,
				SaslPassword:  cfg.KafkaPassword,
				KafkaCA:       cfg.KafkaCA,
			},
		}

		kafkaProducer, err := queue.StartProducer(kafkaProducerCfg)
		if err != nil {
			return nil, err
		}

		return &KafkaConnectorEventRecorder{KafkaWriter: kafkaProducer}, nil
	case "fake":
		return &FakeConnectorEventRecorder{}, nil
	default:
		return nil, errors.New("Invalid ConnectorEventRecorder impl requested")
	}
}

type platformMetadata struct {
	RequestID string `json:"request_id"`
}

type connectorEventEnvelope struct {
	PlatformMetadata platformMetadata `json:"platform_metadata"`
	Data             ConnectorEvent   `json:"data"`
}

type KafkaConnectorEventRecorder struct {
	KafkaWriter *kafka.Writer
	pending     sync.WaitGroup
}

// RecordConnectorEvent hands the event to a writer goroutine.  Delivery failures are logged and
// counted, they are never reported to the caller.
func (r *KafkaConnectorEventRecorder) RecordConnectorEvent(ctx context.Context, event ConnectorEvent) error {

	requestID := request_id.GetReqID(ctx)

	log := logger.Log.WithFields(logrus.Fields{"request_id": requestID, "event": event})

	envelope := connectorEventEnvelope{
		PlatformMetadata: platformMetadata{RequestID: requestID},
		Data:             event,
	}

	jsonEventMessage, err := json.Marshal(envelope)
	if err != nil {
		logger.LogWithError(log, "JSON marshal of connector event failed", err)
		return err
	}

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()

		metrics.connectorEventKafkaWriterGoRoutineGauge.Inc()
		defer metrics.connectorEventKafkaWriterGoRoutineGauge.Dec()

		// the request context is gone by the time the batch is flushed
		writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := r.KafkaWriter.WriteMessages(writeCtx,
			kafka.Message{
				Key:   []byte(event.ConnectorUID),
				Value: jsonEventMessage,
			})

		if err != nil {
			logger.LogWithError(log, "Error writing connector event to kafka", err)
			metrics.connectorEventKafkaWriterFailureCounter.Inc()
			return
		}

		log.Debug("Connector event kafka message written")
		metrics.connectorEventKafkaWriterSuccessCounter.Inc()
	}()

	return nil
}

// Close waits for the events still being written and then flushes and closes the writer
func (r *KafkaConnectorEventRecorder) Close() error {
	r.pending.Wait()
	return r.KafkaWriter.Close()
}

type FakeConnectorEventRecorder struct {
}

func (r *FakeConnectorEventRecorder) RecordConnectorEvent(ctx context.Context, event ConnectorEvent) error {
	log := logger.Log.WithFields(logrus.Fields{"event": event})

	log.Debug("FAKE: connector event recorder: ", event.Type)

	return nil
}

func (r *FakeConnectorEventRecorder) Close() error {
	return nil
}
