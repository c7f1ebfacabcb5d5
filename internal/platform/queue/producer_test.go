package queue

import (
	"testing"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/go-playground/assert/v2"
	kafka "github.com/segmentio/kafka-go"
)

func init() {
	logger.InitLogger()
}

func TestStartProducerWithoutSasl(t *testing.T) {
	w, err := StartProducer(&ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "platform.connector-service.events",
		Balancer:     "hash",
		RequiredAcks: int(kafka.RequireAll),
		WriteTimeout: 5 * time.Second,
	})

	assert.Equal(t, err, nil)
	assert.Equal(t, w.Topic, "platform.connector-service.events")
	assert.Equal(t, w.RequiredAcks, kafka.RequireAll)
	assert.Equal(t, w.Transport, nil)

	_, isHash := w.Balancer.(*kafka.Hash)
	assert.Equal(t, isHash, true)

	w.Close()
}

func TestStartProducerWithSasl(t *testing.T) {
	w, err := StartProducer(&ProducerConfig{
		Brokers:    []string{"localhost:9092"},
		Topic:      "platform.connector-service.events",
		SaslConfig: &SaslConfig{SaslMechanism: "scram-sha-512", SaslUsername: "user", SaslPassword: "pass"},
	})

	assert.Equal(t, err, nil)
	assert.NotEqual(t, w.Transport, nil)

	w.Close()
}

func TestSaslMechanisms(t *testing.T) {
	testCases := []struct {
		mechanism   string
		expectError bool
	}{
		{"plain", false},
		{"PLAIN", false},
		{"scram-sha-512", false},
		{"scram-sha-256", false},
		{"gssapi", true},
	}

	for _, tc := range testCases {
		t.Run(tc.mechanism, func(t *testing.T) {
			_, err := saslMechanism(&SaslConfig{SaslMechanism: tc.mechanism, SaslUsername: "user", SaslPassword: "pass"})
			assert.Equal(t, err != nil, tc.expectError)
		})
	}
}

func TestSaslTransportMissingCA(t *testing.T) {
	_, err := saslTransport(&SaslConfig{SaslMechanism: "plain", SaslUsername: "user", SaslPassword: "pass", KafkaCA: "/does/not/exist.pem"})
	assert.NotEqual(t, err, nil)
}
