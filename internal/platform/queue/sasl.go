package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/platform/utils/tls_utils"

	kafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

const dialTimeout = 10 * time.Second

// saslTransport authenticates the producer against a managed kafka cluster over TLS
func saslTransport(cfg *SaslConfig) (*kafka.Transport, error) {

	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}

	var tlsOptions []tls_utils.TlsConfigFunc
	if cfg.KafkaCA != "" {
		tlsOptions = append(tlsOptions, tls_utils.WithCACerts(cfg.KafkaCA))
	}

	tlsConfig, err := tls_utils.NewTlsConfig(tlsOptions...)
	if err != nil {
		return nil, fmt.Errorf("unable to load kafka ca cert: %w", err)
	}

	return &kafka.Transport{
		DialTimeout: dialTimeout,
		SASL:        mechanism,
		TLS:         tlsConfig,
	}, nil
}

func saslMechanism(cfg *SaslConfig) (sasl.Mechanism, error) {
	switch strings.ToLower(cfg.SaslMechanism) {
	case "plain":
		return plain.Mechanism{
			Username: cfg.SaslUsername,
			Password: cfg.SaslPassword,
		}, nil
	case "scram-sha-512":
		return scram.Mechanism(scram.SHA512, cfg.SaslUsername, cfg.SaslPassword)
	case "scram-sha-256":
		return scram.Mechanism(scram.SHA256, cfg.SaslUsername, cfg.SaslPassword)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SaslMechanism)
	}
}
