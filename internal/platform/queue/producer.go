package queue

import (
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// StartProducer builds a synchronous writer.  Messages are keyed by connector uid, so the hash
// balancer keeps the events of one connector in order.
func StartProducer(cfg *ProducerConfig) (*kafka.Writer, error) {
	log := logger.Log.WithFields(logrus.Fields{"topic": cfg.Topic, "brokers": cfg.Brokers})

	log.Info("Starting connector event producer")

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		BatchSize:    cfg.BatchSize,
		BatchBytes:   int64(cfg.BatchBytes),
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		WriteTimeout: cfg.WriteTimeout,
		Balancer:     balancer(cfg.Balancer),
	}

	if cfg.SaslConfig.enabled() {
		transport, err := saslTransport(cfg.SaslConfig)
		if err != nil {
			logger.LogWithError(log, "Unable to configure SASL for the connector event producer", err)
			return nil, err
		}
		w.Transport = transport
	}

	return w, nil
}

func balancer(name string) kafka.Balancer {
	switch name {
	case "hash":
		return &kafka.Hash{}
	case "crc32":
		return &kafka.CRC32Balancer{}
	default:
		return &kafka.LeastBytes{}
	}
}
