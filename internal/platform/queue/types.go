package queue

import "time"

// ProducerConfig describes the topic connector lifecycle events are published to
type ProducerConfig struct {
	Brokers      []string
	SaslConfig   *SaslConfig
	Topic        string
	BatchSize    int
	BatchBytes   int
	Balancer     string
	RequiredAcks int
	WriteTimeout time.Duration
}

type SaslConfig struct {
	SaslMechanism string
	SaslUsername  string
	SaslPassword  string
	KafkaCA       string
}

func (c *SaslConfig) enabled() bool {
	return c != nil && c.SaslUsername != ""
}
