package stream

import (
	"log"
	"strings"

	"github.com/orderstream/notifier/internal/config"
)

// NewSource creates a Source based on the application configuration. If
// KAFKA_BROKERS is set, it returns a KafkaSource; otherwise it falls back
// to a MemorySource suitable for local development.
func NewSource(cfg *config.Config) (Source, error) {
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		log.Printf("stream: using KafkaSource with brokers=%v topic=%s", brokers, cfg.KafkaTopic)
		return NewKafkaSource(KafkaConfig{
			Brokers: brokers,
			Topic:   cfg.KafkaTopic,
		})
	}

	log.Println("stream: using MemorySource (KAFKA_BROKERS not set)")
	return NewMemorySource(4), nil
}
