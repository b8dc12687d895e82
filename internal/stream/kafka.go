package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds configuration for the Kafka-backed source.
type KafkaConfig struct {
	Brokers []string // list of broker addresses
	Topic   string
}

// KafkaSource reads a topic partition-by-partition via segmentio/kafka-go.
// Readers are pinned to explicit partitions (no consumer group): the record
// pipeline requires strict per-partition ordering, and assignment is handed
// to this instance from outside.
type KafkaSource struct {
	config KafkaConfig

	mu      sync.Mutex
	readers []*kafkaReader
	closed  bool
}

// NewKafkaSource validates the configuration and returns a KafkaSource.
func NewKafkaSource(config KafkaConfig) (*KafkaSource, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one Kafka broker address is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("a Kafka topic is required")
	}
	return &KafkaSource{config: config}, nil
}

// Partitions queries the first reachable broker for the topic's partition
// list.
func (s *KafkaSource) Partitions(ctx context.Context) ([]int, error) {
	var lastErr error
	for _, addr := range s.config.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}

		parts, err := conn.ReadPartitions(s.config.Topic)
		conn.Close()
		if err != nil {
			lastErr = err
			continue
		}

		ids := make([]int, 0, len(parts))
		for _, p := range parts {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}
	return nil, fmt.Errorf("read partitions for topic %s: %w", s.config.Topic, lastErr)
}

// Reader returns a Reader pinned to the given partition, starting from the
// last committed position (or the newest offset for a fresh partition).
func (s *KafkaSource) Reader(partition int) Reader {
	r := &kafkaReader{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:   s.config.Brokers,
			Topic:     s.config.Topic,
			Partition: partition,
			MinBytes:  1,
			MaxBytes:  10e6, // 10MB
			MaxWait:   500 * time.Millisecond,
		}),
	}

	s.mu.Lock()
	s.readers = append(s.readers, r)
	s.mu.Unlock()

	return r
}

// Close closes every reader handed out so far, releasing the partition
// claims.
func (s *KafkaSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for _, r := range s.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type kafkaReader struct {
	reader *kafka.Reader
}

func (r *kafkaReader) Fetch(ctx context.Context) (Record, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Timestamp: msg.Time,
	}, nil
}

func (r *kafkaReader) Close() error {
	return r.reader.Close()
}
