package stream

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const memoryPartitionBuffer = 1024

// MemorySource is a single-process Source backed by Go channels, one per
// partition. It is suitable for development without a Kafka cluster and for
// tests; Append stands in for the upstream producers.
type MemorySource struct {
	mu         sync.Mutex
	partitions []*memoryPartition
	done       chan struct{}
	closed     bool
}

type memoryPartition struct {
	ch         chan Record
	nextOffset int64
}

// NewMemorySource creates a MemorySource with the given number of
// partitions, numbered 0..n-1.
func NewMemorySource(numPartitions int) *MemorySource {
	if numPartitions <= 0 {
		numPartitions = 1
	}
	parts := make([]*memoryPartition, numPartitions)
	for i := range parts {
		parts[i] = &memoryPartition{ch: make(chan Record, memoryPartitionBuffer)}
	}
	return &MemorySource{
		partitions: parts,
		done:       make(chan struct{}),
	}
}

// Append publishes a record body onto a partition, assigning the next
// offset. It returns the assigned offset.
func (s *MemorySource) Append(partition int, key, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("source is closed")
	}
	if partition < 0 || partition >= len(s.partitions) {
		return 0, fmt.Errorf("unknown partition %d", partition)
	}

	p := s.partitions[partition]
	rec := Record{
		Partition: partition,
		Offset:    p.nextOffset,
		Key:       key,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}

	select {
	case p.ch <- rec:
	default:
		return 0, fmt.Errorf("partition %d buffer full", partition)
	}

	p.nextOffset++
	return rec.Offset, nil
}

// Partitions lists all partition IDs.
func (s *MemorySource) Partitions(ctx context.Context) ([]int, error) {
	ids := make([]int, len(s.partitions))
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

// Reader returns a Reader for the given partition. Out-of-range partitions
// yield a reader whose Fetch always fails, matching how a bad assignment
// surfaces with a real broker.
func (s *MemorySource) Reader(partition int) Reader {
	if partition < 0 || partition >= len(s.partitions) {
		return &memoryReader{err: fmt.Errorf("unknown partition %d", partition)}
	}
	return &memoryReader{src: s, ch: s.partitions[partition].ch}
}

// Close unblocks all readers. Records already appended but not yet fetched
// are still drained before readers see ErrClosed.
func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return nil
}

type memoryReader struct {
	src *MemorySource
	ch  chan Record
	err error
}

func (r *memoryReader) Fetch(ctx context.Context) (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}

	// Drain buffered records ahead of shutdown.
	select {
	case rec := <-r.ch:
		return rec, nil
	default:
	}

	select {
	case rec := <-r.ch:
		return rec, nil
	case <-ctx.Done():
		return Record{}, ctx.Err()
	case <-r.src.done:
		select {
		case rec := <-r.ch:
			return rec, nil
		default:
			return Record{}, ErrClosed
		}
	}
}

func (r *memoryReader) Close() error {
	return nil
}
