package stream

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by Fetch once the source is closed and the
// partition's remaining records have been drained.
var ErrClosed = errors.New("stream: source closed")

// Record is one entry of a partitioned upstream log. The body is opaque at
// this layer; decoding happens in the consumer.
type Record struct {
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Reader pulls records from a single partition in offset order. Fetch blocks
// until a record is available, the context is cancelled, or the source is
// closed. A Reader is not safe for concurrent use; each partition worker
// owns exactly one.
type Reader interface {
	Fetch(ctx context.Context) (Record, error)
	Close() error
}

// Source exposes the partitions of an upstream stream and a per-partition
// Reader. Partition assignment and checkpointing belong to the upstream
// infrastructure; this interface only covers what the fan-out consumer
// needs.
type Source interface {
	// Partitions lists the partition IDs this instance should consume.
	Partitions(ctx context.Context) ([]int, error)

	// Reader returns a Reader pinned to the given partition.
	Reader(partition int) Reader

	// Close releases the source's partition claims and unblocks any
	// in-flight Fetch calls.
	Close() error
}
