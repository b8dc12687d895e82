// Package consumer pulls records from the partitioned upstream stream and
// turns them into push notifications. One worker runs per partition;
// workers share nothing with each other beyond the hub and the idempotency
// guard, both safe for concurrent use.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/orderstream/notifier/internal/dedup"
	"github.com/orderstream/notifier/internal/events"
	"github.com/orderstream/notifier/internal/metrics"
	"github.com/orderstream/notifier/internal/stream"
)

const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 30 * time.Second
)

// Deliverer is the slice of the connection registry the consumer needs:
// fan a serialized payload out to a customer's live sessions.
type Deliverer interface {
	SendToCustomer(customerID string, payload []byte) int
}

// Consumer runs one worker per upstream partition. Within a partition,
// records are processed strictly in offset order; across partitions,
// workers run fully in parallel.
type Consumer struct {
	source stream.Source
	guard  *dedup.Guard
	hub    Deliverer
	wg     sync.WaitGroup
}

// New creates a Consumer. Call Start to launch the partition workers.
func New(source stream.Source, guard *dedup.Guard, hub Deliverer) *Consumer {
	return &Consumer{
		source: source,
		guard:  guard,
		hub:    hub,
	}
}

// Start discovers the assigned partitions and launches one worker per
// partition. It returns immediately; workers run until ctx is cancelled or
// the source is closed.
func (c *Consumer) Start(ctx context.Context) error {
	partitions, err := c.source.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}

	log.Printf("consumer: starting workers for %d partition(s)", len(partitions))
	for _, p := range partitions {
		c.wg.Add(1)
		go func(partition int) {
			defer c.wg.Done()
			c.runPartition(ctx, partition)
		}(p)
	}
	return nil
}

// Wait blocks until every partition worker has exited.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

// runPartition is the per-partition loop. It never fetches the next record
// before the current one has completed processing, which is what gives the
// per-partition ordering guarantee.
func (c *Consumer) runPartition(ctx context.Context, partition int) {
	reader := c.source.Reader(partition)
	defer reader.Close()

	log.Printf("consumer: partition %d worker started", partition)
	backoff := initialBackoff

	for {
		rec, err := reader.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, stream.ErrClosed) {
				log.Printf("consumer: partition %d worker stopping", partition)
				return
			}
			log.Printf("consumer: partition %d fetch error: %v (retrying in %s)", partition, err, backoff)
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff
		metrics.RecordsConsumed.WithLabelValues(strconv.Itoa(partition)).Inc()

		if !c.processWithRetry(ctx, rec) {
			return
		}
	}
}

// processWithRetry applies one record, retrying with backoff while the
// idempotency store is unreachable. Skipping on store failure would risk
// losing the event; proceeding would risk a duplicate; retrying is the only
// option that preserves both properties. Returns false when ctx was
// cancelled mid-record.
func (c *Consumer) processWithRetry(ctx context.Context, rec stream.Record) bool {
	backoff := initialBackoff
	for {
		err := c.process(ctx, rec)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		log.Printf("consumer: partition %d offset %d: %v (retrying in %s)", rec.Partition, rec.Offset, err, backoff)
		if !sleep(ctx, backoff) {
			return false
		}
		backoff = nextBackoff(backoff)
	}
}

// process applies a single record. A nil return means the record is done:
// delivered, a duplicate, or skipped as undecodable. An error means the
// record must be retried before the partition can move on.
func (c *Consumer) process(ctx context.Context, rec stream.Record) error {
	ev, err := events.ParseOrderEvent(rec.Value)
	if err != nil {
		// Malformed upstream data must not stall the partition.
		log.Printf("consumer: partition %d offset %d: skipping undecodable record: %v", rec.Partition, rec.Offset, err)
		metrics.RecordsSkipped.WithLabelValues("decode_error").Inc()
		return nil
	}

	seen, err := c.guard.HasProcessed(ctx, ev.DedupKey())
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if seen {
		log.Printf("consumer: partition %d offset %d: duplicate %s event for order %s, skipping",
			rec.Partition, rec.Offset, ev.EventType, ev.OrderID)
		metrics.DuplicatesSkipped.Inc()
		return nil
	}

	// Serialized once; the hub reuses the same bytes for every session.
	payload, err := json.Marshal(events.BuildNotification(ev))
	if err != nil {
		log.Printf("consumer: partition %d offset %d: skipping unencodable notification: %v", rec.Partition, rec.Offset, err)
		metrics.RecordsSkipped.WithLabelValues("encode_error").Inc()
		return nil
	}
	metrics.NotificationsBuilt.WithLabelValues(ev.EventType).Inc()

	delivered := c.hub.SendToCustomer(ev.CustomerID, payload)
	log.Printf("consumer: %s event for order %s delivered to %d session(s) of customer %s",
		ev.EventType, ev.OrderID, delivered, ev.CustomerID)

	if err := c.guard.MarkProcessed(ctx, ev.DedupKey()); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// sleep waits for d or until ctx is cancelled, reporting whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
