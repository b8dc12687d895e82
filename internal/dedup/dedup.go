// Package dedup tracks which upstream events have already been applied, so
// at-least-once redelivery from the stream does not produce duplicate
// notifications.
package dedup

import "context"

// Store is the backing set of processed event identifiers. Implementations
// must be safe for concurrent use from all partition workers. Entries are
// never removed by this service; retention is the store's concern.
type Store interface {
	// Exists reports whether the event identifier has been recorded.
	Exists(ctx context.Context, eventID string) (bool, error)

	// Insert records the event identifier. Inserting an identifier that is
	// already present is a no-op, not an error.
	Insert(ctx context.Context, eventID string) error

	// Close releases any resources held by the store.
	Close() error
}

// Guard answers "has event X already been applied?" for the partition
// workers. Store errors surface to the caller so the worker can retry the
// record rather than silently double-delivering or dropping it.
type Guard struct {
	store Store
}

// NewGuard creates a Guard over the given store.
func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// HasProcessed reports whether the event has already been fully applied.
func (g *Guard) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	return g.store.Exists(ctx, eventID)
}

// MarkProcessed records the event as applied.
func (g *Guard) MarkProcessed(ctx context.Context, eventID string) error {
	return g.store.Insert(ctx, eventID)
}
