package stream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySource_OffsetsIncreasePerPartition(t *testing.T) {
	src := NewMemorySource(2)
	defer src.Close()

	for i := 0; i < 3; i++ {
		off, err := src.Append(0, nil, []byte("a"))
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if off != int64(i) {
			t.Errorf("expected offset %d, got %d", i, off)
		}
	}

	// Partition 1 offsets are independent of partition 0.
	off, err := src.Append(1, nil, []byte("b"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if off != 0 {
		t.Errorf("expected first offset 0 on partition 1, got %d", off)
	}
}

func TestMemorySource_FetchInOrder(t *testing.T) {
	src := NewMemorySource(1)
	defer src.Close()

	bodies := []string{"first", "second", "third"}
	for _, b := range bodies {
		if _, err := src.Append(0, nil, []byte(b)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	r := src.Reader(0)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i, want := range bodies {
		rec, err := r.Fetch(ctx)
		if err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
		if string(rec.Value) != want {
			t.Errorf("record %d: expected %q, got %q", i, want, rec.Value)
		}
		if rec.Offset != int64(i) {
			t.Errorf("record %d: expected offset %d, got %d", i, i, rec.Offset)
		}
		if rec.Partition != 0 {
			t.Errorf("record %d: expected partition 0, got %d", i, rec.Partition)
		}
	}
}

func TestMemorySource_FetchBlocksUntilAppend(t *testing.T) {
	src := NewMemorySource(1)
	defer src.Close()

	r := src.Reader(0)
	got := make(chan Record, 1)

	go func() {
		rec, err := r.Fetch(context.Background())
		if err == nil {
			got <- rec
		}
	}()

	time.Sleep(50 * time.Millisecond)
	if _, err := src.Append(0, nil, []byte("late")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	select {
	case rec := <-got:
		if string(rec.Value) != "late" {
			t.Errorf("expected 'late', got %q", rec.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for blocked fetch to return")
	}
}

func TestMemorySource_FetchHonorsContext(t *testing.T) {
	src := NewMemorySource(1)
	defer src.Close()

	r := src.Reader(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMemorySource_CloseDrainsThenErrClosed(t *testing.T) {
	src := NewMemorySource(1)

	if _, err := src.Append(0, nil, []byte("pending")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	src.Close()

	r := src.Reader(0)
	ctx := context.Background()

	rec, err := r.Fetch(ctx)
	if err != nil {
		t.Fatalf("expected pending record after close, got error: %v", err)
	}
	if string(rec.Value) != "pending" {
		t.Errorf("expected 'pending', got %q", rec.Value)
	}

	if _, err := r.Fetch(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after drain, got %v", err)
	}
}

func TestMemorySource_AppendAfterCloseFails(t *testing.T) {
	src := NewMemorySource(1)
	src.Close()

	if _, err := src.Append(0, nil, []byte("x")); err == nil {
		t.Error("expected error appending after close")
	}
}

func TestMemorySource_UnknownPartition(t *testing.T) {
	src := NewMemorySource(1)
	defer src.Close()

	if _, err := src.Append(5, nil, []byte("x")); err == nil {
		t.Error("expected error for unknown partition")
	}

	r := src.Reader(5)
	if _, err := r.Fetch(context.Background()); err == nil {
		t.Error("expected error fetching from unknown partition")
	}
}

func TestMemorySource_PartitionsLists(t *testing.T) {
	src := NewMemorySource(3)
	defer src.Close()

	ids, err := src.Partitions(context.Background())
	if err != nil {
		t.Fatalf("partitions failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(ids))
	}
	for i, id := range ids {
		if id != i {
			t.Errorf("expected partition %d at index %d, got %d", i, i, id)
		}
	}
}
