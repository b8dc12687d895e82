package events

import (
	"testing"
	"time"
)

func TestParseOrderEvent(t *testing.T) {
	body := []byte(`{"EventType":"OrderCreated","OrderId":"abc123","CustomerId":"cust-1","ProductId":7,"Quantity":2,"TotalAmount":59.98,"Timestamp":"2025-01-01T00:00:00Z"}`)

	ev, err := ParseOrderEvent(body)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ev.EventType != TypeOrderCreated {
		t.Errorf("expected event type %s, got %s", TypeOrderCreated, ev.EventType)
	}
	if ev.OrderID != "abc123" {
		t.Errorf("expected order id abc123, got %s", ev.OrderID)
	}
	if ev.CustomerID != "cust-1" {
		t.Errorf("expected customer id cust-1, got %s", ev.CustomerID)
	}
	if ev.TotalAmount != 59.98 {
		t.Errorf("expected total 59.98, got %v", ev.TotalAmount)
	}
	if ev.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", ev.Quantity)
	}
}

func TestParseOrderEvent_InvalidJSON(t *testing.T) {
	if _, err := ParseOrderEvent([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestParseOrderEvent_MissingFields(t *testing.T) {
	if _, err := ParseOrderEvent([]byte(`{"OrderId":"x","CustomerId":"c"}`)); err == nil {
		t.Fatal("expected error for missing EventType")
	}
	if _, err := ParseOrderEvent([]byte(`{"EventType":"OrderCreated","OrderId":"x"}`)); err == nil {
		t.Fatal("expected error for missing CustomerId")
	}
}

func TestParseOrderEvent_UnknownTypePreserved(t *testing.T) {
	ev, err := ParseOrderEvent([]byte(`{"EventType":"InventoryAdjusted","OrderId":"x","CustomerId":"c"}`))
	if err != nil {
		t.Fatalf("unknown type should parse, got error: %v", err)
	}
	if ev.EventType != "InventoryAdjusted" {
		t.Errorf("expected raw type preserved, got %s", ev.EventType)
	}
}

func TestTime_Layouts(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", "2025-01-01T00:00:00Z", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"dotnet no tz", "2025-01-01T12:30:45.1234567", time.Date(2025, 1, 1, 12, 30, 45, 123456700, time.UTC)},
		{"simple iso", "2025-01-01T12:30:45", time.Date(2025, 1, 1, 12, 30, 45, 0, time.UTC)},
	}

	for _, tc := range cases {
		ev := &OrderEvent{Timestamp: tc.in}
		got := ev.Time()
		if !got.Equal(tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	ev := &OrderEvent{Timestamp: "garbage"}
	if !ev.Time().IsZero() {
		t.Error("expected zero time for unparseable timestamp")
	}
}

func TestDedupKey_StableAcrossRedelivery(t *testing.T) {
	body := []byte(`{"EventType":"PaymentProcessed","OrderId":"o1","CustomerId":"c1","TotalAmount":10,"Timestamp":"2025-01-01T00:00:00Z"}`)

	first, err := ParseOrderEvent(body)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	second, err := ParseOrderEvent(body)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if first.DedupKey() != second.DedupKey() {
		t.Errorf("same record must produce the same dedup key: %q vs %q", first.DedupKey(), second.DedupKey())
	}

	other := &OrderEvent{EventType: TypePaymentProcessed, OrderID: "o2", CustomerID: "c1", Timestamp: "2025-01-01T00:00:00Z"}
	if first.DedupKey() == other.DedupKey() {
		t.Error("different orders must not collide on dedup key")
	}
}
