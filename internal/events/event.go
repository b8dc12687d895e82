package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event type values carried in the upstream record body.
const (
	TypeOrderCreated       = "OrderCreated"
	TypeOrderStatusUpdated = "OrderStatusUpdated"
	TypePaymentProcessed   = "PaymentProcessed"
)

// OrderEvent is the decoded body of an upstream stream record. Field names
// match the wire format produced by the order and payment services
// (PascalCase keys). Timestamp stays a string because the upstream .NET
// serializer emits several layouts; use Time() for a parsed value.
type OrderEvent struct {
	EventType   string  `json:"EventType"`
	OrderID     string  `json:"OrderId"`
	CustomerID  string  `json:"CustomerId"`
	ProductID   int     `json:"ProductId"`
	Quantity    int     `json:"Quantity"`
	TotalAmount float64 `json:"TotalAmount"`
	Status      string  `json:"Status"`
	Timestamp   string  `json:"Timestamp"`
}

// timestampLayouts are tried in order when parsing OrderEvent.Timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999", // .NET DateTime without timezone
	"2006-01-02T15:04:05",
}

// ParseOrderEvent decodes a record body into an OrderEvent. Unrecognized
// event types are not an error; they are classified later. A body without
// an event type or customer identity is undeliverable and rejected here.
func ParseOrderEvent(data []byte) (*OrderEvent, error) {
	var ev OrderEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal order event: %w", err)
	}
	if ev.EventType == "" {
		return nil, fmt.Errorf("order event missing EventType")
	}
	if ev.CustomerID == "" {
		return nil, fmt.Errorf("order event missing CustomerId")
	}
	return &ev, nil
}

// Time parses the event timestamp, returning the zero time if no known
// layout matches.
func (e *OrderEvent) Time() time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, e.Timestamp); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DedupKey returns a stable identifier for the event, used by the
// idempotency guard. It is derived from the event content rather than the
// record's partition/offset so that a redelivery after a consumer restart
// still maps to the same key.
func (e *OrderEvent) DedupKey() string {
	return e.EventType + "|" + e.OrderID + "|" + e.CustomerID + "|" + e.Timestamp
}
