package events

import (
	"fmt"
	"time"
)

// Envelope is the outbound frame pushed to a client connection.
type Envelope struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// BuildNotification maps a decoded event to the notification pushed to the
// customer's sessions. It is a pure function; callers on any number of
// goroutines may share it. Unrecognized event types fall through to a
// generic payload so that no event disappears at this stage.
func BuildNotification(ev *OrderEvent) Envelope {
	n := Envelope{
		Type:      "notification",
		Timestamp: time.Now().UTC(),
	}

	switch ev.EventType {
	case TypeOrderCreated:
		n.Data = map[string]any{
			"type":        "order_created",
			"orderId":     ev.OrderID,
			"customerId":  ev.CustomerID,
			"subject":     "Order Confirmed",
			"message":     fmt.Sprintf("Your order #%s has been confirmed! Total: $%.2f", ev.OrderID, ev.TotalAmount),
			"totalAmount": ev.TotalAmount,
			"productId":   ev.ProductID,
			"quantity":    ev.Quantity,
			"timestamp":   ev.Timestamp,
		}

	case TypeOrderStatusUpdated:
		n.Data = map[string]any{
			"type":       "order_status_updated",
			"orderId":    ev.OrderID,
			"customerId": ev.CustomerID,
			"subject":    "Order Status Update",
			"message":    fmt.Sprintf("Order #%s status: %s", ev.OrderID, ev.Status),
			"status":     ev.Status,
			"timestamp":  ev.Timestamp,
		}

	case TypePaymentProcessed:
		n.Data = map[string]any{
			"type":        "payment_processed",
			"orderId":     ev.OrderID,
			"customerId":  ev.CustomerID,
			"subject":     "Payment Processed",
			"message":     fmt.Sprintf("Payment of $%.2f processed for order #%s", ev.TotalAmount, ev.OrderID),
			"totalAmount": ev.TotalAmount,
			"timestamp":   ev.Timestamp,
		}

	default:
		n.Data = map[string]any{
			"type":       "order_event",
			"orderId":    ev.OrderID,
			"customerId": ev.CustomerID,
			"subject":    "Order Update",
			"message":    fmt.Sprintf("Update for order #%s (%s)", ev.OrderID, ev.EventType),
			"eventType":  ev.EventType,
			"timestamp":  ev.Timestamp,
		}
	}

	return n
}
