package events

import (
	"strings"
	"testing"
)

func TestBuildNotification_OrderCreated(t *testing.T) {
	ev := &OrderEvent{
		EventType:   TypeOrderCreated,
		OrderID:     "abc123",
		CustomerID:  "cust-1",
		ProductID:   7,
		Quantity:    2,
		TotalAmount: 59.98,
		Timestamp:   "2025-01-01T00:00:00Z",
	}

	n := BuildNotification(ev)

	if n.Type != "notification" {
		t.Errorf("expected envelope type 'notification', got %q", n.Type)
	}
	if n.Timestamp.IsZero() {
		t.Error("expected non-zero envelope timestamp")
	}
	if n.Data["type"] != "order_created" {
		t.Errorf("expected data type order_created, got %v", n.Data["type"])
	}
	if n.Data["subject"] != "Order Confirmed" {
		t.Errorf("expected subject 'Order Confirmed', got %v", n.Data["subject"])
	}
	if n.Data["message"] != "Your order #abc123 has been confirmed! Total: $59.98" {
		t.Errorf("unexpected message: %v", n.Data["message"])
	}
	if n.Data["orderId"] != "abc123" || n.Data["customerId"] != "cust-1" {
		t.Errorf("order/customer ids not carried over: %v", n.Data)
	}
	if n.Data["totalAmount"] != 59.98 {
		t.Errorf("expected totalAmount 59.98, got %v", n.Data["totalAmount"])
	}
	if n.Data["productId"] != 7 || n.Data["quantity"] != 2 {
		t.Errorf("product fields not carried over: %v", n.Data)
	}
}

func TestBuildNotification_OrderStatusUpdated(t *testing.T) {
	ev := &OrderEvent{
		EventType:  TypeOrderStatusUpdated,
		OrderID:    "o-9",
		CustomerID: "cust-2",
		Status:     "Shipped",
	}

	n := BuildNotification(ev)

	if n.Data["type"] != "order_status_updated" {
		t.Errorf("expected data type order_status_updated, got %v", n.Data["type"])
	}
	if n.Data["subject"] != "Order Status Update" {
		t.Errorf("unexpected subject: %v", n.Data["subject"])
	}
	if n.Data["message"] != "Order #o-9 status: Shipped" {
		t.Errorf("unexpected message: %v", n.Data["message"])
	}
	if n.Data["status"] != "Shipped" {
		t.Errorf("expected status Shipped, got %v", n.Data["status"])
	}
}

func TestBuildNotification_PaymentProcessed(t *testing.T) {
	ev := &OrderEvent{
		EventType:   TypePaymentProcessed,
		OrderID:     "o-5",
		CustomerID:  "cust-3",
		TotalAmount: 12.5,
	}

	n := BuildNotification(ev)

	if n.Data["type"] != "payment_processed" {
		t.Errorf("expected data type payment_processed, got %v", n.Data["type"])
	}
	if n.Data["subject"] != "Payment Processed" {
		t.Errorf("unexpected subject: %v", n.Data["subject"])
	}
	if n.Data["message"] != "Payment of $12.50 processed for order #o-5" {
		t.Errorf("unexpected message: %v", n.Data["message"])
	}
}

func TestBuildNotification_UnknownTypeFallsBack(t *testing.T) {
	ev := &OrderEvent{
		EventType:  "InventoryAdjusted",
		OrderID:    "x",
		CustomerID: "c",
	}

	n := BuildNotification(ev)

	if n.Data["type"] != "order_event" {
		t.Errorf("expected fallback data type order_event, got %v", n.Data["type"])
	}
	if n.Data["subject"] != "Order Update" {
		t.Errorf("unexpected subject: %v", n.Data["subject"])
	}
	msg, _ := n.Data["message"].(string)
	if !strings.Contains(msg, "InventoryAdjusted") {
		t.Errorf("fallback message should mention the raw event type, got %q", msg)
	}
	if n.Data["eventType"] != "InventoryAdjusted" {
		t.Errorf("expected raw event type in data, got %v", n.Data["eventType"])
	}
}
