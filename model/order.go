package model

import (
	"encoding/json"
	"strings"
	"time"
)

// OrderStatus is the closed set of states an order can be in.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusCompleted OrderStatus = "Completed"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []OrderStatus{StatusPending, StatusShipped, StatusCompleted}

// Known reports whether s is one of the recognised statuses.
func (s OrderStatus) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// ParseStatus matches a status case-insensitively.
func ParseStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for _, k := range Statuses {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return OrderStatus(s), false
}

type Order struct {
	OrderID      int64       `json:"orderId"`
	CustomerID   int64       `json:"customerId"`
	ProductID    int64       `json:"productId"`
	ProductName  string      `json:"productName"`
	Quantity     int         `json:"quantity"`
	OrderDate    string      `json:"orderDate"`
	Status       OrderStatus `json:"status"`
	ProductPrice float64     `json:"productPrice"`
	TotalPrice   float64     `json:"totalPrice"`
}

// Cancellable reports whether the order may still be cancelled.
func (o Order) Cancellable() bool {
	return strings.TrimSpace(string(o.Status)) == string(StatusPending)
}

// NormalizeStatus unwraps a status that was sent as a JSON-encoded object
// string, e.g. `{"status":"Shipped"}`.
func NormalizeStatus(raw OrderStatus) OrderStatus {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "{") {
		return raw
	}
	var wrapped struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(s), &wrapped); err != nil {
		return raw
	}
	return OrderStatus(wrapped.Status)
}

// OrderInput is the create payload for POST /api/orders.
type OrderInput struct {
	CustomerID int64       `json:"customerId"`
	ProductID  int64       `json:"productId"`
	Quantity   int         `json:"quantity"`
	OrderDate  string      `json:"orderDate"`
	Status     OrderStatus `json:"status"`
}

// DateLayout is the wire format of order and report dates.
const DateLayout = "2006-01-02"

// NewOrderInput returns a blank order form: pending, dated today.
func NewOrderInput(now time.Time) OrderInput {
	return OrderInput{
		OrderDate: now.Format(DateLayout),
		Status:    StatusPending,
	}
}

// StatusUpdate is the body of PUT /api/orders/{id}/status
type StatusUpdate struct {
	Status OrderStatus `json:"status"`
}
