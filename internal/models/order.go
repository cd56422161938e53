package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusServed, StatusCancelled}

// nextActions holds the statuses an owner may move an order to.
// served and cancelled have no entry: both are absorbing.
var nextActions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed},
}

var statusText = map[OrderStatus]string{
	StatusPending:   "Waiting for the shop to accept your order",
	StatusPreparing: "Your order is being prepared",
	StatusReady:     "Your order is ready! Head to the counter",
	StatusServed:    "Enjoy your meal!",
	StatusCancelled: "Your order was cancelled",
}

// TrackingSteps are the labels of the customer progress indicator.
var TrackingSteps = []string{"Placed", "Accepted", "Ready"}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := statusText[s]
	return ok
}

// IsTerminal reports whether no further transition can leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// IsActive reports whether the order is still being worked on from the customer's point of view.
func (s OrderStatus) IsActive() bool {
	return s == StatusPending || s == StatusPreparing || s == StatusReady
}

// IsHistory reports whether the order belongs to the owner's history tab.
func (s OrderStatus) IsHistory() bool {
	return s.IsTerminal()
}

// NextActions returns the legal next statuses for s. The returned slice is a copy.
func (s OrderStatus) NextActions() []OrderStatus {
	next := nextActions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next is one of the legal next statuses of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range nextActions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Text is the customer facing description of s.
func (s OrderStatus) Text() string {
	return statusText[s]
}

// StepIndex maps s onto TrackingSteps.
func (s OrderStatus) StepIndex() int {
	switch s {
	case StatusPreparing:
		return 1
	case StatusReady, StatusServed:
		return 2
	default:
		return 0
	}
}

// OrderItem is a snapshot of a menu item taken when the order was placed.
type OrderItem struct {
	MenuItemID string   `json:"menuItemId" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Price      int64    `json:"price" validate:"gt=0"`
	Quantity   int      `json:"quantity" validate:"gte=1"`
	Category   Category `json:"category"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Order represents a table order as returned by the backend.
type Order struct {
	ID           string      `json:"_id"`
	TableID      string      `json:"tableId"`
	Items        []OrderItem `json:"items"`
	TotalAmount  int64       `json:"totalAmount"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	CustomerNote string      `json:"customerNote,omitempty"`
}

// OrderRequest is the body submitted to create an order.
type OrderRequest struct {
	TableID      string      `json:"tableId" validate:"required"`
	Items        []OrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount  int64       `json:"totalAmount" validate:"gt=0"`
	CustomerNote string      `json:"customerNote,omitempty" validate:"omitempty,max=500"`
}

// StatusUpdate is the body of a status transition request.
type StatusUpdate struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// SumItems returns the sum of line totals of items.
func SumItems(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// CartLine is an order item that has not been submitted yet.
type CartLine = OrderItem
