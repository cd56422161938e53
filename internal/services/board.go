package services

import (
	"time"

	"chiyasathi/internal/models"
)

// Tab is one section of the owner dashboard.
type Tab string

const (
	TabPending   Tab = "pending"
	TabPreparing Tab = "preparing"
	TabReady     Tab = "ready"
	TabHistory   Tab = "history"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabPending, TabPreparing, TabReady, TabHistory}

// TabOf returns the dashboard tab an order with status s belongs to.
func TabOf(s models.OrderStatus) Tab {
	switch s {
	case models.StatusPending:
		return TabPending
	case models.StatusPreparing:
		return TabPreparing
	case models.StatusReady:
		return TabReady
	default:
		return TabHistory
	}
}

// Board is a snapshot of all orders grouped for the owner dashboard.
type Board struct {
	Orders []models.Order
	At     time.Time
	tabs   map[Tab][]models.Order
}

// NewBoard groups orders, keeping their order within each tab.
func NewBoard(orders []models.Order, at time.Time) *Board {
	b := &Board{Orders: orders, At: at, tabs: make(map[Tab][]models.Order, len(Tabs))}
	for _, o := range orders {
		t := TabOf(o.Status)
		b.tabs[t] = append(b.tabs[t], o)
	}
	return b
}

// Tab returns the orders shown under t.
func (b *Board) Tab(t Tab) []models.Order {
	return b.tabs[t]
}

// Counts returns the number of orders per tab.
func (b *Board) Counts() map[Tab]int {
	out := make(map[Tab]int, len(Tabs))
	for _, t := range Tabs {
		out[t] = len(b.tabs[t])
	}
	return out
}

// Today returns the orders created on the board's local calendar day.
func (b *Board) Today() []models.Order {
	y, m, d := b.At.Date()
	var out []models.Order
	for _, o := range b.Orders {
		oy, om, od := o.CreatedAt.In(b.At.Location()).Date()
		if oy == y && om == m && od == d {
			out = append(out, o)
		}
	}
	return out
}

// TodayRevenue sums today's orders, cancelled ones excluded.
func (b *Board) TodayRevenue() int64 {
	var total int64
	for _, o := range b.Today() {
		if o.Status != models.StatusCancelled {
			total += o.TotalAmount
		}
	}
	return total
}

// Active returns orders still waiting on the kitchen.
func (b *Board) Active() []models.Order {
	var out []models.Order
	for _, o := range b.Orders {
		if o.Status == models.StatusPending || o.Status == models.StatusPreparing {
			out = append(out, o)
		}
	}
	return out
}
