package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chiyasathi/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Like the real backend it accepts any status update for a known order.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// Create stores a new pending order built from req.
func (r *MockOrderRepository) Create(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]models.OrderItem, len(req.Items))
	copy(items, req.Items)
	order := models.Order{
		ID:           uuid.New().String(),
		TableID:      req.TableID,
		Items:        items,
		TotalAmount:  req.TotalAmount,
		Status:       models.StatusPending,
		CreatedAt:    time.Now(),
		CustomerNote: req.CustomerNote,
	}
	r.orders[order.ID] = order
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// Delete removes an order.
func (r *MockOrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order with ID %s not found for deletion", id)
	}
	delete(r.orders, id)
	return nil
}
