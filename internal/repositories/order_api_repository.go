package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"chiyasathi/internal/client"
	"chiyasathi/internal/models"
)

// APIOrderRepository reads and writes orders through the ordering API.
type APIOrderRepository struct {
	api *client.Client
}

// NewAPIOrderRepository creates a new instance of APIOrderRepository.
func NewAPIOrderRepository(api *client.Client) *APIOrderRepository {
	return &APIOrderRepository{api: api}
}

// GetAll retrieves all orders.
func (r *APIOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.api.GetData(ctx, "/orders", &orders); err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order by ID.
func (r *APIOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.api.GetData(ctx, "/orders/"+url.PathEscape(id), &order); err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// Create places a new order.
func (r *APIOrderRepository) Create(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	var order models.Order
	if err := r.api.SendJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &order, nil
}

// UpdateStatus sends status as given.
func (r *APIOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	body := models.StatusUpdate{Status: status}
	if err := r.api.SendJSON(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", body, nil); err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	return nil
}

// Delete removes an order by ID.
func (r *APIOrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.SendJSON(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}
