package repositories

import (
	"context"

	"chiyasathi/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, req models.OrderRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	Delete(ctx context.Context, id string) error
}
