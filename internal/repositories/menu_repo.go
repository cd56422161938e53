package repositories

import (
	"context"

	"chiyasathi/internal/models"
)

// MenuRepository defines the interface for menu data access.
type MenuRepository interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	Create(ctx context.Context, form models.MenuForm) (*models.MenuItem, error)
	Update(ctx context.Context, id string, form models.MenuForm) (*models.MenuItem, error)
	Delete(ctx context.Context, id string) error
}
