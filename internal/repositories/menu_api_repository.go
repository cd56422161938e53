package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"chiyasathi/internal/client"
	"chiyasathi/internal/models"
)

// APIMenuRepository manages menu items through the ordering API. Writes are
// sent as multipart so an image can ride along.
type APIMenuRepository struct {
	api *client.Client
}

// NewAPIMenuRepository creates a new instance of APIMenuRepository.
func NewAPIMenuRepository(api *client.Client) *APIMenuRepository {
	return &APIMenuRepository{api: api}
}

// GetAll retrieves every menu item.
func (r *APIMenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.api.GetData(ctx, "/menu", &items); err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return items, nil
}

// Create uploads a new menu item as multipart.
func (r *APIMenuRepository) Create(ctx context.Context, form models.MenuForm) (*models.MenuItem, error) {
	item, err := r.send(ctx, http.MethodPost, "/menu", form)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

// Update replaces a menu item as multipart.
func (r *APIMenuRepository) Update(ctx context.Context, id string, form models.MenuForm) (*models.MenuItem, error) {
	item, err := r.send(ctx, http.MethodPut, "/menu/"+url.PathEscape(id), form)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item %s: %w", id, err)
	}
	return item, nil
}

// Delete removes a menu item by ID.
func (r *APIMenuRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.SendJSON(ctx, http.MethodDelete, "/menu/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete menu item %s: %w", id, err)
	}
	return nil
}

func (r *APIMenuRepository) send(ctx context.Context, method, path string, form models.MenuForm) (*models.MenuItem, error) {
	fields := map[string]string{
		"name":     form.Name,
		"price":    strconv.FormatInt(form.Price, 10),
		"category": string(form.Category),
	}
	var files []client.Upload
	if form.Image != nil {
		files = append(files, client.Upload{
			Field:       "image",
			Filename:    form.Image.Filename,
			ContentType: form.Image.ContentType,
			Content:     form.Image.Content,
		})
	}

	var env struct {
		Data *models.MenuItem `json:"data"`
	}
	if err := r.api.SendMultipart(ctx, method, path, fields, files, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
