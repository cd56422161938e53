package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"chiyasathi/internal/models"

	"github.com/google/uuid"
)

// MockMenuRepository is an in-memory implementation of MenuRepository.
type MockMenuRepository struct {
	items map[string]models.MenuItem
	mu    sync.RWMutex
}

// NewMockMenuRepository creates a new instance of MockMenuRepository.
func NewMockMenuRepository(seed ...models.MenuItem) *MockMenuRepository {
	r := &MockMenuRepository{
		items: make(map[string]models.MenuItem),
	}
	for _, it := range seed {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		r.items[it.ID] = it
	}
	return r
}

// GetAll returns all menu items sorted by name.
func (r *MockMenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.MenuItem, 0, len(r.items))
	for _, it := range r.items {
		list = append(list, it)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Create adds a new menu item.
func (r *MockMenuRepository) Create(ctx context.Context, form models.MenuForm) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := fromForm(uuid.New().String(), form, nil)
	r.items[item.ID] = item
	return &item, nil
}

// Update replaces an existing menu item, keeping its image when none is sent.
func (r *MockMenuRepository) Update(ctx context.Context, id string, form models.MenuForm) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item with ID %s not found for update", id)
	}
	item := fromForm(id, form, existing.Image)
	r.items[id] = item
	return &item, nil
}

// Delete removes a menu item by its ID.
func (r *MockMenuRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("menu item with ID %s not found for deletion", id)
	}
	delete(r.items, id)
	return nil
}

func fromForm(id string, form models.MenuForm, image *string) models.MenuItem {
	if form.Image != nil {
		path := "/uploads/" + form.Image.Filename
		image = &path
	}
	return models.MenuItem{ID: id, Name: form.Name, Price: form.Price, Category: form.Category, Image: image}
}
