package services

import (
	"context"
	"fmt"
	"strings"

	"chiyasathi/internal/models"
	"chiyasathi/internal/repositories"
	"chiyasathi/internal/validation"

	"github.com/go-playground/validator/v10"
)

// MenuGroup is one category section of the menu.
type MenuGroup struct {
	Category models.Category
	Items    []models.MenuItem
}

// MenuService reads the menu and lets the owner edit it.
type MenuService struct {
	menuRepo repositories.MenuRepository
	session  *Session
	notifier Notifier
	validate *validator.Validate
	origin   string
}

// NewMenuService creates a new MenuService. origin is the backend origin
// used to resolve relative image paths.
func NewMenuService(menuRepo repositories.MenuRepository, session *Session, notifier Notifier, origin string) *MenuService {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &MenuService{
		menuRepo: menuRepo,
		session:  session,
		notifier: notifier,
		validate: validation.New(),
		origin:   strings.TrimRight(origin, "/"),
	}
}

// List returns every menu item.
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.menuRepo.GetAll(ctx)
}

// ByCategory returns the items of one category, matched case-insensitively.
func (s *MenuService) ByCategory(ctx context.Context, name string) ([]models.MenuItem, error) {
	category, err := models.ParseCategory(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.MenuItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

// Grouped returns the menu split by category in display order. Empty
// categories are omitted.
func (s *MenuService) Grouped(ctx context.Context) ([]MenuGroup, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupMenu(items), nil
}

// GroupMenu splits items by category in display order.
func GroupMenu(items []models.MenuItem) []MenuGroup {
	byCategory := make(map[models.Category][]models.MenuItem)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}
	var groups []MenuGroup
	for _, c := range models.Categories {
		if len(byCategory[c]) > 0 {
			groups = append(groups, MenuGroup{Category: c, Items: byCategory[c]})
		}
	}
	return groups
}

// Create adds an item to the menu.
func (s *MenuService) Create(ctx context.Context, form models.MenuForm) (*models.MenuItem, error) {
	if err := s.checkForm(&form); err != nil {
		return nil, err
	}
	item, err := s.menuRepo.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(newNotification(KindMenu, LevelSuccess, "", "Menu item added"))
	return item, nil
}

// Update replaces an item; the image is kept when form carries none.
func (s *MenuService) Update(ctx context.Context, id string, form models.MenuForm) (*models.MenuItem, error) {
	if err := s.checkForm(&form); err != nil {
		return nil, err
	}
	item, err := s.menuRepo.Update(ctx, id, form)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(newNotification(KindMenu, LevelSuccess, "", "Menu item updated"))
	return item, nil
}

// Delete removes a menu item (owner only).
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(newNotification(KindMenu, LevelSuccess, "", "Menu item deleted"))
	return nil
}

// ImageURL returns an absolute URL for the item's image, or "" if it has none.
func (s *MenuService) ImageURL(item models.MenuItem) string {
	if item.Image == nil || *item.Image == "" {
		return ""
	}
	img := *item.Image
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img
	}
	return s.origin + "/" + strings.TrimLeft(img, "/")
}

func (s *MenuService) checkForm(form *models.MenuForm) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" || form.Price <= 0 {
		return fmt.Errorf("%w: Name and price required", ErrValidation)
	}
	if err := s.validate.Struct(form); err != nil {
		if msgs := validation.Messages(err); msgs != nil {
			return FieldErrors(msgs)
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *MenuService) requireOwner() error {
	if !s.session.Authenticated() {
		return ErrUnauthorized
	}
	if !s.session.IsOwner() {
		return ErrOwnerOnly
	}
	return nil
}
