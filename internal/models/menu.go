package models

import (
	"fmt"
	"strings"
)

// Category groups menu items.
type Category string

const (
	CategoryTea       Category = "Tea"
	CategoryCoffee    Category = "Coffee"
	CategoryCigarette Category = "Cigarette"
	CategorySnacks    Category = "Snacks"
)

// Categories is the fixed display order of the menu.
var Categories = []Category{CategoryTea, CategoryCoffee, CategoryCigarette, CategorySnacks}

// ParseCategory matches name against the known categories, ignoring case.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown menu category %q", name)
}

// MenuItem represents an item on the cafe menu.
type MenuItem struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name" validate:"required,max=100"`
	Price    int64    `json:"price" validate:"gt=0"`
	Category Category `json:"category" validate:"required,oneof=Tea Coffee Cigarette Snacks"`
	Image    *string  `json:"image"`
}

// Upload is a file picked by the user, such as a menu photo or profile picture.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// MenuForm is the owner's create or edit form for a menu item.
type MenuForm struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Price    int64    `json:"price" validate:"gt=0"`
	Category Category `json:"category" validate:"required,oneof=Tea Coffee Cigarette Snacks"`
	Image    *Upload  `json:"-"`
}
