package services

import (
	"sync"

	"chiyasathi/internal/models"
)

// Cart maps menu items to quantities for the one order being built.
// Lines keep the order in which items were first added.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartLine
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds one of item, inserting a new line if needed.
func (c *Cart) AddItem(item models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, models.CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
		Category:   item.Category,
	})
}

// RemoveItem takes one away, dropping the line when none are left.
func (c *Cart) RemoveItem(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity <= 1 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity--
}

// QuantityOf returns the quantity of itemID, or 0 when it is not in the cart.
func (c *Cart) QuantityOf(itemID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Total returns the sum of price times quantity over every line.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.SumItems(c.lines)
}

// ItemCount returns the sum of quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a snapshot of the cart.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) indexOf(itemID string) int {
	for i, l := range c.lines {
		if l.MenuItemID == itemID {
			return i
		}
	}
	return -1
}
