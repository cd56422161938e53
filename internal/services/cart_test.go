package services_test

import (
	"fmt"
	"math/rand"
	"testing"

	"chiyasathi/internal/models"
	"chiyasathi/internal/services"

	"github.com/stretchr/testify/assert"
)

var (
	itemA = models.MenuItem{ID: "a", Name: "Milk Tea", Price: 50, Category: models.CategoryTea}
	itemB = models.MenuItem{ID: "b", Name: "Samosa", Price: 30, Category: models.CategorySnacks}
)

func TestCart_TwoLinesTotal(t *testing.T) {
	cart := services.NewCart()
	cart.AddItem(itemA)
	cart.AddItem(itemA)
	cart.AddItem(itemB)

	assert.Equal(t, int64(130), cart.Total())
	assert.Equal(t, 3, cart.ItemCount())
	assert.Equal(t, 2, cart.QuantityOf("a"))
	assert.Equal(t, 1, cart.QuantityOf("b"))
	assert.Equal(t, 0, cart.QuantityOf("missing"))

	lines := cart.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].MenuItemID, "lines keep insertion order")
	assert.Equal(t, "Milk Tea", lines[0].Name)
	assert.Equal(t, models.CategorySnacks, lines[1].Category)
}

func TestCart_RemoveDropsLineAtZero(t *testing.T) {
	cart := services.NewCart()
	cart.AddItem(itemA)
	cart.AddItem(itemA)

	cart.RemoveItem("a")
	assert.Equal(t, 1, cart.QuantityOf("a"))
	cart.RemoveItem("a")
	assert.Equal(t, 0, cart.QuantityOf("a"))
	assert.True(t, cart.IsEmpty())

	cart.RemoveItem("a")
	cart.RemoveItem("never-added")
	assert.Equal(t, 0, cart.ItemCount())
	assert.Empty(t, cart.Lines())
}

func TestCart_InvariantsHoldForRandomSequences(t *testing.T) {
	menu := []models.MenuItem{
		itemA,
		itemB,
		{ID: "c", Name: "Espresso", Price: 120, Category: models.CategoryCoffee},
		{ID: "d", Name: "Surya", Price: 25, Category: models.CategoryCigarette},
	}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		t.Run(fmt.Sprintf("run-%d", run), func(t *testing.T) {
			cart := services.NewCart()
			want := map[string]int{}
			for step := 0; step < 200; step++ {
				it := menu[rng.Intn(len(menu))]
				if rng.Intn(2) == 0 {
					cart.AddItem(it)
					want[it.ID]++
				} else {
					cart.RemoveItem(it.ID)
					if want[it.ID] > 0 {
						want[it.ID]--
					}
				}

				var count int
				var total int64
				for _, l := range cart.Lines() {
					assert.Greater(t, l.Quantity, 0, "no line with quantity <= 0")
					count += l.Quantity
					total += l.Price * int64(l.Quantity)
				}
				assert.Equal(t, count, cart.ItemCount())
				assert.Equal(t, total, cart.Total())
				assert.GreaterOrEqual(t, cart.ItemCount(), 0)
				for _, m := range menu {
					assert.Equal(t, want[m.ID], cart.QuantityOf(m.ID))
				}
			}
		})
	}
}

func TestCart_Clear(t *testing.T) {
	cart := services.NewCart()
	cart.AddItem(itemA)
	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.Total())
}
