// Package cart keeps a per-session cart and prices it against the menu.
package cart

import (
	"github.com/ray-remotestate/comandas/models"
	"github.com/shopspring/decimal"
)

// MaxQuantity bounds a single cart entry.
const MaxQuantity = 999

// Cart maps menu item ids to quantities while keeping insertion order.
// The zero value is an empty cart.
type Cart struct {
	Entries []models.CartEntry `json:"entries"`
}

// Catalog is the lookup the calculator needs from the menu.
type Catalog interface {
	Lookup(id int) (models.MenuItem, bool)
}

// Add increments the quantity of itemID, appending a new entry when absent.
// Quantities below one are treated as one and an entry never exceeds MaxQuantity.
func (c *Cart) Add(itemID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	for i := range c.Entries {
		if c.Entries[i].ItemID == itemID {
			c.Entries[i].Quantity = min(c.Entries[i].Quantity+quantity, MaxQuantity)
			return
		}
	}
	c.Entries = append(c.Entries, models.CartEntry{ItemID: itemID, Quantity: quantity})
}

func (c *Cart) Remove(itemID int) {
	for i := range c.Entries {
		if c.Entries[i].ItemID == itemID {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Entries = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Price resolves every entry against the catalog and returns the priced lines in
// cart order along with their total. Entries whose item is not on the menu are
// skipped and contribute nothing.
func Price(catalog Catalog, c Cart) ([]models.PricedLineItem, decimal.Decimal) {
	lines := make([]models.PricedLineItem, 0, len(c.Entries))
	total := decimal.Zero

	for _, entry := range c.Entries {
		item, ok := catalog.Lookup(entry.ItemID)
		if !ok {
			continue
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		total = total.Add(subtotal)
		lines = append(lines, models.PricedLineItem{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  entry.Quantity,
			UnitPrice: item.Price,
			Subtotal:  subtotal,
		})
	}
	return lines, total
}

// OrderItems trims priced lines down to what the ledger records.
func OrderItems(lines []models.PricedLineItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal,
		})
	}
	return items
}
