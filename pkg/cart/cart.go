// Package cart is the shopping cart of a storefront client.
package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openkcm/storefront-client/pkg/collection"
	"github.com/openkcm/storefront-client/pkg/slot"
)

// TaxRate is applied to the subtotal to obtain the total.
var TaxRate = decimal.RequireFromString("0.18")

// Item is persisted in the cart slot under the backend's field names.
type Item struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"nombre"`
	UnitPrice decimal.Decimal `json:"precio_final"`
	Quantity  int             `json:"cantidad"`
	VariantID *int64          `json:"variante_id,omitempty"`
	ColorName string          `json:"color_nombre,omitempty"`
	Size      string          `json:"talla,omitempty"`
	SKU       string          `json:"sku,omitempty"`
	ImageURL  string          `json:"imagen_url,omitempty"`
}

// LineTotal is the unit price times the quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewItem is an item about to be added; the cart assigns its ID.
type NewItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	VariantID *int64
	ColorName string
	Size      string
	SKU       string
	ImageURL  string
}

// Cart holds at most one item per product and variant pair.
type Cart struct {
	items *collection.Store[string, Item]
}

// New returns a cart persisted in the slot.Cart slot of slots.
// With a nil slots the cart lives in memory only.
func New(slots slot.Store) *Cart {
	return &Cart{
		items: collection.New(slots, slot.Cart, func(i Item) string { return i.ID }),
	}
}

// Initialize loads the persisted cart once.
func (c *Cart) Initialize(ctx context.Context) {
	c.items.Initialize(ctx)
}

// AddItem adds n to the line of the same product and variant, or appends a new line.
// Quantities below 1 count as 1. It returns the resulting line.
func (c *Cart) AddItem(ctx context.Context, n NewItem) Item {
	item := Item{
		ID:        uuid.NewString(),
		ProductID: n.ProductID,
		Name:      n.Name,
		UnitPrice: n.UnitPrice,
		Quantity:  max(1, n.Quantity),
		VariantID: n.VariantID,
		ColorName: n.ColorName,
		Size:      n.Size,
		SKU:       n.SKU,
		ImageURL:  n.ImageURL,
	}

	line, _ := c.items.Add(ctx, item, mergeQuantity)
	return line
}

func mergeQuantity(existing *Item, item Item) (bool, bool) {
	if existing.ProductID != item.ProductID || !sameVariant(existing.VariantID, item.VariantID) {
		return false, false
	}
	existing.Quantity += item.Quantity
	return true, true
}

func sameVariant(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (c *Cart) RemoveItem(ctx context.Context, id string) {
	c.items.Remove(ctx, id)
}

// UpdateQuantity sets the quantity of a line, clamped to at least 1.
// It reports false when no line has the id.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	return c.items.Update(ctx, id, func(i *Item) { i.Quantity = max(1, quantity) })
}

// Clear empties the cart and removes its slot.
func (c *Cart) Clear(ctx context.Context) {
	c.items.Clear(ctx)
}

func (c *Cart) Items() []Item {
	return c.items.Items()
}

func (c *Cart) Find(id string) (Item, bool) {
	return c.items.Find(id)
}

func (c *Cart) IsEmpty() bool {
	return c.items.Len() == 0
}

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for item := range c.items.All() {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for item := range c.items.All() {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate)
}

// Total is the subtotal including tax.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Mul(decimal.NewFromInt(1).Add(TaxRate))
}
