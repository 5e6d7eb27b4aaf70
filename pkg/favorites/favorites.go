// Package favorites keeps the products a customer marked as favorite.
package favorites

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openkcm/storefront-client/pkg/collection"
	"github.com/openkcm/storefront-client/pkg/slot"
)

type Item struct {
	ProductID       int64            `json:"product_id"`
	Name            string           `json:"nombre"`
	FinalPrice      decimal.Decimal  `json:"precio_final"`
	SalePrice       *decimal.Decimal `json:"precio_venta,omitempty"`
	OnPromotion     bool             `json:"es_promocion,omitempty"`
	DiscountPercent *decimal.Decimal `json:"porcentaje_descuento,omitempty"`
	ImageURL        string           `json:"imagen_url,omitempty"`
	BrandName       string           `json:"marca_nombre,omitempty"`
	SKU             string           `json:"sku,omitempty"`
	AddedAt         time.Time        `json:"addedAt"`
}

type Option func(*Favorites)

// WithClock replaces time.Now as the source of AddedAt.
func WithClock(now func() time.Time) Option {
	return func(f *Favorites) {
		if now != nil {
			f.now = now
		}
	}
}

// Favorites holds at most one Item per product.
type Favorites struct {
	items *collection.Store[int64, Item]
	now   func() time.Time
}

// New returns favorites persisted in the slot.Favorites slot of slots.
// With a nil slots they live in memory only.
func New(slots slot.Store, opts ...Option) *Favorites {
	f := &Favorites{
		items: collection.New(slots, slot.Favorites, func(i Item) int64 { return i.ProductID }),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Favorites) Initialize(ctx context.Context) {
	f.items.Initialize(ctx)
}

// Add stores item with the current time as AddedAt.
// It reports false, leaving the favorites untouched, when the product is already present.
func (f *Favorites) Add(ctx context.Context, item Item) bool {
	item.AddedAt = f.now()
	_, added := f.items.Add(ctx, item, nil)
	return added
}

func (f *Favorites) Remove(ctx context.Context, productID int64) {
	f.items.Remove(ctx, productID)
}

func (f *Favorites) IsFavorite(productID int64) bool {
	return f.items.Contains(productID)
}

// Toggle removes the product if present, adds item otherwise, and returns the new membership.
func (f *Favorites) Toggle(ctx context.Context, item Item) bool {
	item.AddedAt = f.now()
	return f.items.Toggle(ctx, item)
}

func (f *Favorites) Clear(ctx context.Context) {
	f.items.Clear(ctx)
}

func (f *Favorites) Items() []Item {
	return f.items.Items()
}

func (f *Favorites) Len() int {
	return f.items.Len()
}

func (f *Favorites) IsEmpty() bool {
	return f.items.Len() == 0
}

// ProductIDs returns the favorite product ids in insertion order.
func (f *Favorites) ProductIDs() []int64 {
	ids := make([]int64, 0, f.items.Len())
	for item := range f.items.All() {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// SortedByDate yields the favorites, most recently added first.
// Every iteration sorts a fresh snapshot, so it reflects later changes.
func (f *Favorites) SortedByDate() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		items := f.items.Items()
		slices.SortStableFunc(items, func(a, b Item) int {
			return cmp.Compare(b.AddedAt.UnixNano(), a.AddedAt.UnixNano())
		})

		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
