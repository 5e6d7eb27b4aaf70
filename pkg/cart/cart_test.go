package cart_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/storefront-client/pkg/cart"
	"github.com/openkcm/storefront-client/pkg/slot"
	slotmock "github.com/openkcm/storefront-client/pkg/slot/mock"
)

var equateDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func variant(id int64) *int64 { return &id }

func newCart(t *testing.T, opts ...slotmock.StoreOption) (*cart.Cart, *slotmock.Store) {
	t.Helper()

	slots := slotmock.NewInMemStore(opts...)
	c := cart.New(slots)
	c.Initialize(t.Context())

	return c, slots
}

func TestCart_AddItemMerges(t *testing.T) {
	tests := []struct {
		name      string
		first     cart.NewItem
		second    cart.NewItem
		wantLines int
		wantTotal int
	}{
		{
			name:      "Same product without variant",
			first:     cart.NewItem{ProductID: 1, UnitPrice: price("10"), Quantity: 2},
			second:    cart.NewItem{ProductID: 1, UnitPrice: price("10"), Quantity: 3},
			wantLines: 1,
			wantTotal: 5,
		},
		{
			name:      "Same product and variant",
			first:     cart.NewItem{ProductID: 1, VariantID: variant(7), Quantity: 1},
			second:    cart.NewItem{ProductID: 1, VariantID: variant(7), Quantity: 1},
			wantLines: 1,
			wantTotal: 2,
		},
		{
			name:      "Different variants",
			first:     cart.NewItem{ProductID: 1, VariantID: variant(7), Quantity: 1},
			second:    cart.NewItem{ProductID: 1, VariantID: variant(8), Quantity: 1},
			wantLines: 2,
			wantTotal: 2,
		},
		{
			name:      "Variant against no variant",
			first:     cart.NewItem{ProductID: 1, Quantity: 1},
			second:    cart.NewItem{ProductID: 1, VariantID: variant(8), Quantity: 1},
			wantLines: 2,
			wantTotal: 2,
		},
		{
			name:      "Different products",
			first:     cart.NewItem{ProductID: 1, Quantity: 1},
			second:    cart.NewItem{ProductID: 2, Quantity: 4},
			wantLines: 2,
			wantTotal: 5,
		},
		{
			name:      "Quantity below one is clamped",
			first:     cart.NewItem{ProductID: 1, Quantity: 0},
			second:    cart.NewItem{ProductID: 2, Quantity: -3},
			wantLines: 2,
			wantTotal: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCart(t)

			c.AddItem(t.Context(), tt.first)
			c.AddItem(t.Context(), tt.second)

			assert.Len(t, c.Items(), tt.wantLines)
			assert.Equal(t, tt.wantTotal, c.TotalItems())
		})
	}
}

func TestCart_AddItemKeepsFirstLineID(t *testing.T) {
	c, _ := newCart(t)

	first := c.AddItem(t.Context(), cart.NewItem{ProductID: 1, Quantity: 1})
	second := c.AddItem(t.Context(), cart.NewItem{ProductID: 1, Quantity: 2})

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
}

func TestCart_Totals(t *testing.T) {
	c, _ := newCart(t)

	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.Total().IsZero())
	assert.True(t, c.IsEmpty())

	c.AddItem(t.Context(), cart.NewItem{ProductID: 1, UnitPrice: price("10.50"), Quantity: 2})
	c.AddItem(t.Context(), cart.NewItem{ProductID: 2, UnitPrice: price("4"), Quantity: 1})

	assert.True(t, price("25").Equal(c.Subtotal()), "subtotal %s", c.Subtotal())
	assert.True(t, price("4.5").Equal(c.Tax()), "tax %s", c.Tax())
	assert.True(t, price("29.5").Equal(c.Total()), "total %s", c.Total())
	assert.True(t, c.Subtotal().Mul(price("1.18")).Equal(c.Total()))
	assert.False(t, c.IsEmpty())
}

func TestCart_UpdateQuantity(t *testing.T) {
	c, _ := newCart(t)
	line := c.AddItem(t.Context(), cart.NewItem{ProductID: 1, Quantity: 3})

	tests := []struct {
		name     string
		id       string
		quantity int
		wantOK   bool
		want     int
	}{
		{name: "Set quantity", id: line.ID, quantity: 5, wantOK: true, want: 5},
		{name: "Zero stores one", id: line.ID, quantity: 0, wantOK: true, want: 1},
		{name: "Negative stores one", id: line.ID, quantity: -4, wantOK: true, want: 1},
		{name: "Unknown id", id: "missing", quantity: 2, wantOK: false, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, c.UpdateQuantity(t.Context(), tt.id, tt.quantity))

			got, ok := c.Find(line.ID)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Quantity)
		})
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	c, slots := newCart(t)
	a := c.AddItem(t.Context(), cart.NewItem{ProductID: 1, Quantity: 1})
	c.AddItem(t.Context(), cart.NewItem{ProductID: 2, Quantity: 1})

	c.RemoveItem(t.Context(), a.ID)
	_, ok := c.Find(a.ID)
	assert.False(t, ok)
	assert.Len(t, c.Items(), 1)

	c.Clear(t.Context())
	assert.True(t, c.IsEmpty())
	_, ok = slots.Value(slot.Cart)
	assert.False(t, ok)
}

func TestCart_RoundTrip(t *testing.T) {
	c, slots := newCart(t)
	c.AddItem(t.Context(), cart.NewItem{ProductID: 1, Name: "Shirt", UnitPrice: price("19.99"), Quantity: 2, VariantID: variant(3), ColorName: "Red", Size: "M", SKU: "SH-R-M"})
	c.AddItem(t.Context(), cart.NewItem{ProductID: 2, Name: "Cap", UnitPrice: price("5"), Quantity: 1, ImageURL: "https://img/cap.png"})

	data, ok := slots.Value(slot.Cart)
	require.True(t, ok)

	reloaded, _ := newCart(t, slotmock.WithSlot(slot.Cart, data))

	if diff := cmp.Diff(c.Items(), reloaded.Items(), equateDecimals); diff != "" {
		t.Errorf("reloaded cart mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, c.Total().Equal(reloaded.Total()))
}

func TestCart_PersistFailureKeepsItems(t *testing.T) {
	c, _ := newCart(t, slotmock.WithSetError(slot.Cart, errors.New("quota exceeded")))

	c.AddItem(t.Context(), cart.NewItem{ProductID: 1, Quantity: 1})

	assert.Equal(t, 1, c.TotalItems())
}

func TestCart_LoadsBackendFieldNames(t *testing.T) {
	data := []byte(`[{"id":"line-1","product_id":7,"nombre":"Polo","precio_final":25.5,"cantidad":2,` +
		`"variante_id":3,"color_nombre":"Azul","talla":"L","sku":"PO-A-L","imagen_url":"https://img/polo.png"}]`)

	c, _ := newCart(t, slotmock.WithSlot(slot.Cart, data))

	want := []cart.Item{{
		ID:        "line-1",
		ProductID: 7,
		Name:      "Polo",
		UnitPrice: price("25.5"),
		Quantity:  2,
		VariantID: variant(3),
		ColorName: "Azul",
		Size:      "L",
		SKU:       "PO-A-L",
		ImageURL:  "https://img/polo.png",
	}}
	if diff := cmp.Diff(want, c.Items(), equateDecimals); diff != "" {
		t.Errorf("cart mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, c.TotalItems())
}
