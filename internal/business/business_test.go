package business

import (
	"bytes"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/pkg/cart"
	"github.com/openkcm/storefront-client/pkg/favorites"
)

func memoryConfig() *config.Config {
	return &config.Config{
		API:   config.API{BaseURL: "http://localhost:3000/api"},
		Slots: config.Slots{Backend: config.SlotBackendMemory, Owner: "tester"},
	}
}

func TestNewStorefront(t *testing.T) {
	sf, err := NewStorefront(t.Context(), memoryConfig())
	require.NoError(t, err)
	defer sf.Close()

	assert.NotNil(t, sf.API)
	assert.NotNil(t, sf.Session)
	assert.NotNil(t, sf.Cart)
	assert.NotNil(t, sf.Favorites)
	assert.Nil(t, sf.Uploader)
	assert.True(t, sf.Session.HasClientContext())
	assert.Equal(t, "http://localhost:3000/api", sf.API.BaseURL())
}

func TestNewStorefront_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Slots.Backend = "etcd"

	_, err := NewStorefront(t.Context(), cfg)
	assert.ErrorIs(t, err, ErrUnknownSlotBackend)
}

func TestNewStorefront_InvalidDatabaseConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Slots.Backend = config.SlotBackendPostgres
	cfg.Database = config.Database{
		Host: commoncfg.SourceRef{Source: "file", File: commoncfg.CredentialFile{Path: "/nonexistent/file"}},
		Port: "5432",
		Name: "storefront",
	}

	_, err := NewStorefront(t.Context(), cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "making dsn from config")
}

func TestStorefront_Close(t *testing.T) {
	var order []int
	sf := &Storefront{closeFns: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}

	sf.Close()
	sf.Close()

	assert.Equal(t, []int{2, 1}, order)
}

func TestPrintStatus(t *testing.T) {
	ctx := t.Context()

	sf, err := NewStorefront(ctx, memoryConfig())
	require.NoError(t, err)
	defer sf.Close()

	sf.Cart.AddItem(ctx, cart.NewItem{ProductID: 7, Name: "Polo", UnitPrice: decimal.NewFromInt(50), Quantity: 2})
	sf.Favorites.Add(ctx, favorites.Item{ProductID: 7, Name: "Polo", FinalPrice: decimal.NewFromInt(50)})

	var buf bytes.Buffer
	require.NoError(t, PrintStatus(ctx, &buf, sf))

	var got Status
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, Status{
		Session: SessionStatus{State: "anonymous"},
		Cart: CartStatus{
			Lines:      1,
			TotalItems: 2,
			Subtotal:   "100.00",
			Total:      "118.00",
		},
		Favorites: FavoritesStatus{Count: 1, ProductIDs: []int64{7}},
	}, got)
}
