package business

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/pkg/api"
	"github.com/openkcm/storefront-client/pkg/cart"
	"github.com/openkcm/storefront-client/pkg/favorites"
	"github.com/openkcm/storefront-client/pkg/session"
	"github.com/openkcm/storefront-client/pkg/upload"
)

var ErrUnknownSlotBackend = errors.New("unknown slot backend")

// Storefront is the client data layer wired from configuration.
type Storefront struct {
	// API authenticates with the session's access credential.
	API       *api.Client
	Session   *session.Manager
	Cart      *cart.Cart
	Favorites *favorites.Favorites
	// Uploader is nil when no image bucket is configured.
	Uploader *upload.Uploader

	closeFns []func()
}

func NewStorefront(ctx context.Context, cfg *config.Config) (_ *Storefront, err error) {
	sf := &Storefront{}
	defer func() {
		if err != nil {
			sf.Close()
		}
	}()

	slots, closeSlots, err := newSlotStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening slot store: %w", err)
	}
	sf.closeFns = append(sf.closeFns, closeSlots)

	base := api.NewClient(cfg.API.BaseURL, api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
	sf.Session = session.NewManager(base, slots)
	sf.API = base.WithTokenSource(sf.Session)
	sf.Cart = cart.New(slots)
	sf.Favorites = favorites.New(slots)

	storage, closeStorage, err := newImageStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening image storage: %w", err)
	}
	sf.closeFns = append(sf.closeFns, closeStorage)

	if storage != nil {
		sf.Uploader = upload.NewUploader(storage, upload.WithPause(cfg.Upload.Pause))
	}

	return sf, nil
}

// Initialize loads the persisted cart and favorites.
func (sf *Storefront) Initialize(ctx context.Context) {
	sf.Cart.Initialize(ctx)
	sf.Favorites.Initialize(ctx)

	slogctx.Debug(ctx, "Initialised storefront stores",
		"cartItems", sf.Cart.TotalItems(),
		"favorites", sf.Favorites.Len(),
	)
}

// Close releases the backends in reverse opening order.
func (sf *Storefront) Close() {
	for _, fn := range slices.Backward(sf.closeFns) {
		fn()
	}
	sf.closeFns = nil
}
