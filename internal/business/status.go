package business

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/openkcm/storefront-client/internal/config"
)

type Status struct {
	Session   SessionStatus   `yaml:"session"`
	Cart      CartStatus      `yaml:"cart"`
	Favorites FavoritesStatus `yaml:"favorites"`
}

type SessionStatus struct {
	State     string `yaml:"state"`
	UserEmail string `yaml:"userEmail,omitempty"`
	ExpiresAt string `yaml:"expiresAt,omitempty"`
}

type CartStatus struct {
	Lines      int    `yaml:"lines"`
	TotalItems int    `yaml:"totalItems"`
	Subtotal   string `yaml:"subtotal"`
	Total      string `yaml:"total"`
}

type FavoritesStatus struct {
	Count      int     `yaml:"count"`
	ProductIDs []int64 `yaml:"productIDs,omitempty"`
}

// StatusMain prints the persisted state of the configured slot owner.
func StatusMain(ctx context.Context, cfg *config.Config) error {
	sf, err := NewStorefront(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating storefront: %w", err)
	}
	defer sf.Close()

	return PrintStatus(ctx, os.Stdout, sf)
}

func PrintStatus(ctx context.Context, w io.Writer, sf *Storefront) error {
	sf.Initialize(ctx)

	status := Status{
		Session: SessionStatus{State: sf.Session.State(ctx).String()},
		Cart: CartStatus{
			Lines:      len(sf.Cart.Items()),
			TotalItems: sf.Cart.TotalItems(),
			Subtotal:   sf.Cart.Subtotal().StringFixed(2),
			Total:      sf.Cart.Total().StringFixed(2),
		},
		Favorites: FavoritesStatus{
			Count:      sf.Favorites.Len(),
			ProductIDs: sf.Favorites.ProductIDs(),
		},
	}

	if user := sf.Session.CurrentUser(ctx); user != nil {
		status.Session.UserEmail = user.Email
	}
	if exp, err := sf.Session.AccessTokenExpiry(ctx); err == nil {
		status.Session.ExpiresAt = exp.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	out, err := yaml.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}

	return nil
}
