// Package slot defines durable slots: small named values that survive a restart of the client.
// They cache client state (session credentials, cart, favorites); they are never the source of truth.
package slot

import "context"

// Well-known slot names.
const (
	AccessToken  = "access_token"
	RefreshToken = "refresh_token"
	User         = "user"
	Cart         = "cart"
	Favorites    = "favorites"
)

// Store reads and writes durable slots.
//
// Get returns an error matching serviceerr.ErrNotFound when the slot is absent.
// Delete of an absent slot is not an error.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
}
