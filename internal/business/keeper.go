package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/session"
)

// SessionKeeperMain keeps the persisted session of the configured owner alive.
func SessionKeeperMain(ctx context.Context, cfg *config.Config) error {
	sf, err := NewStorefront(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise the storefront: %w", err)
	}
	defer sf.Close()

	c := time.Tick(cfg.Keeper.Interval)
	for {
		err := keepSessionAlive(ctx, sf.Session, cfg.Keeper.RefreshBefore, time.Now())
		if err != nil {
			slogctx.Error(ctx, "Error while keeping the session alive", "error", err)
		}

		select {
		case <-c:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}

// keepSessionAlive refreshes the access credential when it expires before now+refreshBefore.
func keepSessionAlive(ctx context.Context, mgr *session.Manager, refreshBefore time.Duration, now time.Time) error {
	if mgr.State(ctx) != session.Authenticated {
		slogctx.Debug(ctx, "No authenticated session to keep alive")
		return nil
	}

	expiry, err := mgr.AccessTokenExpiry(ctx)
	if err != nil {
		slogctx.Debug(ctx, "Access token expiry unknown, skipping refresh", "error", err)
		return nil
	}
	if expiry.After(now.Add(refreshBefore)) {
		return nil
	}

	slogctx.Info(ctx, "Refreshing access token", "expiry", expiry)

	err = mgr.RefreshToken(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, serviceerr.ErrNoRefreshCredential):
		return nil
	default:
		return fmt.Errorf("refreshing access token: %w", err)
	}
}
