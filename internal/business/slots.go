package business

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"
	"google.golang.org/api/option"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/pkg/slot"
	slotfirestore "github.com/openkcm/storefront-client/pkg/slot/firestore"
	slotmemory "github.com/openkcm/storefront-client/pkg/slot/memory"
	slotsql "github.com/openkcm/storefront-client/pkg/slot/sql"
	slotvalkey "github.com/openkcm/storefront-client/pkg/slot/valkey"
)

// newSlotStore opens the configured slot backend. closeFn releases its connections.
func newSlotStore(ctx context.Context, cfg *config.Config) (_ slot.Store, closeFn func(), _ error) {
	owner := cfg.Slots.Owner
	slogctx.Debug(ctx, "Opening slot store", "backend", cfg.Slots.Backend, "owner", owner)

	switch cfg.Slots.Backend {
	case config.SlotBackendMemory, "":
		return slotmemory.NewStore(), func() {}, nil
	case config.SlotBackendValKey:
		client, err := newValkeyClient(cfg.ValKey)
		if err != nil {
			return nil, nil, err
		}
		return slotvalkey.NewStore(client, cfg.ValKey.Prefix+":"+owner), client.Close, nil
	case config.SlotBackendPostgres:
		pool, err := newDBPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return slotsql.NewStore(pool, owner), pool.Close, nil
	case config.SlotBackendFirestore:
		client, err := newFirestoreClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				slogctx.Error(ctx, "Failed to close firestore client", "error", err)
			}
		}
		return slotfirestore.NewStore(client, owner, slotfirestore.WithCollection(cfg.Firestore.Collection)), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSlotBackend, cfg.Slots.Backend)
	}
}

func newValkeyClient(cfg config.ValKey) (valkey.Client, error) {
	host, err := commoncfg.LoadValueFromSourceRef(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("loading valkey host: %w", err)
	}

	username, err := commoncfg.LoadValueFromSourceRef(cfg.User)
	if err != nil {
		return nil, fmt.Errorf("loading valkey username: %w", err)
	}

	password, err := commoncfg.LoadValueFromSourceRef(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("loading valkey password: %w", err)
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{string(host)},
		Username:    string(username),
		Password:    string(password),
	})
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return client, nil
}

func newDBPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	connStr, err := config.MakeConnStr(cfg)
	if err != nil {
		return nil, fmt.Errorf("making dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing pgxpool config: %w", err)
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	return pool, nil
}

func newFirestoreClient(ctx context.Context, cfg config.Firestore) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client (project=%s): %w", cfg.ProjectID, err)
	}

	return client, nil
}
