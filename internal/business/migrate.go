package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"

	// Register pgx driver
	_ "github.com/jackc/pgx/v5/stdlib"

	slogctx "github.com/veqryn/slog-context"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"

	"github.com/openkcm/storefront-client/internal/config"
	migrations "github.com/openkcm/storefront-client/sql"
)

// MigrateMain applies the durable slot migrations to the configured database.
func MigrateMain(ctx context.Context, cfg *config.Config) error {
	db, closeDB, err := openInstrumentedDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	if len(results) == 0 {
		slogctx.Info(ctx, "Durable slot schema is up to date")
	}
	for _, res := range results {
		slogctx.Info(ctx, "Applied migration",
			"version", res.Source.Version,
			"path", res.Source.Path,
			"duration", res.Duration,
		)
	}

	return nil
}

// openInstrumentedDB opens a database/sql handle traced by otelsql and exporting its pool statistics.
func openInstrumentedDB(ctx context.Context, cfg config.Database) (*sql.DB, func(), error) {
	connStr, err := config.MakeConnStr(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("making connection string from config: %w", err)
	}

	dbSystem := otelsql.WithAttributes(semconv.DBSystemNamePostgreSQL)

	db, err := otelsql.Open("pgx", connStr, dbSystem)
	if err != nil {
		return nil, nil, oops.In("main").Wrapf(err, "opening DB connection")
	}

	reg, err := otelsql.RegisterDBStatsMetrics(db, dbSystem)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("registering db stats metrics: %w", err)
	}

	closeFn := func() {
		if err := reg.Unregister(); err != nil {
			slogctx.Error(ctx, "failed to unregister db stats metrics", "error", err)
		}
		if err := db.Close(); err != nil {
			slogctx.Error(ctx, "failed to close DB connection", "error", err)
		}
	}

	return db, closeFn, nil
}
