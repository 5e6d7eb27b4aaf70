package postgrestest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"

	slogctx "github.com/veqryn/slog-context"

	migrations "github.com/openkcm/storefront-client/sql"
)

const (
	DBHost     = "localhost"
	DBUser     = "postgres"
	DBPassword = "secret"
	DBName     = "storefront"
	DBSSLMode  = "disable"
)

// Owner is the slot owner of the pre-inserted test data.
const Owner = "owner-one"

// Start initialises a database instance and returns a connection pool, database port, and termination function.
//
// Database credentials are available as exported constants.
// The database contains pre-defined slots of Owner. See prepareDB.
func Start(ctx context.Context) (*pgxpool.Pool, nat.Port, func(ctx context.Context)) {
	pgContainer, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(DBName),
		postgres.WithUsername(DBUser),
		postgres.WithPassword(DBPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		slogctx.Error(ctx, "Failed to start PostgreSQL", slog.String("error", err.Error()))
		panic(err)
	}

	port, err := pgContainer.MappedPort(ctx, nat.Port("5432"))
	if err != nil {
		slogctx.Error(ctx, "Failed to get mapped port for the PostgreSQL container", slog.String("error", err.Error()))
		panic(err)
	}

	dbPool := makeDBConn(ctx, port)
	prepareDB(ctx, dbPool, port)

	terminate := func(ctx context.Context) {
		dbPool.Close()

		if err := pgContainer.Terminate(ctx); err != nil {
			slogctx.Error(ctx, "Failed to terminate PostgreSQL container", slog.String("error", err.Error()))
			panic(err)
		}
	}

	return dbPool, port, terminate
}

// ConnStr returns the key/value connection string for the container on the given port.
func ConnStr(port nat.Port) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", DBHost, DBUser, DBPassword, DBName, port.Port(), DBSSLMode)
}

func makeDBConn(ctx context.Context, port nat.Port) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, ConnStr(port))
	if err != nil {
		panic(err)
	}

	return pool
}

func migrateDB(ctx context.Context, port nat.Port) {
	db, err := sql.Open("pgx", ConnStr(port))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		panic(err)
	}

	if _, err := provider.Up(ctx); err != nil {
		panic(err)
	}
}

func prepareDB(ctx context.Context, dbPool *pgxpool.Pool, port nat.Port) {
	migrateDB(ctx, port)

	b := new(pgx.Batch)
	b.Queue(`INSERT INTO durable_slots (owner, name, value) VALUES ($1, 'access_token', 'token-one');`, Owner)
	b.Queue(`INSERT INTO durable_slots (owner, name, value) VALUES ($1, 'refresh_token', 'refresh-one');`, Owner)

	res := dbPool.SendBatch(ctx, b)
	if err := res.Close(); err != nil {
		panic(err)
	}
}
