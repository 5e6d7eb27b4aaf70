package slotsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/slot"
)

// Store keeps the slots of one owner in the durable_slots table.
// Every statement runs in a transaction with app.owner set, so the row level
// security policy limits it to the owner's rows.
type Store struct {
	db    *pgxpool.Pool
	owner string
}

var _ = slot.Store(&Store{})

func NewStore(db *pgxpool.Pool, owner string) *Store {
	return &Store{
		db:    db,
		owner: owner,
	}
}

func setOwnerContext(ctx context.Context, tx pgx.Tx, owner string) error {
	if _, err := tx.Exec(ctx, `SELECT set_config('app.owner', $1, true);`, owner); err != nil {
		return fmt.Errorf("setting app.owner: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, name string) (value []byte, _ error) {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT value
FROM durable_slots
WHERE owner = current_setting('app.owner')
	AND name = $1;`,
			name,
		).Scan(&value); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return serviceerr.ErrNotFound
			}

			return fmt.Errorf("selecting from durable_slots: %w", mapPgError(err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO durable_slots (owner, name, value, updated_at)
	VALUES (current_setting('app.owner'), $1, $2, now())
	ON CONFLICT (owner, name)
	DO UPDATE SET (value, updated_at) = (EXCLUDED.value, EXCLUDED.updated_at);`,
			name, value,
		); err != nil {
			return fmt.Errorf("inserting into durable_slots: %w", mapPgError(err))
		}

		return nil
	})
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM durable_slots
WHERE owner = current_setting('app.owner')
	AND name = $1;`,
			name,
		); err != nil {
			return fmt.Errorf("deleting from durable_slots: %w", mapPgError(err))
		}

		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := setOwnerContext(ctx, tx, s.owner); err != nil {
		return fmt.Errorf("setting owner context: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}

	return nil
}
