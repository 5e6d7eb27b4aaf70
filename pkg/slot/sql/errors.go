package slotsql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openkcm/storefront-client/internal/serviceerr"
)

// PostgreSQL error codes the slot store reports as service errors.
var pgErrorCodes = map[string]*serviceerr.Error{
	"23505": serviceerr.ErrConflict,               // unique_violation
	"42501": serviceerr.ErrAccessDenied,           // insufficient_privilege, e.g. a row security violation
	"42P01": serviceerr.ErrServerError,            // undefined_table, migrations not applied
	"57P03": serviceerr.ErrTemporarilyUnavailable, // cannot_connect_now
}

// mapPgError translates err into a service error when it carries one of pgErrorCodes.
// The PostgreSQL message is kept in the chain.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	sentinel, ok := pgErrorCodes[pgErr.Code]
	if !ok {
		return err
	}

	return errors.Join(sentinel, fmt.Errorf("%s (SQLSTATE %s)", pgErr.Message, pgErr.Code))
}
