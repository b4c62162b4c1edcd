package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrStaleVersion reports an upsert that carried a version lower than or
// equal to the currently stored one. The write was ignored.
var ErrStaleVersion = errors.New("stale match result version")

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
