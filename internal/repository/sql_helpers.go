package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PgErrorCode returns the SQLSTATE of a PostgreSQL server error, or an
// empty string when err did not originate from the server.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
