package httpkit

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the API reacts to.
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// PgCode returns the SQLSTATE of a PostgreSQL error in err's chain, or "".
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUndefinedTable reports a missing table, i.e. a schema that was never
// migrated.
func IsUndefinedTable(err error) bool {
	return PgCode(err) == pgUndefinedTable
}

func IsUniqueViolation(err error) bool {
	return PgCode(err) == pgUniqueViolation
}
