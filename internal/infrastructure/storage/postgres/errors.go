package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgCode(err error) (string, *pgconn.PgError) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr
	}
	return "", nil
}

// IsUniqueViolation reports a unique constraint failure and its constraint name.
func IsUniqueViolation(err error) (string, bool) {
	code, pgErr := pgCode(err)
	if code != pgUniqueViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// IsForeignKeyViolation reports a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == pgForeignKeyViolation
}

// IsCheckViolation reports a CHECK constraint failure and its constraint name.
func IsCheckViolation(err error) (string, bool) {
	code, pgErr := pgCode(err)
	if code != pgCheckViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}
