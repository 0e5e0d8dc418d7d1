package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"rollbook/internal/apperror"
)

const pgForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err is a referential integrity
// failure from either supported driver.
func IsForeignKeyViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}

// MapError translates a driver error into the app taxonomy. A foreign key
// failure is reported against fkField; context errors pass through.
func MapError(err error, fkField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if IsForeignKeyViolation(err) {
		c := apperror.Constraint(fkField, "unknown "+fkField)
		c.Err = err
		return c
	}
	return apperror.Unavailable(err)
}
