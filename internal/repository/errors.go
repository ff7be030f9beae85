// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values and helpers reused across
// multiple repositories. Sentinel values let handlers distinguish failure
// scenarios: ErrForbidden maps to HTTP 403, ErrConflict to HTTP 409.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a shop admin touching another shop's
// menu.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a menu section that still has items.
var ErrConflict = errors.New("conflict")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). Repositories use it to convert duplicate
// inserts into their own sentinel errors.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
