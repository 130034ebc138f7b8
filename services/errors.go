package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means the entity looked up by ID does not exist
	ErrNotFound = errors.New("record not found")

	// ErrReferentialIntegrity means an operation referenced a row that does
	// not exist, or tried to delete a row that other rows still depend on.
	// The surrounding transaction has been rolled back.
	ErrReferentialIntegrity = errors.New("operation violates referential integrity")
)

// SQLSTATE classes raised by Postgres for constraint violations
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// isForeignKeyViolation reports whether err is a Postgres foreign key error.
// The driver error is inspected here so handlers only ever see the service
// taxonomy, never raw SQLSTATEs.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// IsUniqueViolation reports whether err is a Postgres unique constraint error
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
