package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// Kind is a normalized classification of database errors. Handlers translate
// user-facing messages from a Kind, never from provider message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoRows
	KindUniqueViolation
	KindForeignKeyViolation
	KindCheckViolation
	KindInsufficientPrivilege
)

// Postgres error codes (class 23 = integrity constraint violation)
const (
	codeUniqueViolation       = "23505"
	codeForeignKeyViolation   = "23503"
	codeCheckViolation        = "23514"
	codeInsufficientPrivilege = "42501"
)

// Classify maps a pgx/pgconn error to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNoRows
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindUnknown
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return KindUniqueViolation
	case codeForeignKeyViolation:
		return KindForeignKeyViolation
	case codeCheckViolation:
		return KindCheckViolation
	case codeInsufficientPrivilege:
		return KindInsufficientPrivilege
	default:
		return KindUnknown
	}
}

// IsUniqueViolation checks if the error is a PostgreSQL unique violation error.
func IsUniqueViolation(err error) bool {
	return Classify(err) == KindUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}
