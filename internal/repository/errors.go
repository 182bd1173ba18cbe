package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
// It is the storage-level backstop for checks the services also perform
// up front (one review per title and author, unique username/email).
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// translateError maps driver-level constraint failures to repository errors.
func translateError(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
