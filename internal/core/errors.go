package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the ledger. Services wrap these with fmt.Errorf("%w")
// so callers branch with errors.Is while keeping the descriptive message.
var (
	// ErrNotFound: a referenced product, location, sale, or inventory
	// record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation: a required field is missing or an input value is
	// invalid (non-positive quantity, negative price, unknown reference
	// on a sale).
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock: a decrement would take a quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConstraint: a uniqueness or referential constraint fired at the
	// store.
	ErrConstraint = errors.New("constraint violation")
	// ErrTransientStore: connectivity or timeout failure talking to the
	// store; the operation may succeed on retry.
	ErrTransientStore = errors.New("store unavailable")
)

// classifyStore wraps a database error with the matching sentinel.
// SQLSTATE class 23 (integrity violations) becomes ErrConstraint; classes
// 08 (connection) and 57 (operator intervention / shutdown) become
// ErrTransientStore. Anything else is wrapped as-is so the pgx error stays
// inspectable.
func classifyStore(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return fmt.Errorf("%s: %w: %s", op, ErrConstraint, pgErr.Message)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57"):
			return fmt.Errorf("%s: %w: %s", op, ErrTransientStore, pgErr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransientStore, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
