package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/neighborly/portal-backend/internal/domain"
)

// Postgres error codes mapped to domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// MapError converts pgx/pgconn errors to domain errors. Context errors pass
// through unmapped so callers can distinguish cancellation from store
// failures.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", entity, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", entity, domain.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w", entity, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", entity, err)
}
