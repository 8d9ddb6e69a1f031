package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// PostgreSQL error codes the repositories care about.
const (
	codeUniqueViolation       = "23505"
	codeForeignKeyViolation   = "23503"
	codeCheckViolation        = "23514"
	codeInsufficientPrivilege = "42501"
)

// classifyError translates a pgx error into one of the storage sentinels, keeping the
// original error in the message. Unknown failures are treated as the store being unavailable.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrDuplicate)
		case pgErr.Code == codeForeignKeyViolation, pgErr.Code == codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrConflict)
		case pgErr.Code == codeInsufficientPrivilege:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, storage.ErrForbidden)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"), strings.HasPrefix(pgErr.Code, "53"):
			// connection exception, admin shutdown, insufficient resources
			return fmt.Errorf("%s: %v: %w", op, err, storage.ErrUnavailable)
		}
	}

	log.WithFields(log.Fields{"op": op, "error": err}).Error("Unclassified database error")
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, err, storage.ErrUnavailable)
	}
	return fmt.Errorf("%s: %v: %w", op, err, storage.ErrUnavailable)
}
