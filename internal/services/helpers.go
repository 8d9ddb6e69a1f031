package services

import (
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/authz"
	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Money columns are NUMERIC(14, 2).
	moneyScale = 2
)

var maxMoney = decimal.New(1, 12)

// jobTransitions lists the allowed job status changes. completed and cancelled are terminal.
var jobTransitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusOpen:       {models.JobStatusInProgress, models.JobStatusCancelled},
	models.JobStatusInProgress: {models.JobStatusCompleted, models.JobStatusCancelled},
}

// isValidJobStateTransition defines the allowed state changes.
func isValidJobStateTransition(from, to models.JobStatus) bool {
	for _, allowed := range jobTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// isValidApplicationDecision: pending is the only state a decision can leave.
func isValidApplicationDecision(from, to models.ApplicationStatus) bool {
	return from == models.ApplicationStatusPending &&
		(to == models.ApplicationStatusAccepted || to == models.ApplicationStatusRejected)
}

func isServiceError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrValidation, ErrInvalidCredentials,
		ErrInvalidTransition, ErrDuplicateApplication, ErrStoreUnavailable} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// mapRepoError maps storage errors to service errors. Anything unrecognised is
// reported as the store being unavailable, and logged.
func mapRepoError(err error, operation string) error {
	if err == nil {
		return nil
	}
	// Errors produced by service code inside a transaction pass through untouched.
	if isServiceError(err) {
		return err
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, storage.ErrConflict):
		log.WithFields(log.Fields{"operation": operation, "error": err}).Warn("Store conflict")
		return fmt.Errorf("%w: %s", ErrConflict, operation)
	case errors.Is(err, storage.ErrForbidden):
		return fmt.Errorf("%w: %s", ErrForbidden, operation)
	}
	log.WithFields(log.Fields{"operation": operation, "error": err}).Error("Store unavailable")
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, operation)
}

// guardError turns an authz denial into ErrForbidden.
func guardError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, authz.ErrDenied) {
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	return err
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// requireMoney accepts positive amounts with at most two decimal places below 10^12.
func requireMoney(name string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("%s must be greater than zero", name)
	}
	if !amount.Equal(amount.Truncate(moneyScale)) {
		return validationError("%s must have at most %d decimal places", name, moneyScale)
	}
	if amount.GreaterThanOrEqual(maxMoney) {
		return validationError("%s must be less than %s", name, maxMoney)
	}
	return nil
}

// normalizeSkills trims entries, drops blanks and removes duplicates, keeping first-seen order.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// normalizePage applies the default page size and rejects out-of-range values.
func normalizePage(limit, offset int) (int, int, error) {
	if limit < 0 || limit > maxPageSize {
		return 0, 0, validationError("limit must be between 1 and %d", maxPageSize)
	}
	if offset < 0 {
		return 0, 0, validationError("offset must not be negative")
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	return limit, offset, nil
}

func uniqueIDs(ids ...uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
