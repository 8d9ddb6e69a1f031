package memory

import (
	"context"
	"fmt"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/google/uuid"
)

type paymentRepo struct {
	s *Store
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	defer r.s.lock()()
	data := r.s.st.data

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if _, ok := data.jobs[payment.JobID]; !ok {
		return nil, fmt.Errorf("payment job %s: %w", payment.JobID, storage.ErrConflict)
	}
	for _, id := range []uuid.UUID{payment.FreelancerID, payment.EmployerID} {
		if _, ok := data.profiles[id]; !ok {
			return nil, fmt.Errorf("payment party %s: %w", id, storage.ErrConflict)
		}
	}

	p := *payment
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	data.payments[p.ID] = p
	return &p, nil
}

func (r *paymentRepo) ListByParty(ctx context.Context, profileID uuid.UUID) ([]models.Payment, error) {
	defer r.s.lock()()
	matched := []models.Payment{}
	for _, p := range r.s.st.data.payments {
		if p.EmployerID == profileID || p.FreelancerID == profileID {
			matched = append(matched, p)
		}
	}
	// No paging on payments: a party's ledger is returned whole.
	return page(matched, func(p models.Payment) time.Time { return p.CreatedAt }, 0, len(matched)+1), nil
}
