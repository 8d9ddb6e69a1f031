package services

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type paymentService struct {
	store storage.Store
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(store storage.Store) PaymentService {
	return &paymentService{store: store}
}

// TotalCompleted sums the amounts of completed payments with exact decimal arithmetic.
func TotalCompleted(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentStatusCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ListPayments returns the payments where the caller is either party, newest first.
func (s *paymentService) ListPayments(ctx context.Context, actor *models.Profile) ([]models.PaymentView, decimal.Decimal, error) {
	payments, err := s.store.Payments().ListByParty(ctx, actor.ID)
	if err != nil {
		return nil, decimal.Zero, mapRepoError(err, "listing payments")
	}

	jobIDs := make([]uuid.UUID, 0, len(payments))
	profileIDs := make([]uuid.UUID, 0, 2*len(payments))
	for _, p := range payments {
		jobIDs = append(jobIDs, p.JobID)
		profileIDs = append(profileIDs, p.FreelancerID, p.EmployerID)
	}
	jobs, err := s.store.Jobs().GetByIDs(ctx, uniqueIDs(jobIDs...))
	if err != nil {
		return nil, decimal.Zero, mapRepoError(err, "fetching payment jobs")
	}
	profiles, err := s.store.Profiles().GetByIDs(ctx, uniqueIDs(profileIDs...))
	if err != nil {
		return nil, decimal.Zero, mapRepoError(err, "fetching payment parties")
	}

	views := make([]models.PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, models.PaymentView{
			Payment:    p,
			Job:        jobs[p.JobID],
			Freelancer: profiles[p.FreelancerID],
			Employer:   profiles[p.EmployerID],
		})
	}
	return views, TotalCompleted(payments), nil
}

// RecordPayment appends a payment for an accepted engagement. It is an administrative
// operation with no acting profile.
func (s *paymentService) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*models.Payment, error) {
	if err := requireMoney("amount", req.Amount); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, validationError("unknown payment status %q", req.Status)
	}

	job, err := s.store.Jobs().GetByID(ctx, req.JobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", req.JobID))
	}
	employer, err := s.store.Profiles().GetByID(ctx, req.EmployerID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching employer %s", req.EmployerID))
	}
	freelancer, err := s.store.Profiles().GetByID(ctx, req.FreelancerID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching freelancer %s", req.FreelancerID))
	}

	if job.EmployerID != employer.ID {
		return nil, validationError("job %s is not owned by employer %s", job.ID, employer.ID)
	}
	if freelancer.Role != models.RoleFreelancer {
		return nil, validationError("profile %s is not a freelancer", freelancer.ID)
	}
	app, err := s.store.Applications().GetByJobAndFreelancer(ctx, job.ID, freelancer.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, mapRepoError(err, "fetching engagement")
	}
	if app == nil || app.Status != models.ApplicationStatusAccepted {
		return nil, validationError("freelancer %s has no accepted application on job %s", freelancer.ID, job.ID)
	}

	var created *models.Payment
	err = s.store.WithinTx(ctx, uuid.Nil, func(tx storage.Store) error {
		var err error
		created, err = tx.Payments().Create(ctx, &models.Payment{
			ID:           uuid.New(),
			JobID:        job.ID,
			FreelancerID: freelancer.ID,
			EmployerID:   employer.ID,
			Amount:       req.Amount,
			Status:       req.Status,
		})
		return err
	})
	if err != nil {
		return nil, mapRepoError(err, "recording payment")
	}

	log.WithFields(log.Fields{"payment_id": created.ID, "job_id": job.ID, "amount": created.Amount.String(), "status": created.Status}).Info("Payment recorded")
	return created, nil
}
