package services

import (
	"context"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/shopspring/decimal"
)

type dashboardService struct {
	store storage.Store
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(store storage.Store) DashboardService {
	return &dashboardService{store: store}
}

func (s *dashboardService) GetDashboard(ctx context.Context, actor *models.Profile) (*dto.DashboardResponse, error) {
	payments, err := s.store.Payments().ListByParty(ctx, actor.ID)
	if err != nil {
		return nil, mapRepoError(err, "listing payments for dashboard")
	}

	resp := &dto.DashboardResponse{Role: actor.Role}
	switch actor.Role {
	case models.RoleEmployer:
		jobs, err := s.store.Jobs().CountByEmployer(ctx, actor.ID)
		if err != nil {
			return nil, mapRepoError(err, "counting jobs")
		}
		received, err := s.store.Applications().CountByEmployer(ctx, actor.ID)
		if err != nil {
			return nil, mapRepoError(err, "counting received applications")
		}
		spent := totalFor(payments, func(p models.Payment) bool { return p.EmployerID == actor.ID })
		resp.JobsPosted = &jobs
		resp.ApplicationsReceived = &received
		resp.TotalSpent = &spent

	case models.RoleFreelancer:
		submitted, err := s.store.Applications().CountByFreelancer(ctx, actor.ID, nil)
		if err != nil {
			return nil, mapRepoError(err, "counting applications")
		}
		acceptedStatus := models.ApplicationStatusAccepted
		accepted, err := s.store.Applications().CountByFreelancer(ctx, actor.ID, &acceptedStatus)
		if err != nil {
			return nil, mapRepoError(err, "counting accepted applications")
		}
		earned := totalFor(payments, func(p models.Payment) bool { return p.FreelancerID == actor.ID })
		resp.ApplicationsSubmitted = &submitted
		resp.ApplicationsAccepted = &accepted
		resp.TotalEarned = &earned
	}
	return resp, nil
}

// totalFor is TotalCompleted restricted to the payments where keep holds.
func totalFor(payments []models.Payment, keep func(models.Payment) bool) decimal.Decimal {
	side := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if keep(p) {
			side = append(side, p)
		}
	}
	return TotalCompleted(side)
}
