package memory

import (
	"context"
	"fmt"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
)

type applicationRepo struct {
	s *Store
}

// Create enforces the (job, freelancer) uniqueness under the store lock, so concurrent
// duplicates are rejected exactly like the unique index does in PostgreSQL.
func (r *applicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	defer r.s.lock()()
	data := r.s.st.data

	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if _, ok := data.jobs[app.JobID]; !ok {
		return nil, fmt.Errorf("application job %s: %w", app.JobID, storage.ErrConflict)
	}
	if _, ok := data.profiles[app.FreelancerID]; !ok {
		return nil, fmt.Errorf("application freelancer %s: %w", app.FreelancerID, storage.ErrConflict)
	}
	for _, existing := range data.applications {
		if existing.JobID == app.JobID && existing.FreelancerID == app.FreelancerID {
			return nil, fmt.Errorf("application for job %s by %s: %w", app.JobID, app.FreelancerID, storage.ErrDuplicate)
		}
	}

	a := *app
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	data.applications[a.ID] = a
	return &a, nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	defer r.s.lock()()
	a, ok := r.s.st.data.applications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (r *applicationRepo) GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Application, error) {
	defer r.s.lock()()
	for _, a := range r.s.st.data.applications {
		if a.JobID == jobID && a.FreelancerID == freelancerID {
			return &a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *applicationRepo) filter(keep func(models.Application) bool, offset, limit int) []models.Application {
	matched := []models.Application{}
	for _, a := range r.s.st.data.applications {
		if keep(a) {
			matched = append(matched, a)
		}
	}
	return page(matched, func(a models.Application) time.Time { return a.CreatedAt }, offset, limit)
}

func (r *applicationRepo) ListByFreelancer(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.Application, error) {
	defer r.s.lock()()
	return r.filter(func(a models.Application) bool { return a.FreelancerID == req.FreelancerID }, req.Offset, req.Limit), nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.Application, error) {
	defer r.s.lock()()
	return r.filter(func(a models.Application) bool { return a.JobID == req.JobID }, req.Offset, req.Limit), nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ApplicationStatus) (*models.Application, error) {
	defer r.s.lock()()
	a, ok := r.s.st.data.applications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if a.Status != from {
		return nil, fmt.Errorf("application %s is no longer %s: %w", id, from, storage.ErrConflict)
	}
	a.Status = to
	a.UpdatedAt = r.s.now()
	r.s.st.data.applications[id] = a
	return &a, nil
}

func (r *applicationRepo) CountByFreelancer(ctx context.Context, freelancerID uuid.UUID, status *models.ApplicationStatus) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, a := range r.s.st.data.applications {
		if a.FreelancerID == freelancerID && (status == nil || a.Status == *status) {
			n++
		}
	}
	return n, nil
}

func (r *applicationRepo) CountByEmployer(ctx context.Context, employerID uuid.UUID) (int, error) {
	defer r.s.lock()()
	data := r.s.st.data
	n := 0
	for _, a := range data.applications {
		if j, ok := data.jobs[a.JobID]; ok && j.EmployerID == employerID {
			n++
		}
	}
	return n, nil
}
