package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
)

type jobRepo struct {
	s *Store
}

func copyJob(j models.Job) *models.Job {
	j.RequiredSkills = cloneStrings(j.RequiredSkills)
	return &j
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	defer r.s.lock()()
	data := r.s.st.data

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if _, exists := data.jobs[job.ID]; exists {
		return nil, fmt.Errorf("job %s: %w", job.ID, storage.ErrDuplicate)
	}
	if _, ok := data.profiles[job.EmployerID]; !ok {
		return nil, fmt.Errorf("job employer %s: %w", job.EmployerID, storage.ErrConflict)
	}

	j := *copyJob(*job)
	j.CreatedAt = r.s.now()
	j.UpdatedAt = j.CreatedAt
	data.jobs[j.ID] = j
	return copyJob(j), nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	defer r.s.lock()()
	j, ok := r.s.st.data.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyJob(j), nil
}

func (r *jobRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Job, error) {
	defer r.s.lock()()
	result := make(map[uuid.UUID]*models.Job, len(ids))
	for _, id := range ids {
		if j, ok := r.s.st.data.jobs[id]; ok {
			result[id] = copyJob(j)
		}
	}
	return result, nil
}

func (r *jobRepo) List(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error) {
	defer r.s.lock()()
	matched := []models.Job{}
	for _, j := range r.s.st.data.jobs {
		if req.EmployerID != nil && j.EmployerID != *req.EmployerID {
			continue
		}
		if req.Status != nil && j.Status != *req.Status {
			continue
		}
		if req.Skill != "" && !slices.Contains(j.RequiredSkills, req.Skill) {
			continue
		}
		matched = append(matched, *copyJob(j))
	}
	return page(matched, func(j models.Job) time.Time { return j.CreatedAt }, req.Offset, req.Limit), nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.JobStatus) (*models.Job, error) {
	defer r.s.lock()()
	j, ok := r.s.st.data.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if j.Status != from {
		return nil, fmt.Errorf("job %s is no longer %s: %w", id, from, storage.ErrConflict)
	}
	j.Status = to
	j.UpdatedAt = r.s.now()
	r.s.st.data.jobs[id] = j
	return copyJob(j), nil
}

func (r *jobRepo) CountByEmployer(ctx context.Context, employerID uuid.UUID) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, j := range r.s.st.data.jobs {
		if j.EmployerID == employerID {
			n++
		}
	}
	return n, nil
}
