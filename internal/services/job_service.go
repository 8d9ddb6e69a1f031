package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/authz"
	"marketplace-api/internal/metrics"
	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type jobService struct {
	store storage.Store
	guard *authz.Guard
}

// NewJobService creates a new instance of JobService.
func NewJobService(store storage.Store, guard *authz.Guard) JobService {
	return &jobService{store: store, guard: guard}
}

// CreateJob posts a new job in state open, owned by the calling employer.
func (s *jobService) CreateJob(ctx context.Context, actor *models.Profile, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := s.guard.CanCreateJob(actor); err != nil {
		return nil, guardError(err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if err := requireMoney("budget", req.Budget); err != nil {
		return nil, err
	}
	skills := normalizeSkills(req.RequiredSkills)
	if len(skills) == 0 {
		return nil, validationError("at least one required skill is needed")
	}

	job := &models.Job{
		ID:             uuid.New(),
		EmployerID:     actor.ID,
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		Budget:         req.Budget,
		RequiredSkills: skills,
		Status:         models.JobStatusOpen,
	}

	var created *models.Job
	err := s.store.WithinTx(ctx, actor.ID, func(tx storage.Store) error {
		var err error
		created, err = tx.Jobs().Create(ctx, job)
		return err
	})
	if err != nil {
		return nil, mapRepoError(err, "creating job")
	}

	metrics.JobsCreated.Inc()
	return created, nil
}

// GetJob returns a job with its employer profile.
func (s *jobService) GetJob(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.JobView, error) {
	if err := s.guard.CanViewJob(actor); err != nil {
		return nil, guardError(err)
	}
	job, err := s.store.Jobs().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", id))
	}
	views, err := s.assembleJobViews(ctx, []models.Job{*job})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListJobs lists the caller's own jobs for employers and open jobs for freelancers, newest first.
func (s *jobService) ListJobs(ctx context.Context, actor *models.Profile, req *dto.ListJobsRequest) ([]models.JobView, error) {
	limit, offset, err := normalizePage(req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	filter := dto.ListJobsRequest{Skill: strings.TrimSpace(req.Skill), Limit: limit, Offset: offset}

	if req.Status != nil && !req.Status.Valid() {
		return nil, validationError("unknown job status %q", *req.Status)
	}

	switch actor.Role {
	case models.RoleEmployer:
		filter.EmployerID = &actor.ID
		filter.Status = req.Status
	default:
		if req.Status != nil && *req.Status != models.JobStatusOpen {
			return nil, validationError("freelancers can only browse open jobs")
		}
		open := models.JobStatusOpen
		filter.Status = &open
	}

	jobs, err := s.store.Jobs().List(ctx, &filter)
	if err != nil {
		return nil, mapRepoError(err, "listing jobs")
	}
	return s.assembleJobViews(ctx, jobs)
}

// TransitionJob moves a job along its lifecycle. Only the owning employer may do so.
func (s *jobService) TransitionJob(ctx context.Context, actor *models.Profile, jobID uuid.UUID, to models.JobStatus) (*models.Job, error) {
	if !to.Valid() {
		return nil, validationError("unknown job status %q", to)
	}

	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", jobID))
	}
	if err := s.guard.CanTransitionJob(actor, job); err != nil {
		log.Printf("TransitionJob: Forbidden attempt by %s on job %s owned by %s", actor.ID, job.ID, job.EmployerID)
		return nil, guardError(err)
	}
	if !isValidJobStateTransition(job.Status, to) {
		return nil, fmt.Errorf("%w: job cannot move from %s to %s", ErrInvalidTransition, job.Status, to)
	}

	var updated *models.Job
	err = s.store.WithinTx(ctx, actor.ID, func(tx storage.Store) error {
		var err error
		updated, err = tx.Jobs().UpdateStatus(ctx, job.ID, job.Status, to)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Someone else moved the job first.
			return nil, fmt.Errorf("%w: job is no longer %s", ErrInvalidTransition, job.Status)
		}
		return nil, mapRepoError(err, "updating job status")
	}

	metrics.JobTransitions.WithLabelValues(string(to)).Inc()
	return updated, nil
}

func (s *jobService) HasApplied(ctx context.Context, actor *models.Profile, jobID uuid.UUID) (*models.Application, error) {
	if err := s.guard.CanCheckApplied(actor); err != nil {
		return nil, guardError(err)
	}
	if _, err := s.store.Jobs().GetByID(ctx, jobID); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", jobID))
	}

	app, err := s.store.Applications().GetByJobAndFreelancer(ctx, jobID, actor.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, mapRepoError(err, "checking existing application")
	}
	return app, nil
}

// assembleJobViews joins jobs with their employer profiles.
func (s *jobService) assembleJobViews(ctx context.Context, jobs []models.Job) ([]models.JobView, error) {
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.EmployerID)
	}
	employers, err := s.store.Profiles().GetByIDs(ctx, uniqueIDs(ids...))
	if err != nil {
		return nil, mapRepoError(err, "fetching job employers")
	}

	views := make([]models.JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, models.JobView{Job: j, Employer: employers[j.EmployerID]})
	}
	return views, nil
}
