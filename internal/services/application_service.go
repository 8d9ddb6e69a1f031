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

type applicationService struct {
	store storage.Store
	guard *authz.Guard
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(store storage.Store, guard *authz.Guard) ApplicationService {
	return &applicationService{store: store, guard: guard}
}

// SubmitApplication creates a pending application from a freelancer to an open job.
// A second application to the same job loses on the store's unique (job, freelancer) key,
// so concurrent duplicates cannot both succeed.
func (s *applicationService) SubmitApplication(ctx context.Context, actor *models.Profile, jobID uuid.UUID, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	// 1. Authorization
	if err := s.guard.CanSubmitApplication(actor); err != nil {
		return nil, guardError(err)
	}

	// 2. Validation
	coverLetter := strings.TrimSpace(req.CoverLetter)
	if coverLetter == "" {
		return nil, validationError("cover letter is required")
	}
	if err := requireMoney("proposed rate", req.ProposedRate); err != nil {
		return nil, err
	}

	// 3. The job must exist and still accept applications
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s for application", jobID))
	}
	if job.Status != models.JobStatusOpen {
		log.Printf("SubmitApplication: Attempt to apply to job %s in state %s", job.ID, job.Status)
		return nil, fmt.Errorf("%w: job is %s and no longer accepts applications", ErrInvalidTransition, job.Status)
	}

	// 4. Insert; uniqueness is enforced by the store
	var created *models.Application
	err = s.store.WithinTx(ctx, actor.ID, func(tx storage.Store) error {
		var err error
		created, err = tx.Applications().Create(ctx, &models.Application{
			ID:           uuid.New(),
			JobID:        job.ID,
			FreelancerID: actor.ID,
			CoverLetter:  coverLetter,
			ProposedRate: req.ProposedRate,
			Status:       models.ApplicationStatusPending,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			metrics.DuplicateApplications.Inc()
			log.Printf("SubmitApplication: Freelancer %s already applied to job %s", actor.ID, job.ID)
			return nil, fmt.Errorf("%w: job %s", ErrDuplicateApplication, job.ID)
		}
		return nil, mapRepoError(err, "creating application")
	}

	metrics.ApplicationsSubmitted.Inc()
	return created, nil
}

// DecideApplication accepts or rejects a pending application. Other applications to the
// same job are left untouched, and the job keeps its status.
func (s *applicationService) DecideApplication(ctx context.Context, actor *models.Profile, applicationID uuid.UUID, decision models.ApplicationStatus) (*models.Application, error) {
	if decision != models.ApplicationStatusAccepted && decision != models.ApplicationStatusRejected {
		return nil, validationError("decision must be accepted or rejected")
	}

	app, err := s.store.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching application %s", applicationID))
	}
	job, err := s.store.Jobs().GetByID(ctx, app.JobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s of application", app.JobID))
	}

	if err := s.guard.CanDecideApplication(actor, job); err != nil {
		log.Printf("DecideApplication: Forbidden attempt by %s on application %s (job owner %s)", actor.ID, app.ID, job.EmployerID)
		return nil, guardError(err)
	}
	if !isValidApplicationDecision(app.Status, decision) {
		return nil, fmt.Errorf("%w: application is already %s", ErrInvalidTransition, app.Status)
	}

	var updated *models.Application
	err = s.store.WithinTx(ctx, actor.ID, func(tx storage.Store) error {
		var err error
		updated, err = tx.Applications().UpdateStatus(ctx, app.ID, models.ApplicationStatusPending, decision)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// A concurrent decision won the race.
			return nil, fmt.Errorf("%w: application was decided concurrently", ErrInvalidTransition)
		}
		return nil, mapRepoError(err, "updating application status")
	}

	metrics.ApplicationDecisions.WithLabelValues(string(decision)).Inc()
	log.Printf("DecideApplication: Application %s %s by %s", updated.ID, updated.Status, actor.ID)
	return updated, nil
}

// GetApplication returns an application to its applicant or to the job's employer.
func (s *applicationService) GetApplication(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.ApplicationView, error) {
	app, err := s.store.Applications().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching application %s", id))
	}
	job, err := s.store.Jobs().GetByID(ctx, app.JobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", app.JobID))
	}
	if err := s.guard.CanViewApplication(actor, app, job); err != nil {
		return nil, guardError(err)
	}

	views, err := s.assembleViews(ctx, []models.Application{*app})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListApplicationsForFreelancer lists the caller's own applications, newest first.
func (s *applicationService) ListApplicationsForFreelancer(ctx context.Context, actor *models.Profile, req *dto.ListApplicationsRequest) ([]models.ApplicationView, error) {
	limit, offset, err := normalizePage(req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().ListByFreelancer(ctx, &dto.ListApplicationsRequest{
		FreelancerID: actor.ID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, mapRepoError(err, "listing applications by freelancer")
	}
	return s.assembleViews(ctx, apps)
}

// ListApplicationsForJob lists a job's applications for its employer, newest first.
func (s *applicationService) ListApplicationsForJob(ctx context.Context, actor *models.Profile, req *dto.ListApplicationsRequest) ([]models.ApplicationView, error) {
	limit, offset, err := normalizePage(req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	job, err := s.store.Jobs().GetByID(ctx, req.JobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", req.JobID))
	}
	if err := s.guard.CanListJobApplications(actor, job); err != nil {
		return nil, guardError(err)
	}

	apps, err := s.store.Applications().ListByJob(ctx, &dto.ListApplicationsRequest{
		JobID:  job.ID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, mapRepoError(err, "listing applications by job")
	}
	return s.assembleViews(ctx, apps)
}

// assembleViews joins applications with their jobs and freelancer profiles.
func (s *applicationService) assembleViews(ctx context.Context, apps []models.Application) ([]models.ApplicationView, error) {
	jobIDs := make([]uuid.UUID, 0, len(apps))
	freelancerIDs := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
		freelancerIDs = append(freelancerIDs, a.FreelancerID)
	}

	jobs, err := s.store.Jobs().GetByIDs(ctx, uniqueIDs(jobIDs...))
	if err != nil {
		return nil, mapRepoError(err, "fetching application jobs")
	}
	freelancers, err := s.store.Profiles().GetByIDs(ctx, uniqueIDs(freelancerIDs...))
	if err != nil {
		return nil, mapRepoError(err, "fetching applicants")
	}

	views := make([]models.ApplicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, models.ApplicationView{Application: a, Job: jobs[a.JobID], Freelancer: freelancers[a.FreelancerID]})
	}
	return views, nil
}
