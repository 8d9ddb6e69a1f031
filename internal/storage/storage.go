package storage

import (
	"context"

	"marketplace-api/internal/models"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) // Missing IDs are simply absent
	Update(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error)    // Never touches role
}

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Job, error)
	List(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error) // Newest first
	// UpdateStatus moves the job from -> to atomically; ErrConflict if it is no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.JobStatus) (*models.Job, error)
	CountByEmployer(ctx context.Context, employerID uuid.UUID) (int, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	// Create returns ErrDuplicate when the (job, freelancer) pair already exists.
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Application, error)
	ListByFreelancer(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.Application, error)
	ListByJob(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.Application, error)
	// UpdateStatus moves the application from -> to atomically; ErrConflict if it is no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ApplicationStatus) (*models.Application, error)
	CountByFreelancer(ctx context.Context, freelancerID uuid.UUID, status *models.ApplicationStatus) (int, error)
	CountByEmployer(ctx context.Context, employerID uuid.UUID) (int, error) // Applications received on the employer's jobs
}

// PaymentRepository defines the interface for payment data operations. Payments are append-only.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	// ListByParty returns payments where profileID is the employer or the freelancer, newest first.
	ListByParty(ctx context.Context, profileID uuid.UUID) ([]models.Payment, error)
}

// CredentialRepository stores password hashes for the local auth provider.
type CredentialRepository interface {
	Create(ctx context.Context, cred *models.Credential) (*models.Credential, error)
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
}

// Store groups the repositories of one backend.
type Store interface {
	Profiles() ProfileRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	Payments() PaymentRepository
	Credentials() CredentialRepository

	// WithinTx runs fn against a transaction-scoped Store. actorID (uuid.Nil for none) is
	// exposed to row-level security policies for the duration of the transaction.
	WithinTx(ctx context.Context, actorID uuid.UUID, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close()
}
