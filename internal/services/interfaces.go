package services

import (
	"context"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileService defines the interface for profile business logic.
type ProfileService interface {
	CreateProfile(ctx context.Context, req *dto.CreateProfileRequest) (*models.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, actor *models.Profile, req *dto.UpdateProfileRequest) (*models.Profile, error)
}

// JobService defines the interface for job-related business logic.
type JobService interface {
	CreateJob(ctx context.Context, actor *models.Profile, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.JobView, error)
	ListJobs(ctx context.Context, actor *models.Profile, req *dto.ListJobsRequest) ([]models.JobView, error)
	TransitionJob(ctx context.Context, actor *models.Profile, jobID uuid.UUID, to models.JobStatus) (*models.Job, error)
	// HasApplied returns the caller's application to the job, or nil when there is none.
	HasApplied(ctx context.Context, actor *models.Profile, jobID uuid.UUID) (*models.Application, error)
}

// ApplicationService defines the interface for application business logic.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, actor *models.Profile, jobID uuid.UUID, req *dto.SubmitApplicationRequest) (*models.Application, error)
	DecideApplication(ctx context.Context, actor *models.Profile, applicationID uuid.UUID, decision models.ApplicationStatus) (*models.Application, error)
	GetApplication(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.ApplicationView, error)
	ListApplicationsForFreelancer(ctx context.Context, actor *models.Profile, req *dto.ListApplicationsRequest) ([]models.ApplicationView, error)
	ListApplicationsForJob(ctx context.Context, actor *models.Profile, req *dto.ListApplicationsRequest) ([]models.ApplicationView, error)
}

// PaymentService defines the interface for the payment ledger.
type PaymentService interface {
	// ListPayments returns the caller's payments with the total of the completed ones.
	ListPayments(ctx context.Context, actor *models.Profile) ([]models.PaymentView, decimal.Decimal, error)
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*models.Payment, error)
}

// DashboardService defines the interface for the role-specific dashboard counters.
type DashboardService interface {
	GetDashboard(ctx context.Context, actor *models.Profile) (*dto.DashboardResponse, error)
}

// AuthService defines the interface for sign-up, sign-in and sign-out.
type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*auth.Session, *models.Profile, error)
	// SignIn returns a nil profile when the identity has not created one yet.
	SignIn(ctx context.Context, req *dto.SignInRequest) (*auth.Session, *models.Profile, error)
	SignOut(ctx context.Context, accessToken string) error
}
