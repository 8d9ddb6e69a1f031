package handlers

import (
	"context"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockJobService is a mock type for the services.JobService interface
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, actor *models.Profile, req *dto.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.JobView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobView), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, actor *models.Profile, req *dto.ListJobsRequest) ([]models.JobView, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JobView), args.Error(1)
}

func (m *MockJobService) TransitionJob(ctx context.Context, actor *models.Profile, jobID uuid.UUID, to models.JobStatus) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) HasApplied(ctx context.Context, actor *models.Profile, jobID uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, actor, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

// MockApplicationService is a mock type for the services.ApplicationService interface
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) SubmitApplication(ctx context.Context, actor *models.Profile, jobID uuid.UUID, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	args := m.Called(ctx, actor, jobID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) DecideApplication(ctx context.Context, actor *models.Profile, applicationID uuid.UUID, decision models.ApplicationStatus) (*models.Application, error) {
	args := m.Called(ctx, actor, applicationID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) GetApplication(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.ApplicationView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApplicationView), args.Error(1)
}

func (m *MockApplicationService) ListApplicationsForFreelancer(ctx context.Context, actor *models.Profile, req *dto.ListApplicationsRequest) ([]models.ApplicationView, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApplicationView), args.Error(1)
}

func (m *MockApplicationService) ListApplicationsForJob(ctx context.Context, actor *models.Profile, req *dto.ListApplicationsRequest) ([]models.ApplicationView, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApplicationView), args.Error(1)
}

// MockPaymentService is a mock type for the services.PaymentService interface
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ListPayments(ctx context.Context, actor *models.Profile) ([]models.PaymentView, decimal.Decimal, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).([]models.PaymentView), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*models.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

// MockAuthService is a mock type for the services.AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*auth.Session, *models.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*auth.Session), args.Get(1).(*models.Profile), args.Error(2)
}

func (m *MockAuthService) SignIn(ctx context.Context, req *dto.SignInRequest) (*auth.Session, *models.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	profile, _ := args.Get(1).(*models.Profile)
	return args.Get(0).(*auth.Session), profile, args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

// Ensure mocks implement the interfaces
var _ services.JobService = (*MockJobService)(nil)
var _ services.ApplicationService = (*MockApplicationService)(nil)
var _ services.PaymentService = (*MockPaymentService)(nil)
var _ services.AuthService = (*MockAuthService)(nil)
