package services_test

import (
	"context"
	"fmt"
	"testing"

	"marketplace-api/internal/authz"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/storage/memory"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service to one in-memory store.
type testEnv struct {
	ctx          context.Context
	store        *memory.Store
	profiles     services.ProfileService
	jobs         services.JobService
	applications services.ApplicationService
	payments     services.PaymentService
	dashboard    services.DashboardService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	guard, err := authz.NewGuard()
	require.NoError(t, err)
	store := memory.NewStore()
	return &testEnv{
		ctx:          context.Background(),
		store:        store,
		profiles:     services.NewProfileService(store, guard),
		jobs:         services.NewJobService(store, guard),
		applications: services.NewApplicationService(store, guard),
		payments:     services.NewPaymentService(store),
		dashboard:    services.NewDashboardService(store),
	}
}

// Helper function to create a profile for tests
func (e *testEnv) createProfile(t *testing.T, role models.Role, name string) *models.Profile {
	t.Helper()
	id := uuid.New()
	p, err := e.profiles.CreateProfile(e.ctx, &dto.CreateProfileRequest{
		ID:       id,
		Email:    fmt.Sprintf("%s-%s@test.com", name, id.String()[:8]),
		FullName: name,
		Role:     role,
	})
	require.NoError(t, err, "Failed to create test profile %s", name)
	return p
}

// Helper function to create an open job for tests
func (e *testEnv) createJob(t *testing.T, employer *models.Profile, budget int64, skills ...string) *models.Job {
	t.Helper()
	if len(skills) == 0 {
		skills = []string{"Go"}
	}
	job, err := e.jobs.CreateJob(e.ctx, employer, &dto.CreateJobRequest{
		Title:          "Build an API",
		Description:    "REST backend",
		Budget:         decimal.NewFromInt(budget),
		RequiredSkills: skills,
	})
	require.NoError(t, err, "Failed to create test job for employer %s", employer.ID)
	return job
}

// Helper function to submit an application for tests
func (e *testEnv) apply(t *testing.T, freelancer *models.Profile, job *models.Job, rate int64) *models.Application {
	t.Helper()
	app, err := e.applications.SubmitApplication(e.ctx, freelancer, job.ID, &dto.SubmitApplicationRequest{
		CoverLetter:  "I have done this before.",
		ProposedRate: decimal.NewFromInt(rate),
	})
	require.NoError(t, err, "Failed to submit test application")
	return app
}

func ptrJobStatus(s models.JobStatus) *models.JobStatus { return &s }

func ptrString(s string) *string { return &s }
