package services_test

import (
	"testing"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateJob(t *testing.T) {
	env := setupServices(t)
	employer := env.createProfile(t, models.RoleEmployer, "employer")
	freelancer := env.createProfile(t, models.RoleFreelancer, "freelancer")

	tests := []struct {
		name        string
		actor       *models.Profile
		req         *dto.CreateJobRequest
		expectedErr error
	}{
		{
			name:  "Success",
			actor: employer,
			req:   &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.NewFromInt(500), RequiredSkills: []string{"React"}},
		},
		{
			name:        "Freelancer cannot post",
			actor:       freelancer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.NewFromInt(500), RequiredSkills: []string{"React"}},
			expectedErr: services.ErrForbidden,
		},
		{
			name:        "Zero budget",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.Zero, RequiredSkills: []string{"React"}},
			expectedErr: services.ErrValidation,
		},
		{
			name:        "Negative budget",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.NewFromInt(-1), RequiredSkills: []string{"React"}},
			expectedErr: services.ErrValidation,
		},
		{
			name:        "Sub-cent budget",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.RequireFromString("0.001"), RequiredSkills: []string{"React"}},
			expectedErr: services.ErrValidation,
		},
		{
			name:        "Budget too large",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.New(1, 14), RequiredSkills: []string{"React"}},
			expectedErr: services.ErrValidation,
		},
		{
			name:        "No skills",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.NewFromInt(500)},
			expectedErr: services.ErrValidation,
		},
		{
			name:        "Only blank skills",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "Landing page", Budget: decimal.NewFromInt(500), RequiredSkills: []string{" ", ""}},
			expectedErr: services.ErrValidation,
		},
		{
			name:        "Blank title",
			actor:       employer,
			req:         &dto.CreateJobRequest{Title: "  ", Budget: decimal.NewFromInt(500), RequiredSkills: []string{"React"}},
			expectedErr: services.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := env.jobs.CreateJob(env.ctx, tt.actor, tt.req)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, job)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusOpen, job.Status)
			assert.Equal(t, tt.actor.ID, job.EmployerID)
			assert.Equal(t, []string{"React"}, job.RequiredSkills)
		})
	}
}

func TestJobService_TransitionJob(t *testing.T) {
	env := setupServices(t)
	employer := env.createProfile(t, models.RoleEmployer, "employer")
	other := env.createProfile(t, models.RoleEmployer, "other")

	job := env.createJob(t, employer, 500)

	_, err := env.jobs.TransitionJob(env.ctx, other, job.ID, models.JobStatusInProgress)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = env.jobs.TransitionJob(env.ctx, employer, job.ID, models.JobStatusCompleted)
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "open cannot jump to completed")

	_, err = env.jobs.TransitionJob(env.ctx, employer, job.ID, "archived")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = env.jobs.TransitionJob(env.ctx, employer, uuid.New(), models.JobStatusInProgress)
	assert.ErrorIs(t, err, services.ErrNotFound)

	updated, err := env.jobs.TransitionJob(env.ctx, employer, job.ID, models.JobStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, updated.Status)

	updated, err = env.jobs.TransitionJob(env.ctx, employer, job.ID, models.JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, updated.Status)

	for _, to := range []models.JobStatus{models.JobStatusOpen, models.JobStatusInProgress, models.JobStatusCancelled} {
		_, err = env.jobs.TransitionJob(env.ctx, employer, job.ID, to)
		assert.ErrorIs(t, err, services.ErrInvalidTransition, "completed is terminal (to %s)", to)
	}
}

func TestJobService_ListJobs(t *testing.T) {
	env := setupServices(t)
	employer := env.createProfile(t, models.RoleEmployer, "employer")
	other := env.createProfile(t, models.RoleEmployer, "other")
	freelancer := env.createProfile(t, models.RoleFreelancer, "freelancer")

	first := env.createJob(t, employer, 100, "Go")
	second := env.createJob(t, employer, 200, "React")
	foreign := env.createJob(t, other, 300, "Go")
	_, err := env.jobs.TransitionJob(env.ctx, employer, first.ID, models.JobStatusCancelled)
	require.NoError(t, err)

	t.Run("Employer sees own jobs newest first", func(t *testing.T) {
		views, err := env.jobs.ListJobs(env.ctx, employer, &dto.ListJobsRequest{})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, second.ID, views[0].ID)
		assert.Equal(t, first.ID, views[1].ID)
		require.NotNil(t, views[0].Employer)
		assert.Equal(t, employer.FullName, views[0].Employer.FullName)
	})

	t.Run("Employer filters by status", func(t *testing.T) {
		views, err := env.jobs.ListJobs(env.ctx, employer, &dto.ListJobsRequest{Status: ptrJobStatus(models.JobStatusCancelled)})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, first.ID, views[0].ID)
	})

	t.Run("Freelancer browses open jobs of everyone", func(t *testing.T) {
		views, err := env.jobs.ListJobs(env.ctx, freelancer, &dto.ListJobsRequest{})
		require.NoError(t, err)
		ids := []uuid.UUID{}
		for _, v := range views {
			ids = append(ids, v.ID)
		}
		assert.ElementsMatch(t, []uuid.UUID{second.ID, foreign.ID}, ids)
	})

	t.Run("Freelancer filters by skill", func(t *testing.T) {
		views, err := env.jobs.ListJobs(env.ctx, freelancer, &dto.ListJobsRequest{Skill: "React"})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, second.ID, views[0].ID)
	})

	t.Run("Freelancer cannot browse closed jobs", func(t *testing.T) {
		_, err := env.jobs.ListJobs(env.ctx, freelancer, &dto.ListJobsRequest{Status: ptrJobStatus(models.JobStatusCancelled)})
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("Paging", func(t *testing.T) {
		views, err := env.jobs.ListJobs(env.ctx, employer, &dto.ListJobsRequest{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, first.ID, views[0].ID)

		_, err = env.jobs.ListJobs(env.ctx, employer, &dto.ListJobsRequest{Limit: 1000})
		assert.ErrorIs(t, err, services.ErrValidation)
	})
}

func TestJobService_GetJobAndHasApplied(t *testing.T) {
	env := setupServices(t)
	employer := env.createProfile(t, models.RoleEmployer, "employer")
	freelancer := env.createProfile(t, models.RoleFreelancer, "freelancer")
	job := env.createJob(t, employer, 500)

	view, err := env.jobs.GetJob(env.ctx, freelancer, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, view.ID)
	require.NotNil(t, view.Employer)
	assert.Equal(t, employer.ID, view.Employer.ID)

	_, err = env.jobs.GetJob(env.ctx, employer, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = env.jobs.GetJob(env.ctx, nil, job.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	app, err := env.jobs.HasApplied(env.ctx, freelancer, job.ID)
	require.NoError(t, err)
	assert.Nil(t, app)

	submitted := env.apply(t, freelancer, job, 450)
	app, err = env.jobs.HasApplied(env.ctx, freelancer, job.ID)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, submitted.ID, app.ID)

	_, err = env.jobs.HasApplied(env.ctx, employer, job.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = env.jobs.HasApplied(env.ctx, freelancer, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}
