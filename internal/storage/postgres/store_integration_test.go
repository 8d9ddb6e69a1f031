package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"marketplace-api/internal/database"
	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/storage/postgres"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestStore connects to TEST_DATABASE_URL, migrates it and truncates every table.
func getTestStore(t *testing.T) (*postgres.Store, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}
	require.NoError(t, database.MigrateUpURL(dsn))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE payments, applications, jobs, profiles, credentials`)
	require.NoError(t, err, "Failed to truncate tables")

	return postgres.NewStore(pool), pool
}

// skipIfBypassesRLS skips policy tests when connected as a role that ignores row-level security.
func skipIfBypassesRLS(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	var bypass bool
	err := pool.QueryRow(context.Background(),
		`SELECT rolsuper OR rolbypassrls FROM pg_roles WHERE rolname = current_user`).Scan(&bypass)
	require.NoError(t, err)
	if bypass {
		t.Skip("test database role bypasses row-level security")
	}
}

func createTestProfile(t *testing.T, ctx context.Context, s storage.Store, role models.Role) *models.Profile {
	t.Helper()
	id := uuid.New()
	p, err := s.Profiles().Create(ctx, &models.Profile{ID: id, Email: id.String() + "@test.com", FullName: "Test", Role: role})
	require.NoError(t, err, "Failed to create test profile")
	return p
}

func createTestJob(t *testing.T, ctx context.Context, s storage.Store, employerID uuid.UUID) *models.Job {
	t.Helper()
	j, err := s.Jobs().Create(ctx, &models.Job{
		EmployerID:     employerID,
		Title:          "Integration job",
		Description:    "desc",
		Budget:         decimal.RequireFromString("500.00"),
		RequiredSkills: []string{"React"},
		Status:         models.JobStatusOpen,
	})
	require.NoError(t, err, "Failed to create test job")
	return j
}

func TestStore_Integration_ProfileRoundTrip(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()

	p := createTestProfile(t, ctx, s, models.RoleFreelancer)
	assert.Equal(t, []string{}, p.Skills)

	skills := []string{"go", "sql"}
	bio := "backend"
	updated, err := s.Profiles().Update(ctx, &dto.UpdateProfileRequest{ID: p.ID, Skills: &skills, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, skills, updated.Skills)
	assert.Equal(t, "backend", updated.Bio)

	_, err = s.Profiles().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Integration_JobConstraints(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()
	employer := createTestProfile(t, ctx, s, models.RoleEmployer)

	_, err := s.Jobs().Create(ctx, &models.Job{EmployerID: employer.ID, Title: "t", Description: "d", Budget: decimal.Zero, RequiredSkills: []string{"x"}, Status: models.JobStatusOpen})
	assert.ErrorIs(t, err, storage.ErrConflict, "budget check constraint")

	_, err = s.Jobs().Create(ctx, &models.Job{EmployerID: uuid.New(), Title: "t", Description: "d", Budget: decimal.NewFromInt(1), RequiredSkills: []string{"x"}, Status: models.JobStatusOpen})
	assert.ErrorIs(t, err, storage.ErrConflict, "employer foreign key")

	job := createTestJob(t, ctx, s, employer.ID)
	assert.True(t, job.Budget.Equal(decimal.NewFromInt(500)))

	moved, err := s.Jobs().UpdateStatus(ctx, job.ID, models.JobStatusOpen, models.JobStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, moved.Status)

	_, err = s.Jobs().UpdateStatus(ctx, job.ID, models.JobStatusOpen, models.JobStatusCancelled)
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestStore_Integration_ConcurrentDuplicateApplications(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()
	employer := createTestProfile(t, ctx, s, models.RoleEmployer)
	freelancer := createTestProfile(t, ctx, s, models.RoleFreelancer)
	job := createTestJob(t, ctx, s, employer.ID)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.WithinTx(ctx, freelancer.ID, func(tx storage.Store) error {
				_, err := tx.Applications().Create(ctx, &models.Application{
					JobID: job.ID, FreelancerID: freelancer.ID, CoverLetter: "me",
					ProposedRate: decimal.NewFromInt(450), Status: models.ApplicationStatusPending,
				})
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)

	ok, dup := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrDuplicate):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
}

func TestStore_Integration_RowLevelSecurity(t *testing.T) {
	s, pool := getTestStore(t)
	skipIfBypassesRLS(t, pool)
	ctx := context.Background()
	employer := createTestProfile(t, ctx, s, models.RoleEmployer)
	intruder := createTestProfile(t, ctx, s, models.RoleEmployer)
	freelancer := createTestProfile(t, ctx, s, models.RoleFreelancer)
	job := createTestJob(t, ctx, s, employer.ID)

	// A freelancer cannot insert an application on someone else's behalf.
	err := s.WithinTx(ctx, intruder.ID, func(tx storage.Store) error {
		_, err := tx.Applications().Create(ctx, &models.Application{
			JobID: job.ID, FreelancerID: freelancer.ID, CoverLetter: "x",
			ProposedRate: decimal.NewFromInt(1), Status: models.ApplicationStatusPending,
		})
		return err
	})
	assert.ErrorIs(t, err, storage.ErrForbidden)

	var app *models.Application
	err = s.WithinTx(ctx, freelancer.ID, func(tx storage.Store) error {
		var err error
		app, err = tx.Applications().Create(ctx, &models.Application{
			JobID: job.ID, FreelancerID: freelancer.ID, CoverLetter: "x",
			ProposedRate: decimal.NewFromInt(1), Status: models.ApplicationStatusPending,
		})
		return err
	})
	require.NoError(t, err)

	// Only the job's employer may update the application; others see no row.
	err = s.WithinTx(ctx, intruder.ID, func(tx storage.Store) error {
		_, err := tx.Applications().UpdateStatus(ctx, app.ID, models.ApplicationStatusPending, models.ApplicationStatusAccepted)
		return err
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.WithinTx(ctx, employer.ID, func(tx storage.Store) error {
		_, err := tx.Applications().UpdateStatus(ctx, app.ID, models.ApplicationStatusPending, models.ApplicationStatusAccepted)
		return err
	})
	assert.NoError(t, err)
}

func TestStore_Integration_Payments(t *testing.T) {
	s, pool := getTestStore(t)
	ctx := context.Background()
	employer := createTestProfile(t, ctx, s, models.RoleEmployer)
	freelancer := createTestProfile(t, ctx, s, models.RoleFreelancer)
	job := createTestJob(t, ctx, s, employer.ID)

	_, err := s.Payments().Create(ctx, &models.Payment{JobID: job.ID, FreelancerID: freelancer.ID, EmployerID: employer.ID, Amount: decimal.RequireFromString("100.50"), Status: models.PaymentStatusCompleted})
	require.NoError(t, err)

	list, err := s.Payments().ListByParty(ctx, freelancer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(decimal.RequireFromString("100.5")))

	// Users cannot create payments.
	skipIfBypassesRLS(t, pool)
	err = s.WithinTx(ctx, employer.ID, func(tx storage.Store) error {
		_, err := tx.Payments().Create(ctx, &models.Payment{JobID: job.ID, FreelancerID: freelancer.ID, EmployerID: employer.ID, Amount: decimal.NewFromInt(1), Status: models.PaymentStatusCompleted})
		return err
	})
	assert.ErrorIs(t, err, storage.ErrForbidden)
}
