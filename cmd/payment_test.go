package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"marketplace-api/internal/authz"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/storage/memory"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentFlags(t *testing.T) {
	job, freelancer, employer := uuid.New(), uuid.New(), uuid.New()
	paymentFlags.job = job.String()
	paymentFlags.freelancer = freelancer.String()
	paymentFlags.employer = employer.String()
	paymentFlags.amount = "250.50"
	paymentFlags.status = "pending"

	req, err := parsePaymentFlags()
	require.NoError(t, err)
	assert.Equal(t, job, req.JobID)
	assert.Equal(t, "250.5", req.Amount.String())
	assert.Equal(t, models.PaymentStatusPending, req.Status)

	paymentFlags.amount = "lots"
	_, err = parsePaymentFlags()
	assert.ErrorContains(t, err, "--amount")

	paymentFlags.amount = "1"
	paymentFlags.job = "nope"
	_, err = parsePaymentFlags()
	assert.ErrorContains(t, err, "--job")
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	guard, err := authz.NewGuard()
	require.NoError(t, err)
	store := memory.NewStore()
	profiles := services.NewProfileService(store, guard)
	jobs := services.NewJobService(store, guard)
	applications := services.NewApplicationService(store, guard)
	payments := services.NewPaymentService(store)

	employer, err := profiles.CreateProfile(ctx, &dto.CreateProfileRequest{ID: uuid.New(), Email: "e@test.com", FullName: "E", Role: models.RoleEmployer})
	require.NoError(t, err)
	freelancer, err := profiles.CreateProfile(ctx, &dto.CreateProfileRequest{ID: uuid.New(), Email: "f@test.com", FullName: "F", Role: models.RoleFreelancer})
	require.NoError(t, err)
	job, err := jobs.CreateJob(ctx, employer, &dto.CreateJobRequest{Title: "T", Budget: decimal.NewFromInt(100), RequiredSkills: []string{"Go"}})
	require.NoError(t, err)
	app, err := applications.SubmitApplication(ctx, freelancer, job.ID, &dto.SubmitApplicationRequest{CoverLetter: "Hi", ProposedRate: decimal.NewFromInt(90)})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(ctx)

	req := &dto.RecordPaymentRequest{JobID: job.ID, FreelancerID: freelancer.ID, EmployerID: employer.ID, Amount: decimal.NewFromInt(90), Status: models.PaymentStatusCompleted}
	_, err = recordPayment(cmd, payments, req)
	assert.ErrorContains(t, err, "validation")

	_, err = applications.DecideApplication(ctx, employer, app.ID, models.ApplicationStatusAccepted)
	require.NoError(t, err)

	payment, err := recordPayment(cmd, payments, req)
	require.NoError(t, err)

	var printed dto.PaymentResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, payment.ID, printed.ID)
	assert.Equal(t, job.ID, printed.JobID)
	assert.True(t, decimal.NewFromInt(90).Equal(printed.Amount))
	assert.Equal(t, models.PaymentStatusCompleted, printed.Status)
}
