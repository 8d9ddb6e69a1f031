package cmd

import (
	"encoding/json"
	"fmt"

	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/app"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Administer the payment ledger",
}

var paymentFlags struct {
	job, freelancer, employer, amount, status string
}

var paymentRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a payment for an accepted engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parsePaymentFlags()
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		application, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		_, err = recordPayment(cmd, application.Payments, req)
		return err
	},
}

func parsePaymentFlags() (*dto.RecordPaymentRequest, error) {
	jobID, err := uuid.Parse(paymentFlags.job)
	if err != nil {
		return nil, fmt.Errorf("--job: %w", err)
	}
	freelancerID, err := uuid.Parse(paymentFlags.freelancer)
	if err != nil {
		return nil, fmt.Errorf("--freelancer: %w", err)
	}
	employerID, err := uuid.Parse(paymentFlags.employer)
	if err != nil {
		return nil, fmt.Errorf("--employer: %w", err)
	}
	amount, err := decimal.NewFromString(paymentFlags.amount)
	if err != nil {
		return nil, fmt.Errorf("--amount: %w", err)
	}
	return &dto.RecordPaymentRequest{
		JobID:        jobID,
		FreelancerID: freelancerID,
		EmployerID:   employerID,
		Amount:       amount,
		Status:       models.PaymentStatus(paymentFlags.status),
	}, nil
}

func recordPayment(cmd *cobra.Command, payments services.PaymentService, req *dto.RecordPaymentRequest) (*models.Payment, error) {
	payment, err := payments.RecordPayment(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("record payment (%s): %w", services.KindOf(err), err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(handlers.MapPaymentViewToResponse(&models.PaymentView{Payment: *payment})); err != nil {
		return nil, fmt.Errorf("print payment: %w", err)
	}
	return payment, nil
}

func init() {
	f := paymentRecordCmd.Flags()
	f.StringVar(&paymentFlags.job, "job", "", "job ID")
	f.StringVar(&paymentFlags.freelancer, "freelancer", "", "freelancer profile ID")
	f.StringVar(&paymentFlags.employer, "employer", "", "employer profile ID")
	f.StringVar(&paymentFlags.amount, "amount", "", "amount, e.g. 250.00")
	f.StringVar(&paymentFlags.status, "status", string(models.PaymentStatusCompleted), "pending, completed or cancelled")
	for _, name := range []string{"job", "freelancer", "employer", "amount"} {
		_ = paymentRecordCmd.MarkFlagRequired(name)
	}
	paymentCmd.AddCommand(paymentRecordCmd)
}
