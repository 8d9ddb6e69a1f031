package dto

import (
	"marketplace-api/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest is used by the administrative payment command.
type RecordPaymentRequest struct {
	JobID        uuid.UUID            `validate:"required"`
	FreelancerID uuid.UUID            `validate:"required"`
	EmployerID   uuid.UUID            `validate:"required"`
	Amount       decimal.Decimal      // Must be positive, checked by the service
	Status       models.PaymentStatus `validate:"required,oneof=pending completed cancelled"`
}

type PaymentResponse struct {
	ID           uuid.UUID            `json:"id"`
	JobID        uuid.UUID            `json:"job_id"`
	FreelancerID uuid.UUID            `json:"freelancer_id"`
	EmployerID   uuid.UUID            `json:"employer_id"`
	Amount       decimal.Decimal      `json:"amount"`
	Status       models.PaymentStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	JobTitle     string               `json:"job_title,omitempty"`
	Freelancer   *ProfileSummary      `json:"freelancer,omitempty"`
	Employer     *ProfileSummary      `json:"employer,omitempty"`
}

// ListPaymentsResponse wraps the caller's payments with the completed total.
type ListPaymentsResponse struct {
	Payments       []PaymentResponse `json:"payments"`
	TotalCompleted decimal.Decimal   `json:"total_completed"`
}
