package dto

import (
	"marketplace-api/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitApplicationRequest is the body of a freelancer's bid. The job comes from the path.
type SubmitApplicationRequest struct {
	CoverLetter  string          `json:"cover_letter" validate:"required,max=10000"`
	ProposedRate decimal.Decimal `json:"proposed_rate"` // Must be positive, checked by the service
}

// DecideApplicationRequest carries the employer's decision on a pending application.
type DecideApplicationRequest struct {
	Decision models.ApplicationStatus `json:"decision" validate:"required,oneof=accepted rejected"`
}

// ListApplicationsRequest defines parameters for listing applications by job or by freelancer.
type ListApplicationsRequest struct {
	JobID        uuid.UUID `form:"-" json:"-"` // From path
	FreelancerID uuid.UUID `form:"-" json:"-"` // Set from the caller
	Limit        int       `form:"limit,default=20" validate:"omitempty,gte=0,lte=100"`
	Offset       int       `form:"offset,default=0" validate:"omitempty,gte=0"`
}

type ApplicationResponse struct {
	ID           uuid.UUID                `json:"id"`
	JobID        uuid.UUID                `json:"job_id"`
	FreelancerID uuid.UUID                `json:"freelancer_id"`
	CoverLetter  string                   `json:"cover_letter"`
	ProposedRate decimal.Decimal          `json:"proposed_rate"`
	Status       models.ApplicationStatus `json:"status"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	Job          *JobResponse             `json:"job,omitempty"`
	Freelancer   *ProfileSummary          `json:"freelancer,omitempty"`
}
