// internal/transport/dto/job_dto.go
package dto

import (
	"marketplace-api/internal/models" // Import models for enums
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Job Request DTOs ---

// CreateJobRequest defines the structure for creating a new job posting.
type CreateJobRequest struct {
	Title          string          `json:"title" validate:"required,max=200"`
	Description    string          `json:"description" validate:"required,max=10000"`
	Budget         decimal.Decimal `json:"budget"` // Must be positive, checked by the service
	RequiredSkills []string        `json:"required_skills" validate:"required,min=1,max=50,dive,required,max=60"`
}

// ListJobsRequest defines filters for listing jobs.
// EmployerID is set by the service from the caller, never from the query string.
type ListJobsRequest struct {
	EmployerID *uuid.UUID        `form:"-" json:"-"`
	Status     *models.JobStatus `form:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
	Skill      string            `form:"skill" validate:"omitempty,max=60"`
	Limit      int               `form:"limit,default=20" validate:"omitempty,gte=0,lte=100"`
	Offset     int               `form:"offset,default=0" validate:"omitempty,gte=0"`
}

// UpdateJobStatusRequest defines the structure for moving a job through its lifecycle.
type UpdateJobStatusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,oneof=open in_progress completed cancelled"`
}

// --- Job Response DTOs ---

// JobResponse defines the standard job data returned to the client.
type JobResponse struct {
	ID             uuid.UUID        `json:"id"`
	EmployerID     uuid.UUID        `json:"employer_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Budget         decimal.Decimal  `json:"budget"`
	RequiredSkills []string         `json:"required_skills"`
	Status         models.JobStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Employer       *ProfileSummary  `json:"employer,omitempty"`
}

// HasAppliedResponse tells a freelancer whether they already bid on a job.
type HasAppliedResponse struct {
	Applied       bool                      `json:"applied"`
	ApplicationID *uuid.UUID                `json:"application_id,omitempty"`
	Status        *models.ApplicationStatus `json:"status,omitempty"`
}
