package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// scanEnumString normalises the driver value of an enum column.
func scanEnumString(value interface{}, typeName string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: value is not string or []byte", typeName)
	}
}

// --- Role Enum ---
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleEmployer   Role = "employer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleFreelancer || r == RoleEmployer
}

// Scan implements the sql.Scanner interface for Role
func (r *Role) Scan(value interface{}) error {
	strVal, err := scanEnumString(value, "Role")
	if err != nil {
		return err
	}
	v := Role(strVal)
	if !v.Valid() {
		return fmt.Errorf("invalid Role value: %s", strVal)
	}
	*r = v
	return nil
}

// Value implements the driver.Valuer interface for Role
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// --- Job Status Enum ---
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// Scan implements the sql.Scanner interface for JobStatus
func (s *JobStatus) Scan(value interface{}) error {
	strVal, err := scanEnumString(value, "JobStatus")
	if err != nil {
		return err
	}
	v := JobStatus(strVal)
	if !v.Valid() {
		return fmt.Errorf("invalid JobStatus value: %s", strVal)
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for JobStatus
func (s JobStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Application Status Enum ---
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the application has been decided.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value interface{}) error {
	strVal, err := scanEnumString(value, "ApplicationStatus")
	if err != nil {
		return err
	}
	v := ApplicationStatus(strVal)
	if !v.Valid() {
		return fmt.Errorf("invalid ApplicationStatus value: %s", strVal)
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Payment Status Enum ---
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for PaymentStatus
func (s *PaymentStatus) Scan(value interface{}) error {
	strVal, err := scanEnumString(value, "PaymentStatus")
	if err != nil {
		return err
	}
	v := PaymentStatus(strVal)
	if !v.Valid() {
		return fmt.Errorf("invalid PaymentStatus value: %s", strVal)
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for PaymentStatus
func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Profile is an authenticated user with a role fixed at creation.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"` // Same ID as the auth provider identity
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	Bio       string    `json:"bio" db:"bio"`
	Skills    []string  `json:"skills" db:"skills"` // Only meaningful for freelancers
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Job is a posting owned by an employer profile.
type Job struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	EmployerID     uuid.UUID       `json:"employer_id" db:"employer_id"`
	Title          string          `json:"title" db:"title"`
	Description    string          `json:"description" db:"description"`
	Budget         decimal.Decimal `json:"budget" db:"budget"`
	RequiredSkills []string        `json:"required_skills" db:"required_skills"`
	Status         JobStatus       `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// Application is a freelancer's bid on a job.
type Application struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	JobID        uuid.UUID         `json:"job_id" db:"job_id"`
	FreelancerID uuid.UUID         `json:"freelancer_id" db:"freelancer_id"`
	CoverLetter  string            `json:"cover_letter" db:"cover_letter"`
	ProposedRate decimal.Decimal   `json:"proposed_rate" db:"proposed_rate"`
	Status       ApplicationStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// Payment is an immutable settlement record between the parties of a job.
type Payment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	JobID        uuid.UUID       `json:"job_id" db:"job_id"`
	FreelancerID uuid.UUID       `json:"freelancer_id" db:"freelancer_id"`
	EmployerID   uuid.UUID       `json:"employer_id" db:"employer_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Status       PaymentStatus   `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Credential is a locally stored sign-in secret for the local auth provider.
type Credential struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// --- Read views, assembled on demand from foreign keys ---

// JobView is a job joined with its employer profile.
type JobView struct {
	Job
	Employer *Profile `json:"employer,omitempty"`
}

// ApplicationView is an application joined with its job and freelancer.
type ApplicationView struct {
	Application
	Job        *Job     `json:"job,omitempty"`
	Freelancer *Profile `json:"freelancer,omitempty"`
}

// PaymentView is a payment joined with its job and both parties.
type PaymentView struct {
	Payment
	Job        *Job     `json:"job,omitempty"`
	Freelancer *Profile `json:"freelancer,omitempty"`
	Employer   *Profile `json:"employer,omitempty"`
}
