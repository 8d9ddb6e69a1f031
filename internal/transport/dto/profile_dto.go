package dto

import (
	"marketplace-api/internal/models"
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest defines the mutable profile fields. Nil means "leave unchanged".
type UpdateProfileRequest struct {
	ID        uuid.UUID    `json:"-"` // From path
	FullName  *string      `json:"full_name" validate:"omitempty,min=1,max=200"`
	Bio       *string      `json:"bio" validate:"omitempty,max=2000"`
	Skills    *[]string    `json:"skills" validate:"omitempty,max=50,dive,max=60"`
	AvatarURL *string      `json:"avatar_url" validate:"omitempty,max=500"`
	Role      *models.Role `json:"role,omitempty"` // Accepted only to be refused: roles never change
}

// ProfileResponse is the full profile of a user.
type ProfileResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	Bio       string      `json:"bio"`
	Skills    []string    `json:"skills"`
	AvatarURL string      `json:"avatar_url"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ProfileSummary is the public part of a profile embedded in other resources.
type ProfileSummary struct {
	ID        uuid.UUID   `json:"id"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	AvatarURL string      `json:"avatar_url,omitempty"`
	Skills    []string    `json:"skills,omitempty"`
}

// CreateProfileRequest creates the profile of an authenticated identity.
type CreateProfileRequest struct {
	ID       uuid.UUID   `json:"-"` // Identity ID from the token
	Email    string      `json:"-"` // Identity email from the token
	FullName string      `json:"full_name" validate:"required,max=200"`
	Role     models.Role `json:"role" validate:"required,oneof=freelancer employer"`
}
