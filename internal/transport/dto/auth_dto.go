package dto

import "marketplace-api/internal/models"

// SignUpRequest creates an identity with the auth provider and its profile.
type SignUpRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=72"` // bcrypt ignores bytes past 72
	FullName string      `json:"full_name" validate:"required,max=200"`
	Role     models.Role `json:"role" validate:"required,oneof=freelancer employer"`
}

// SignInRequest defines the structure for password sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by sign-up and sign-in.
type SessionResponse struct {
	AccessToken string           `json:"access_token,omitempty"` // Empty when the provider requires email confirmation
	TokenType   string           `json:"token_type,omitempty"`
	ExpiresIn   int              `json:"expires_in,omitempty"` // Seconds
	Profile     *ProfileResponse `json:"profile,omitempty"`
}
