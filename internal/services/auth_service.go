package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/transport/dto"

	log "github.com/sirupsen/logrus"
)

type authService struct {
	provider auth.Provider
	verifier *auth.Verifier
	profiles ProfileService
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(provider auth.Provider, verifier *auth.Verifier, profiles ProfileService) AuthService {
	return &authService{provider: provider, verifier: verifier, profiles: profiles}
}

// mapAuthError maps identity provider errors to service errors.
func mapAuthError(err error, operation string) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, auth.ErrEmailTaken):
		return fmt.Errorf("%w: email already registered", ErrConflict)
	case errors.Is(err, auth.ErrRejected):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case errors.Is(err, auth.ErrInvalidToken):
		return err
	}
	log.WithFields(log.Fields{"operation": operation, "error": err}).Error("Identity provider unavailable")
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, operation)
}

// SignUp registers the identity with the provider and creates its profile with the chosen role.
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*auth.Session, *models.Profile, error) {
	// Validate the profile part first so a bad role never creates an orphan identity.
	if strings.TrimSpace(req.FullName) == "" {
		return nil, nil, validationError("full name is required")
	}
	if !req.Role.Valid() {
		return nil, nil, validationError("role must be freelancer or employer")
	}

	session, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, mapAuthError(err, "sign up")
	}

	profile, err := s.profiles.CreateProfile(ctx, &dto.CreateProfileRequest{
		ID:       session.User.ID,
		Email:    session.User.Email,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		log.WithFields(log.Fields{"identity": session.User.ID, "error": err}).Error("SignUp: identity created but profile was not")
		return nil, nil, err
	}
	return session, profile, nil
}

func (s *authService) SignIn(ctx context.Context, req *dto.SignInRequest) (*auth.Session, *models.Profile, error) {
	session, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, mapAuthError(err, "sign in")
	}

	profile, err := s.profiles.GetProfile(ctx, session.User.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return session, nil, nil
		}
		return nil, nil, err
	}
	return session, profile, nil
}

// SignOut ends the provider session and revokes the token for the rest of its lifetime.
func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return mapAuthError(err, "sign out")
	}
	if err := s.verifier.Revoke(ctx, accessToken); err != nil {
		return mapAuthError(err, "revoke token")
	}
	return nil
}
