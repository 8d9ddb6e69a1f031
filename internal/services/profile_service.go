package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/authz"
	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type profileService struct {
	store storage.Store
	guard *authz.Guard
}

// NewProfileService creates a new instance of ProfileService.
func NewProfileService(store storage.Store, guard *authz.Guard) ProfileService {
	return &profileService{store: store, guard: guard}
}

// CreateProfile creates the profile of a freshly signed-up identity. The role is fixed from here on.
func (s *profileService) CreateProfile(ctx context.Context, req *dto.CreateProfileRequest) (*models.Profile, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, validationError("full name is required")
	}
	if !req.Role.Valid() {
		return nil, validationError("role must be freelancer or employer")
	}
	if req.ID == uuid.Nil || strings.TrimSpace(req.Email) == "" {
		return nil, validationError("identity is required")
	}

	var created *models.Profile
	err := s.store.WithinTx(ctx, req.ID, func(tx storage.Store) error {
		var err error
		created, err = tx.Profiles().Create(ctx, &models.Profile{
			ID:       req.ID,
			Email:    strings.TrimSpace(req.Email),
			FullName: fullName,
			Role:     req.Role,
			Skills:   []string{},
		})
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, fmt.Errorf("%w: profile already exists", ErrConflict)
		}
		return nil, mapRepoError(err, "creating profile")
	}

	log.Printf("CreateProfile: Profile %s created with role %s", created.ID, created.Role)
	return created, nil
}

func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.store.Profiles().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching profile %s", id))
	}
	return p, nil
}

// UpdateProfile applies the caller's edits to their own profile.
func (s *profileService) UpdateProfile(ctx context.Context, actor *models.Profile, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	if err := s.guard.CanUpdateProfile(actor, req.ID, req.Role); err != nil {
		log.Printf("UpdateProfile: Forbidden attempt by %s on profile %s", actor.ID, req.ID)
		return nil, guardError(err)
	}

	update := dto.UpdateProfileRequest{ID: req.ID, Bio: req.Bio, AvatarURL: req.AvatarURL}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, validationError("full name must not be empty")
		}
		update.FullName = &name
	}
	if req.Skills != nil {
		skills := normalizeSkills(*req.Skills)
		if actor.Role != models.RoleFreelancer && len(skills) > 0 {
			return nil, validationError("only freelancers list skills")
		}
		update.Skills = &skills
	}

	var updated *models.Profile
	err := s.store.WithinTx(ctx, actor.ID, func(tx storage.Store) error {
		var err error
		updated, err = tx.Profiles().Update(ctx, &update)
		return err
	})
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("updating profile %s", req.ID))
	}
	return updated, nil
}
