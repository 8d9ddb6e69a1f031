package memory

import (
	"context"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
)

type profileRepo struct {
	s *Store
}

func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	defer r.s.lock()()
	data := r.s.st.data

	if _, exists := data.profiles[profile.ID]; exists {
		return nil, fmt.Errorf("profile %s: %w", profile.ID, storage.ErrDuplicate)
	}
	email := normalizeEmail(profile.Email)
	for _, p := range data.profiles {
		if normalizeEmail(p.Email) == email {
			return nil, fmt.Errorf("profile email %s: %w", email, storage.ErrDuplicate)
		}
	}

	p := *profile
	p.Skills = cloneStrings(profile.Skills)
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	data.profiles[p.ID] = p

	out := p
	out.Skills = cloneStrings(p.Skills)
	return &out, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	defer r.s.lock()()
	p, ok := r.s.st.data.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.Skills = cloneStrings(p.Skills)
	return &p, nil
}

func (r *profileRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	defer r.s.lock()()
	result := make(map[uuid.UUID]*models.Profile, len(ids))
	for _, id := range ids {
		if p, ok := r.s.st.data.profiles[id]; ok {
			p.Skills = cloneStrings(p.Skills)
			result[id] = &p
		}
	}
	return result, nil
}

func (r *profileRepo) Update(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	defer r.s.lock()()
	p, ok := r.s.st.data.profiles[req.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	changed := false
	if req.FullName != nil {
		p.FullName = *req.FullName
		changed = true
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
		changed = true
	}
	if req.Skills != nil {
		p.Skills = cloneStrings(*req.Skills)
		changed = true
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
		changed = true
	}
	if changed {
		p.UpdatedAt = r.s.now()
		r.s.st.data.profiles[p.ID] = p
	}

	out := p
	out.Skills = cloneStrings(p.Skills)
	return &out, nil
}
