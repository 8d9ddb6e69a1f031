package memory

import (
	"context"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/google/uuid"
)

type credentialRepo struct {
	s *Store
}

func (r *credentialRepo) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	defer r.s.lock()()
	email := normalizeEmail(cred.Email)
	if _, exists := r.s.st.data.credentials[email]; exists {
		return nil, fmt.Errorf("credential %s: %w", email, storage.ErrDuplicate)
	}
	c := *cred
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Email = email
	c.CreatedAt = r.s.now()
	r.s.st.data.credentials[email] = c
	return &c, nil
}

func (r *credentialRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	defer r.s.lock()()
	c, ok := r.s.st.data.credentials[normalizeEmail(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}
