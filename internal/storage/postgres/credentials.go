package postgres

import (
	"context"
	"strings"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/google/uuid"
)

// CredentialRepo stores local sign-in secrets.
type CredentialRepo struct {
	db Querier
}

var _ storage.CredentialRepository = (*CredentialRepo)(nil)

func (r *CredentialRepo) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}
	query := `
		INSERT INTO credentials (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, email, password_hash, created_at`

	var created models.Credential
	err := r.db.QueryRow(ctx, query, cred.ID, strings.ToLower(cred.Email), cred.PasswordHash).
		Scan(&created.ID, &created.Email, &created.PasswordHash, &created.CreatedAt)
	if err != nil {
		return nil, classifyError("create credential", err)
	}
	return &created, nil
}

func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `SELECT id, email, password_hash, created_at FROM credentials WHERE email = $1`

	var c models.Credential
	err := r.db.QueryRow(ctx, query, strings.ToLower(email)).
		Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, classifyError("get credential", err)
	}
	return &c, nil
}
