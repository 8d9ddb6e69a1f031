package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider keeps bcrypt password hashes in the credentials table and issues its own tokens.
type LocalProvider struct {
	credentials storage.CredentialRepository
	issuer      *TokenIssuer
}

var _ Provider = (*LocalProvider)(nil)

func NewLocalProvider(credentials storage.CredentialRepository, issuer *TokenIssuer) *LocalProvider {
	return &LocalProvider{credentials: credentials, issuer: issuer}
}

func (p *LocalProvider) session(cred *models.Credential) (*Session, error) {
	identity := Identity{ID: cred.ID, Email: cred.Email}
	token, ttl, err := p.issuer.Issue(identity)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, TokenType: "bearer", ExpiresIn: int(ttl.Seconds()), User: identity}, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// Passwords longer than 72 bytes end up here.
		return nil, fmt.Errorf("%w: %v", ErrRejected, err)
	}

	cred, err := p.credentials.Create(ctx, &models.Credential{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		log.Printf("LocalProvider.SignUp: Error storing credential: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p.session(cred)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	cred, err := p.credentials.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p.session(cred)
}

// SignOut has nothing to end server-side; the token itself is revoked by the Verifier.
func (p *LocalProvider) SignOut(ctx context.Context, accessToken string) error {
	return nil
}
