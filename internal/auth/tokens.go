package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Claims is the token payload. Supabase access tokens carry the same sub/email/exp shape.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access tokens for the local provider.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for identity and its lifetime.
func (i *TokenIssuer) Issue(identity Identity) (string, time.Duration, error) {
	now := i.now()
	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, i.ttl, nil
}

// Verifier validates HS256 bearer tokens and consults the revocation list.
type Verifier struct {
	secret      []byte
	revocations RevocationStore
}

func NewVerifier(secret string, revocations RevocationStore) *Verifier {
	return &Verifier{secret: []byte(secret), revocations: revocations}
}

func (v *Verifier) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify returns the identity carried by a valid, unrevoked token.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}

	revoked, err := v.revocations.IsRevoked(ctx, revocationKey(claims, tokenString))
	if err != nil {
		log.WithFields(log.Fields{"user_id": userID, "error": err}).Error("auth: revocation lookup failed")
		return nil, fmt.Errorf("%w: revocation lookup: %v", ErrUnavailable, err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", ErrInvalidToken)
	}

	return &Identity{ID: userID, Email: claims.Email}, nil
}

// Revoke blocks tokenString until it would have expired anyway. Invalid tokens need no revocation.
func (v *Verifier) Revoke(ctx context.Context, tokenString string) error {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := v.revocations.Revoke(ctx, revocationKey(claims, tokenString), ttl); err != nil {
		return fmt.Errorf("%w: revoke: %v", ErrUnavailable, err)
	}
	return nil
}

// revocationKey prefers the token id; Supabase tokens without jti are keyed by their hash.
func revocationKey(claims *Claims, tokenString string) string {
	if claims.ID != "" {
		return "jti:" + claims.ID
	}
	sum := sha256.Sum256([]byte(tokenString))
	return "sha:" + hex.EncodeToString(sum[:])
}
