// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	authorizationHeader = "Authorization"
	identityCtx         = "identity"    // *auth.Identity of the verified token
	tokenCtx            = "accessToken" // Raw bearer token, needed for sign-out
	profileCtx          = "profile"     // *models.Profile of the caller
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// ProfileGetter loads the caller's profile.
type ProfileGetter interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

func abort(c *gin.Context, status int, kind services.Kind, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"kind": kind, "error": msg})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	headerParts := strings.Fields(c.GetHeader(authorizationHeader))
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return "", false
	}
	return headerParts[1], true
}

// Authenticate creates a Gin middleware that requires a valid, unrevoked bearer token.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			log.Debug("Auth middleware: Authorization header missing or malformed")
			abort(c, http.StatusUnauthorized, services.KindUnauthenticated, "Bearer token required")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrUnavailable) {
				abort(c, http.StatusServiceUnavailable, services.KindStoreUnavailable, "Authentication temporarily unavailable")
				return
			}
			log.WithError(err).Debug("Auth middleware: Token rejected")
			abort(c, http.StatusUnauthorized, services.KindUnauthenticated, "Invalid or expired token")
			return
		}

		SetIdentity(c, identity, tokenString)
		c.Next()
	}
}

// RequireProfile loads the authenticated identity's profile. Identities that have
// not created a profile yet are refused.
func RequireProfile(profiles ProfileGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, services.KindUnauthenticated, "Authentication required")
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), identity.ID)
		if err != nil {
			switch services.KindOf(err) {
			case services.KindNotFound:
				abort(c, http.StatusForbidden, services.KindAuthorization, "Create a profile first")
			case services.KindStoreUnavailable:
				abort(c, http.StatusServiceUnavailable, services.KindStoreUnavailable, "Store unavailable")
			default:
				log.WithError(err).Error("Auth middleware: Loading profile failed")
				abort(c, http.StatusInternalServerError, services.KindInternal, "Internal server error")
			}
			return
		}

		SetProfile(c, profile)
		c.Next()
	}
}

// SetIdentity stores the verified identity and its token on the request.
func SetIdentity(c *gin.Context, identity *auth.Identity, token string) {
	c.Set(identityCtx, identity)
	c.Set(tokenCtx, token)
}

// SetProfile stores the caller's profile on the request.
func SetProfile(c *gin.Context, profile *models.Profile) {
	c.Set(profileCtx, profile)
}

// GetIdentity returns the identity stored by Authenticate.
func GetIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(identityCtx)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}

// GetAccessToken returns the raw bearer token stored by Authenticate.
func GetAccessToken(c *gin.Context) string {
	return c.GetString(tokenCtx)
}

// GetProfile returns the profile stored by RequireProfile.
func GetProfile(c *gin.Context) (*models.Profile, bool) {
	v, exists := c.Get(profileCtx)
	if !exists {
		return nil, false
	}
	profile, ok := v.(*models.Profile)
	return profile, ok
}
