package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	identity *auth.Identity
	err      error
}

func (s stubVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return s.identity, s.err
}

type stubProfiles map[uuid.UUID]*models.Profile

func (s stubProfiles) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: profile", services.ErrNotFound)
}

func newAuthRouter(verifier TokenVerifier, profiles ProfileGetter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Authenticate(verifier), RequireProfile(profiles), func(c *gin.Context) {
		p, _ := GetProfile(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "token": GetAccessToken(c)})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	id := uuid.New()
	profiles := stubProfiles{id: {ID: id, Role: models.RoleFreelancer}}
	r := newAuthRouter(stubVerifier{identity: &auth.Identity{ID: id}}, profiles)

	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedKind string
	}{
		{"Missing header", "", http.StatusUnauthorized, "unauthenticated"},
		{"Wrong scheme", "Basic good", http.StatusUnauthorized, "unauthenticated"},
		{"Bad token", "Bearer bad", http.StatusUnauthorized, "unauthenticated"},
		{"Valid", "Bearer good", http.StatusOK, ""},
		{"Case insensitive scheme", "bearer good", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, tt.expectedCode, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, body["kind"])
			} else {
				assert.Equal(t, id.String(), body["id"])
				assert.Equal(t, "good", body["token"])
			}
		})
	}
}

func TestAuthenticate_ProviderUnavailable(t *testing.T) {
	r := newAuthRouter(stubVerifier{err: auth.ErrUnavailable}, stubProfiles{})
	w := doGet(r, "Bearer good")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"store_unavailable"`)
}

func TestRequireProfile_MissingProfile(t *testing.T) {
	r := newAuthRouter(stubVerifier{identity: &auth.Identity{ID: uuid.New()}}, stubProfiles{})
	w := doGet(r, "Bearer good")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"authorization"`)
}
