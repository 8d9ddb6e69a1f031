package services_test

import (
	"context"
	"testing"
	"time"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-entropy-123"

func setupAuthService(t *testing.T) (*testEnv, services.AuthService, *auth.Verifier) {
	t.Helper()
	env := setupServices(t)
	verifier := auth.NewVerifier(testSecret, auth.NewMemoryRevocationStore())
	provider := auth.NewLocalProvider(env.store.Credentials(), auth.NewTokenIssuer(testSecret, time.Hour))
	return env, services.NewAuthService(provider, verifier, env.profiles), verifier
}

func TestAuthService_SignUpSignInSignOut(t *testing.T) {
	env, svc, verifier := setupAuthService(t)
	ctx := context.Background()

	session, profile, err := svc.SignUp(ctx, &dto.SignUpRequest{
		Email: "Grace@Test.com", Password: "correct horse", FullName: "Grace Hopper", Role: models.RoleEmployer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	assert.Equal(t, session.User.ID, profile.ID)
	assert.Equal(t, models.RoleEmployer, profile.Role)

	stored, err := env.profiles.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", stored.FullName)

	_, _, err = svc.SignUp(ctx, &dto.SignUpRequest{
		Email: "grace@test.com", Password: "another pass", FullName: "Impostor", Role: models.RoleFreelancer,
	})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, _, err = svc.SignIn(ctx, &dto.SignInRequest{Email: "grace@test.com", Password: "wrong password"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Equal(t, services.KindUnauthenticated, services.KindOf(err))

	session, profile, err = svc.SignIn(ctx, &dto.SignInRequest{Email: "grace@test.com", Password: "correct horse"})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, stored.ID, profile.ID)

	identity, err := verifier.Verify(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, identity.ID)

	require.NoError(t, svc.SignOut(ctx, session.AccessToken))
	_, err = verifier.Verify(ctx, session.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_SignUpValidatesBeforeProvider(t *testing.T) {
	env, svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, &dto.SignUpRequest{Email: "a@test.com", Password: "password1", FullName: "A", Role: "admin"})
	assert.ErrorIs(t, err, services.ErrValidation)

	// No identity was created for the rejected request.
	_, err = env.store.Credentials().GetByEmail(ctx, "a@test.com")
	assert.Error(t, err)
}

func TestAuthService_SignInWithoutProfile(t *testing.T) {
	env, svc, _ := setupAuthService(t)
	ctx := context.Background()

	provider := auth.NewLocalProvider(env.store.Credentials(), auth.NewTokenIssuer(testSecret, time.Hour))
	_, err := provider.SignUp(ctx, "orphan@test.com", "password1")
	require.NoError(t, err)

	session, profile, err := svc.SignIn(ctx, &dto.SignInRequest{Email: "orphan@test.com", Password: "password1"})
	require.NoError(t, err)
	assert.NotNil(t, session)
	assert.Nil(t, profile)
}
