package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/internal/provider"
)

func newTestOAuthService(google *fakeGoogle) (*OAuthService, *fakeUserRepo, *TokenService) {
	repo := newFakeUserRepo()
	tokens := NewTokenService(testJWTConfig())
	svc := NewOAuthService(
		repo,
		tokens,
		google,
		"client-id",
		"http://localhost:4000/auth/google/callback",
		"http://localhost:5173",
	)
	return svc, repo, tokens
}

func verifiedIdentity() *provider.Identity {
	return &provider.Identity{
		Subject:       "google-sub-1",
		Email:         "user@gmail.com",
		EmailVerified: true,
		Name:          "Google User",
	}
}

func TestOAuthService_AuthURL(t *testing.T) {
	svc, _, tokens := newTestOAuthService(&fakeGoogle{})

	raw, err := svc.AuthURL()
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)

	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	require.NoError(t, tokens.VerifyState(q.Get("state")))
}

func TestOAuthService_CallbackCreatesUser(t *testing.T) {
	google := &fakeGoogle{identity: verifiedIdentity()}
	svc, repo, tokens := newTestOAuthService(google)

	state, err := tokens.SignState()
	require.NoError(t, err)

	redirect, err := svc.HandleCallback(context.Background(), CallbackInput{
		Code:  "auth-code",
		State: state,
	})
	require.NoError(t, err)

	// Tokens and the minimal profile travel in the fragment, not the
	// query.
	require.True(t, strings.HasPrefix(redirect, "http://localhost:5173/oauth/callback#"))
	fragment, err := url.ParseQuery(redirect[strings.Index(redirect, "#")+1:])
	require.NoError(t, err)
	assert.NotEmpty(t, fragment.Get("accessToken"))
	assert.NotEmpty(t, fragment.Get("refreshToken"))
	assert.Equal(t, "Google User", fragment.Get("name"))
	assert.Equal(t, "user@gmail.com", fragment.Get("email"))

	user, err := repo.FindByGoogleID(context.Background(), "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, "user@gmail.com", user.Email)
	assert.True(t, user.EmailVerified)
}

func TestOAuthService_CallbackLinksExistingAccount(t *testing.T) {
	google := &fakeGoogle{identity: verifiedIdentity()}
	svc, repo, tokens := newTestOAuthService(google)

	require.NoError(t, repo.Create(context.Background(), &model.User{
		Name:         "Existing",
		Email:        "user@gmail.com",
		PasswordHash: "hash",
	}))

	state, err := tokens.SignState()
	require.NoError(t, err)

	_, err = svc.HandleCallback(context.Background(), CallbackInput{Code: "c", State: state})
	require.NoError(t, err)

	user, err := repo.FindByEmail(context.Background(), "user@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)
	// The credential account keeps its own name and password.
	assert.Equal(t, "Existing", user.Name)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.True(t, user.EmailVerified)
}

func TestOAuthService_CallbackRejectsBadState(t *testing.T) {
	google := &fakeGoogle{identity: verifiedIdentity()}
	svc, _, _ := newTestOAuthService(google)

	_, err := svc.HandleCallback(context.Background(), CallbackInput{
		Code:  "c",
		State: "not-a-state",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Empty(t, google.exchanged, "code must not be exchanged on bad state")
}

func TestOAuthService_CallbackProviderError(t *testing.T) {
	svc, _, _ := newTestOAuthService(&fakeGoogle{})

	_, err := svc.HandleCallback(context.Background(), CallbackInput{ErrParam: "access_denied"})
	assert.ErrorIs(t, err, apperrors.ErrProviderError)

	_, err = svc.HandleCallback(context.Background(), CallbackInput{})
	assert.ErrorIs(t, err, apperrors.ErrProviderError)
}

func TestOAuthService_CallbackUnverifiedEmail(t *testing.T) {
	identity := verifiedIdentity()
	identity.EmailVerified = false
	google := &fakeGoogle{identity: identity}
	svc, repo, tokens := newTestOAuthService(google)

	state, err := tokens.SignState()
	require.NoError(t, err)

	_, err = svc.HandleCallback(context.Background(), CallbackInput{Code: "c", State: state})
	assert.ErrorIs(t, err, apperrors.ErrUnverifiedEmail)
	assert.Empty(t, repo.users)
}

func TestOAuthService_FailureRedirect(t *testing.T) {
	svc, _, _ := newTestOAuthService(&fakeGoogle{})

	assert.Equal(t,
		"http://localhost:5173/oauth/callback#error=unverified_email",
		svc.FailureRedirect(apperrors.ErrUnverifiedEmail))
	assert.Equal(t,
		"http://localhost:5173/oauth/callback#error=oauth_failed",
		svc.FailureRedirect(apperrors.ErrTokenExchangeFailed))
}
