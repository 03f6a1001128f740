package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/internal/provider"
	"github.com/roeeblo/smart-job-tracker/internal/repository"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
)

const googleAuthEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

// OAuthService drives the Google sign-in flow: redirect out with a
// signed state, then verify the callback, upsert the account, and hand
// the SPA a token pair in the redirect fragment.
type OAuthService struct {
	users       repository.UserRepository
	tokens      *TokenService
	google      provider.Google
	clientID    string
	redirectURI string
	// clientURL is where the SPA receives the tokens.
	clientURL string
	now       func() time.Time
}

func NewOAuthService(
	users repository.UserRepository,
	tokens *TokenService,
	google provider.Google,
	clientID, redirectURI, clientURL string,
) *OAuthService {
	return &OAuthService{
		users:       users,
		tokens:      tokens,
		google:      google,
		clientID:    clientID,
		redirectURI: redirectURI,
		clientURL:   clientURL,
		now:         time.Now,
	}
}

// AuthURL builds the Google consent URL with a freshly signed state.
func (s *OAuthService) AuthURL() (string, error) {
	state, err := s.tokens.SignState()
	if err != nil {
		return "", err
	}

	q := url.Values{
		"client_id":     {s.clientID},
		"redirect_uri":  {s.redirectURI},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"access_type":   {"offline"},
		"prompt":        {"select_account"},
		"state":         {state},
	}
	return googleAuthEndpoint + "?" + q.Encode(), nil
}

// CallbackInput carries the query parameters Google sends back.
type CallbackInput struct {
	Code     string
	State    string
	ErrParam string
}

// HandleCallback completes the flow and returns the redirect URL that
// carries the token pair to the SPA.
func (s *OAuthService) HandleCallback(ctx context.Context, in CallbackInput) (string, error) {
	if in.ErrParam != "" {
		return "", apperrors.ErrProviderError
	}
	if in.Code == "" || in.State == "" {
		return "", apperrors.ErrProviderError
	}
	if err := s.tokens.VerifyState(in.State); err != nil {
		return "", err
	}

	tokens, err := s.google.ExchangeCode(ctx, in.Code, s.redirectURI)
	if err != nil {
		return "", err
	}

	identity, err := s.google.VerifyIDToken(ctx, tokens.IDToken)
	if err != nil {
		return "", err
	}
	if !identity.EmailVerified {
		return "", apperrors.ErrUnverifiedEmail
	}

	user, err := s.ensureUser(ctx, identity)
	if err != nil {
		return "", err
	}

	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return "", err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return "", err
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.GetLogger().Warn("failed to record last login",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}

	return s.successRedirect(user, access, refresh), nil
}

// ensureUser finds or creates the account for a verified Google
// identity inside one transaction: match on google_id first, then link
// by email, then create.
func (s *OAuthService) ensureUser(ctx context.Context, identity *provider.Identity) (*model.User, error) {
	var out *model.User
	err := s.users.Transaction(ctx, func(tx repository.UserRepository) error {
		user, err := tx.FindByGoogleID(ctx, identity.Subject)
		if err == nil {
			out = user
			return nil
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}

		user, err = tx.FindByEmail(ctx, normalizeEmail(identity.Email))
		if err == nil {
			// Existing credential account: attach the Google identity.
			googleID := identity.Subject
			user.GoogleID = &googleID
			user.EmailVerified = true
			if user.Name == "" {
				user.Name = identity.Name
			}
			if err := tx.Update(ctx, user); err != nil {
				return err
			}
			out = user
			return nil
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}

		googleID := identity.Subject
		user = &model.User{
			Name:          identity.Name,
			Email:         normalizeEmail(identity.Email),
			GoogleID:      &googleID,
			EmailVerified: true,
		}
		if err := tx.Create(ctx, user); err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// successRedirect puts the tokens and the minimal profile in the URL
// fragment so they never hit server logs or the Referer header.
func (s *OAuthService) successRedirect(user *model.User, access, refresh string) string {
	fragment := url.Values{
		"accessToken":  {access},
		"refreshToken": {refresh},
		"name":         {user.Name},
		"email":        {user.Email},
	}
	return s.clientURL + "/oauth/callback#" + fragment.Encode()
}

// FailureRedirect sends the SPA back with an error marker instead of
// tokens.
func (s *OAuthService) FailureRedirect(err error) string {
	msg := "oauth_failed"
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case "UNVERIFIED_EMAIL":
			msg = "unverified_email"
		case "INVALID_STATE":
			msg = "invalid_state"
		}
	}
	return s.clientURL + "/oauth/callback#error=" + url.QueryEscape(msg)
}
