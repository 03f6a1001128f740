package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
)

const (
	tokenEndpoint     = "https://oauth2.googleapis.com/token"
	tokenInfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

	// Hard cap on provider response bodies.
	maxResponseBytes = 1 << 20
)

// TokenResponse is the relevant subset of Google's token endpoint reply.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Identity is the verified identity extracted from an ID token.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Google abstracts the two provider round-trips the OAuth flow makes so
// the service can be tested against a fake.
type Google interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error)
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

type googleClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewGoogleClient(clientID, clientSecret string) Google {
	return &googleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *googleClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed,
			fmt.Errorf("token endpoint returned %d", resp.StatusCode))
	}

	var tokens TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}
	if tokens.IDToken == "" {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed,
			fmt.Errorf("token response missing id_token"))
	}
	return &tokens, nil
}

func (c *googleClient) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	endpoint := tokenInfoEndpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrInvalidToken
	}

	// tokeninfo returns every claim as a string.
	var payload struct {
		Sub           string `json:"sub"`
		Aud           string `json:"aud"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrTokenExchangeFailed, err)
	}

	if payload.Aud != c.clientID {
		return nil, apperrors.ErrInvalidToken
	}
	if payload.Sub == "" || payload.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return &Identity{
		Subject:       payload.Sub,
		Email:         payload.Email,
		EmailVerified: payload.EmailVerified == "true",
		Name:          payload.Name,
		Picture:       payload.Picture,
	}, nil
}
