package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned when the refresh token itself is
// rejected. The session store is cleared before this is returned; the
// caller has to log in again.
var ErrSessionExpired = errors.New("apiclient: session expired")

// Client talks to the job tracker API and transparently refreshes the
// access token. Concurrent requests that all hit a 401 trigger exactly
// one refresh call; the rest wait for its result and retry with the new
// token. Each request retries at most once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionStore
	refresh    singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(baseURL string, session SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends an authenticated JSON request. The body is kept as bytes so
// a post-refresh retry can replay it.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	tokens, ok := c.session.Tokens()
	if !ok {
		return nil, ErrSessionExpired
	}

	resp, err := c.send(ctx, method, path, body, tokens.Access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	access, err := c.refreshAccessToken(ctx, tokens.Access, tokens.Refresh)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, method, path, body, access)
}

// DoJSON sends the request and decodes a 2xx response body into out.
// Non-2xx responses become an error carrying the server's message.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
	}

	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, accessToken string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.httpClient.Do(req)
}

// refreshAccessToken coalesces concurrent refreshes onto one HTTP call.
// A caller whose 401 raced with an already-finished refresh gets the
// stored token back without another round-trip.
func (c *Client) refreshAccessToken(ctx context.Context, failedAccess, refreshToken string) (string, error) {
	value, err, _ := c.refresh.Do("refresh", func() (interface{}, error) {
		if tokens, ok := c.session.Tokens(); ok && tokens.Access != failedAccess {
			return tokens.Access, nil
		}
		return c.callRefresh(ctx, refreshToken)
	})
	if err != nil {
		c.session.Clear()
		return "", err
	}
	return value.(string), nil
}

func (c *Client) callRefresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refresh",
		bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrSessionExpired
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("apiclient: decode refresh response: %w", err)
	}
	if body.AccessToken == "" {
		return "", ErrSessionExpired
	}

	tokens, _ := c.session.Tokens()
	tokens.Access = body.AccessToken
	c.session.SetTokens(tokens)
	return body.AccessToken, nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return fmt.Errorf("apiclient: %s (status %d)", body.Error, resp.StatusCode)
	}
	return fmt.Errorf("apiclient: unexpected status %d", resp.StatusCode)
}
