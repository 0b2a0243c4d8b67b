package spotify

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

	"spotify-mcp/internal/auth"
	"spotify-mcp/pkg/logging"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

const defaultHTTPTimeout = 30 * time.Second

// TokenProvider supplies bearer credentials for API calls and accepts
// invalidation when the API rejects them. *auth.Manager satisfies it.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// APIError is a non-success response from the Spotify API that is not an
// authorization failure.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Message is Spotify's error message, or a body snippet when the
	// response carried no structured error.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("spotify API error: status %d", e.Status)
}

// ClientConfig configures the API client.
type ClientConfig struct {
	// Tokens supplies and invalidates bearer credentials.
	Tokens TokenProvider

	// BaseURL overrides the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// Client is a typed Spotify Web API client. All methods run through the
// authenticated request executor do().
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
}

// NewClient creates an API client backed by the given token provider.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
	}
}

// do executes one authenticated API request. body, when non-nil, is JSON
// encoded; out, when non-nil, receives the decoded response body.
//
// Failure classification:
//   - no usable credential: auth.ErrAuthRequired propagates untouched
//   - 401: the token is invalidated once and auth.AuthorizationExpiredError
//     is returned; there is no silent retry
//   - other non-2xx: *APIError
//   - transport failure: wrapped error
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	access, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+access)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		logging.Warn("SpotifyAPI", "API rejected access token (%s %s), invalidating", method, endpoint)
		c.tokens.Invalidate()
		return &auth.AuthorizationExpiredError{
			Reason: fmt.Errorf("spotify rejected the access token (%s %s)", method, endpoint),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	// Player endpoints sometimes answer 200 with an empty body.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiError builds an APIError from a non-success response, preferring
// Spotify's structured error message.
func (c *Client) apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error.Message != "" {
		message = payload.Error.Message
	} else if len(raw) > 0 {
		message = strings.TrimSpace(string(raw))
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}
