package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"spotify-mcp/pkg/logging"
)

// SpotifyTokenURL is the Spotify accounts token endpoint. It accepts
// grant_type=authorization_code and grant_type=refresh_token, Basic
// authenticated with the application's client id and secret.
const SpotifyTokenURL = "https://accounts.spotify.com/api/token"

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// ManagerConfig configures the token manager.
type ManagerConfig struct {
	// ClientID is the Spotify application client ID.
	ClientID string

	// ClientSecret is the Spotify application client secret.
	ClientSecret string

	// Store persists the token across process invocations.
	Store Store

	// TokenURL overrides the token endpoint. Defaults to SpotifyTokenURL.
	TokenURL string

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// Manager owns the authoritative in-memory token for the process and
// implements the refresh algorithm. It is constructed once per process and
// shared by reference between the flow coordinator and the request executor.
//
// Token acquisition order: in-memory fast path (no I/O), then the persisted
// store on cold start, then a refresh exchange, then ErrAuthRequired.
// Concurrent acquisitions are collapsed through singleflight so at most one
// refresh is in flight at a time.
type Manager struct {
	mu        sync.Mutex
	token     *Token
	consulted bool // whether the store has been consulted since the last reset

	clientID     string
	clientSecret string
	tokenURL     string
	store        Store
	httpClient   *http.Client

	group singleflight.Group
}

// NewManager creates a token manager.
func NewManager(cfg ManagerConfig) *Manager {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = SpotifyTokenURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	return &Manager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		store:        cfg.Store,
		httpClient:   httpClient,
	}
}

// Token returns a usable access token, refreshing or loading persisted state
// as needed. It returns ErrAuthRequired when no credential exists and none
// can be renewed; the caller is expected to run the interactive flow.
func (m *Manager) Token(ctx context.Context) (string, error) {
	// Fast path: a fresh in-memory token is returned without any I/O.
	m.mu.Lock()
	if m.token.Usable() {
		access := m.token.AccessToken
		m.mu.Unlock()
		return access, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("token", func() (interface{}, error) {
		return m.obtainToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// obtainToken runs the slow path: store consultation, then refresh.
// Only one caller executes this at a time (singleflight).
func (m *Manager) obtainToken(ctx context.Context) (string, error) {
	m.mu.Lock()

	// A concurrent caller may have completed a refresh while we queued.
	if m.token.Usable() {
		access := m.token.AccessToken
		m.mu.Unlock()
		return access, nil
	}

	// Cold start: consult the store for a token written by this process's
	// predecessor or a cooperating process.
	if m.token == nil && !m.consulted {
		m.consulted = true
		if loaded, err := m.store.Load(); err == nil && loaded != nil {
			m.token = loaded
			logging.Debug("TokenManager", "Loaded persisted token (expires %s)", loaded.ExpiresAt.Format(time.RFC3339))
		}
		if m.token.Usable() {
			access := m.token.AccessToken
			m.mu.Unlock()
			return access, nil
		}
	}

	refreshToken := ""
	if m.token.CanRefresh() {
		refreshToken = m.token.RefreshToken
	}
	m.mu.Unlock()

	if refreshToken == "" {
		return "", ErrAuthRequired
	}

	return m.refresh(ctx, refreshToken)
}

// tokenResponse is the token endpoint's JSON payload for both grant types.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// refresh performs the grant_type=refresh_token exchange. On any transport
// or protocol failure the token record is cleared in memory and on disk; a
// half-refreshed record is never retained.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		m.clearAndPersist()
		return "", &RefreshError{Reason: err}
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.clearAndPersist()
		return "", &RefreshError{Reason: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		m.clearAndPersist()
		return "", &RefreshError{Reason: fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		m.clearAndPersist()
		return "", &RefreshError{Reason: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if tr.AccessToken == "" {
		m.clearAndPersist()
		return "", &RefreshError{Reason: fmt.Errorf("token endpoint returned no access token")}
	}

	newRefresh := tr.RefreshToken
	if newRefresh == "" {
		// Spotify rotates the refresh token only sometimes; keep the old
		// one when the response omits it.
		newRefresh = refreshToken
	}

	tok := &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}

	m.mu.Lock()
	m.token = tok
	m.consulted = true
	m.mu.Unlock()

	m.persist(tok)
	logging.Info("TokenManager", "Refreshed access token (expires %s)", tok.ExpiresAt.Format(time.RFC3339))

	return tok.AccessToken, nil
}

// SetToken installs a freshly exchanged token as the authoritative record
// and persists it. Used by the flow coordinator after an authorization-code
// exchange.
func (m *Manager) SetToken(tok *Token) {
	m.mu.Lock()
	m.token = tok
	m.consulted = true
	m.mu.Unlock()

	m.persist(tok)
}

// Invalidate clears the token record and persists the cleared state, so a
// subsequent Token call goes through the refresh-or-authenticate path
// instead of reusing a dead credential. The request executor calls this
// when the API rejects the access token.
func (m *Manager) Invalidate() {
	m.clearAndPersist()
	logging.Info("TokenManager", "Token invalidated")
}

// Reload drops the in-memory copy so the next Token call consults the
// store again. Used after another process completes a delegated login and
// writes a fresh token to the shared file.
func (m *Manager) Reload() {
	m.mu.Lock()
	m.token = nil
	m.consulted = false
	m.mu.Unlock()
}

// Current returns a copy of the current token record, consulting the store
// if memory is empty. Intended for status reporting; it never triggers a
// refresh.
func (m *Manager) Current() *Token {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil && !m.consulted {
		m.consulted = true
		if loaded, err := m.store.Load(); err == nil && loaded != nil {
			m.token = loaded
		}
	}

	if m.token == nil {
		return nil
	}
	cp := *m.token
	return &cp
}

// clearAndPersist resets all token fields in memory and writes the cleared
// record to the store. No partial state survives a failed refresh.
func (m *Manager) clearAndPersist() {
	m.mu.Lock()
	m.token = &Token{}
	m.consulted = true
	m.mu.Unlock()

	if err := m.store.Save(&Token{}); err != nil {
		logging.Warn("TokenManager", "Failed to persist cleared token state: %v", err)
	}
}

// persist writes the token to the store. Write failures are logged but
// non-fatal: the in-memory token remains usable for this process even if it
// could not be shared with others.
func (m *Manager) persist(tok *Token) {
	if err := m.store.Save(tok); err != nil {
		logging.Warn("TokenManager", "Failed to persist token: %v", err)
	}
}
