package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"spotify-mcp/pkg/logging"
)

// SpotifyAuthURL is the Spotify accounts authorize endpoint.
const SpotifyAuthURL = "https://accounts.spotify.com/authorize"

// DefaultCallbackTimeout bounds how long a pending authorization waits for
// the user to complete the browser interaction.
const DefaultCallbackTimeout = 5 * time.Minute

// probeTimeout bounds the login-route probe against a foreign listener.
const probeTimeout = 5 * time.Second

// DefaultScopes is the fixed scope list requested during authorization.
var DefaultScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"playlist-read-private",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-top-read",
	"user-read-recently-played",
}

// FlowState is the authorization flow's lifecycle state.
type FlowState int

const (
	FlowIdle FlowState = iota
	FlowListenerStarting
	FlowAwaitingCallback
	FlowExchanging
	FlowComplete
	FlowFailed
)

// String makes FlowState satisfy the fmt.Stringer interface.
func (s FlowState) String() string {
	switch s {
	case FlowIdle:
		return "idle"
	case FlowListenerStarting:
		return "listener_starting"
	case FlowAwaitingCallback:
		return "awaiting_callback"
	case FlowExchanging:
		return "exchanging"
	case FlowComplete:
		return "complete"
	case FlowFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// pendingAuth is the single outstanding authorization operation. Concurrent
// Authenticate calls coalesce onto it instead of starting parallel flows.
type pendingAuth struct {
	done chan struct{}
	err  error
}

// CoordinatorConfig configures the authorization flow coordinator.
type CoordinatorConfig struct {
	// ClientID is the Spotify application client ID.
	ClientID string

	// ClientSecret is the Spotify application client secret.
	ClientSecret string

	// CallbackHost is the host the callback listener binds to.
	CallbackHost string

	// CallbackPort is the well-known callback port shared by cooperating
	// processes.
	CallbackPort int

	// Manager receives the exchanged token.
	Manager *Manager

	// Store is consulted while waiting for a delegated login to complete.
	Store *FileStore

	// AuthURL overrides the authorize endpoint. Defaults to SpotifyAuthURL.
	AuthURL string

	// TokenURL overrides the token endpoint. Defaults to SpotifyTokenURL.
	TokenURL string

	// Scopes overrides the requested scope list. Defaults to DefaultScopes.
	Scopes []string

	// CallbackTimeout overrides DefaultCallbackTimeout.
	CallbackTimeout time.Duration

	// HTTPClient is an optional custom HTTP client for probing and the
	// code exchange.
	HTTPClient *http.Client

	// OpenBrowser overrides how URLs are opened. Defaults to OpenBrowser.
	OpenBrowser func(url string) error
}

// Coordinator drives the OAuth2 authorization-code flow:
//
//	Idle -> ListenerStarting -> AwaitingCallback -> Exchanging -> Complete|Failed
//
// At most one flow is outstanding per process; re-entrant Authenticate
// calls re-issue the login redirect on the existing listener and wait for
// the same pending operation. When another process already owns the
// well-known port, the coordinator delegates by opening that process's
// login route in the browser and waiting for the shared token file to be
// written.
type Coordinator struct {
	mu         sync.Mutex
	state      FlowState
	server     *CallbackServer
	pending    *pendingAuth
	stateParam string

	manager      *Manager
	store        *FileStore
	oauthCfg     *oauth2.Config
	callbackHost string
	callbackPort int
	timeout      time.Duration
	httpClient   *http.Client
	openBrowser  func(url string) error
}

// NewCoordinator creates an authorization flow coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = SpotifyAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = SpotifyTokenURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	timeout := cfg.CallbackTimeout
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	open := cfg.OpenBrowser
	if open == nil {
		open = OpenBrowser
	}

	redirectURI := fmt.Sprintf("http://%s:%d/callback", cfg.CallbackHost, cfg.CallbackPort)

	return &Coordinator{
		state:        FlowIdle,
		manager:      cfg.Manager,
		store:        cfg.Store,
		callbackHost: cfg.CallbackHost,
		callbackPort: cfg.CallbackPort,
		timeout:      timeout,
		httpClient:   httpClient,
		openBrowser:  open,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
}

// State returns the coordinator's current flow state.
func (c *Coordinator) State() FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Authenticate runs one interactive authorization and blocks until the
// user completes or abandons it, the timeout elapses, or ctx is done.
// A second call while a flow is pending coalesces into the same pending
// operation after re-issuing the login redirect.
func (c *Coordinator) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	if c.pending != nil {
		p := c.pending
		loginURL := ""
		if c.server != nil {
			loginURL = c.server.LoginURL()
		}
		c.mu.Unlock()

		if loginURL != "" {
			logging.Debug("AuthFlow", "Authorization already pending, re-issuing login redirect")
			if err := c.openBrowser(loginURL); err != nil {
				logging.Warn("AuthFlow", "Failed to open browser: %v (visit %s manually)", err, loginURL)
			}
		}
		return waitPending(ctx, p)
	}

	p := &pendingAuth{done: make(chan struct{})}
	c.pending = p
	c.state = FlowListenerStarting
	c.mu.Unlock()

	session := uuid.NewString()[:8]
	logging.Info("AuthFlow", "Starting authorization session %s", session)

	err := c.run(ctx, session)

	c.mu.Lock()
	if err != nil {
		c.state = FlowFailed
	} else {
		c.state = FlowComplete
	}
	c.pending = nil
	c.mu.Unlock()

	p.err = err
	close(p.done)
	return err
}

// run executes one flow from listener start to token persistence.
func (c *Coordinator) run(ctx context.Context, session string) error {
	state, err := generateState()
	if err != nil {
		return fmt.Errorf("failed to generate state parameter: %w", err)
	}

	c.mu.Lock()
	c.stateParam = state
	c.mu.Unlock()

	server := NewCallbackServer(c.callbackHost, c.callbackPort, c.currentAuthURL)
	if err := server.Start(); err != nil {
		// The well-known port is held by someone else. This is the
		// designed multi-instance cooperation case, not a fatal error.
		logging.Info("AuthFlow", "Callback port %d is busy, probing existing server (session %s)", c.callbackPort, session)
		return c.delegate(ctx)
	}

	c.mu.Lock()
	c.server = server
	c.state = FlowAwaitingCallback
	c.mu.Unlock()

	defer func() {
		server.Stop()
		c.mu.Lock()
		c.server = nil
		c.mu.Unlock()
	}()

	loginURL := server.LoginURL()
	logging.Info("AuthFlow", "Opening browser for Spotify login (session %s)", session)
	if err := c.openBrowser(loginURL); err != nil {
		logging.Warn("AuthFlow", "Failed to open browser: %v (visit %s manually)", err, loginURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := server.WaitForCallback(waitCtx)
	if err != nil {
		return fmt.Errorf("authorization callback not received: %w", err)
	}

	if result.IsError() {
		if result.Error != "" {
			return fmt.Errorf("authorization rejected: %s (%s)", result.Error, result.ErrorDescription)
		}
		return fmt.Errorf("authorization callback carried no code")
	}

	if result.State != state {
		return fmt.Errorf("authorization state mismatch")
	}

	c.mu.Lock()
	c.state = FlowExchanging
	c.mu.Unlock()

	// The exchange must use the same redirect URI that obtained the code.
	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauthCfg.Exchange(exchangeCtx, result.Code)
	if err != nil {
		return fmt.Errorf("authorization code exchange failed: %w", err)
	}

	c.manager.SetToken(FromOAuth2(tok, ""))
	logging.Info("AuthFlow", "Authorization session %s complete", session)
	return nil
}

// currentAuthURL builds the authorize URL for the listener's /login route.
func (c *Coordinator) currentAuthURL() string {
	c.mu.Lock()
	state := c.stateParam
	c.mu.Unlock()
	if state == "" {
		return ""
	}
	return c.oauthCfg.AuthCodeURL(state)
}

// delegate handles the case where another process owns the callback port.
// If that process's login route answers, the browser is pointed at it and
// this process waits for the shared token file to be written. If the probe
// fails, ServerAlreadyRunningError is returned so the caller can message
// the user instead of crashing.
func (c *Coordinator) delegate(ctx context.Context) error {
	loginURL := fmt.Sprintf("http://%s:%d/login", c.callbackHost, c.callbackPort)

	if !c.probeLogin(ctx, loginURL) {
		return &ServerAlreadyRunningError{Port: c.callbackPort}
	}

	logging.Info("AuthFlow", "Delegating login to existing server at %s", loginURL)
	if err := c.openBrowser(loginURL); err != nil {
		logging.Warn("AuthFlow", "Failed to open browser: %v (visit %s manually)", err, loginURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := WaitForStoredToken(waitCtx, c.store); err != nil {
		return fmt.Errorf("delegated login did not complete: %w", err)
	}

	// The other process wrote a fresh token; drop our stale in-memory copy.
	c.manager.Reload()
	return nil
}

// probeLogin checks whether the foreign listener answers on its login
// route. Redirects are not followed: a 302 to the authorize endpoint is
// the expected healthy answer.
func (c *Coordinator) probeLogin(ctx context.Context, loginURL string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, loginURL, nil)
	if err != nil {
		return false
	}

	client := &http.Client{
		Timeout: probeTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Close releases the callback listener if one is bound. It is wired to
// process shutdown so a later run never finds a stale bound port.
func (c *Coordinator) Close() {
	c.mu.Lock()
	server := c.server
	c.server = nil
	if c.state != FlowComplete {
		c.state = FlowIdle
	}
	c.mu.Unlock()

	if server != nil {
		server.Stop()
	}
}

// generateState produces a random OAuth state parameter: 32 bytes of
// entropy, base64url-encoded.
func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// waitPending blocks on a coalesced pending operation.
func waitPending(ctx context.Context, p *pendingAuth) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
