package auth

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"
)

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

// CallbackResult represents the outcome of one OAuth callback request.
type CallbackResult struct {
	// Code is the authorization code from Spotify.
	Code string

	// State is the state parameter to verify against the original request.
	State string

	// Error is the error code if the user denied access or the provider
	// reported a failure.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string
}

// IsError reports whether the callback carries a failure instead of a code.
func (r *CallbackResult) IsError() bool {
	return r.Error != "" || r.Code == ""
}

// CallbackServer is the local HTTP listener for the authorization flow. It
// binds the well-known port and serves two routes: /login redirects the
// user's browser to Spotify's authorize endpoint, and /callback receives
// the authorization code.
//
// The login route stays available for the whole life of the listener so a
// second cooperating process can delegate its own login by pointing a
// browser at it.
type CallbackServer struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
	resultCh chan *CallbackResult
	errorCh  chan error
	once     sync.Once

	// authURL returns the current Spotify authorize URL for /login.
	authURL func() string
}

// NewCallbackServer creates a callback server for the given host and
// well-known port. authURL supplies the authorize redirect target; it is a
// function so the flow coordinator can rotate the state parameter between
// logins on the same listener.
func NewCallbackServer(host string, port int, authURL func() string) *CallbackServer {
	return &CallbackServer{
		host:     host,
		port:     port,
		resultCh: make(chan *CallbackResult, 1),
		errorCh:  make(chan error, 1),
		authURL:  authURL,
	}
}

// Start binds the port and begins serving. A bind failure (most commonly
// the port being held by another process) is returned to the caller, which
// distinguishes the cooperative delegation case from a fatal error.
func (s *CallbackServer) Start() error {
	addr := net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind callback listener on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	return nil
}

// LoginURL returns the local login route, suitable for opening in a
// browser or probing from another process.
func (s *CallbackServer) LoginURL() string {
	return fmt.Sprintf("http://%s:%d/login", s.host, s.port)
}

// RedirectURI returns the redirect URI registered with the authorize
// request. The same value must be sent with the code exchange.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d/callback", s.host, s.port)
}

// WaitForCallback blocks until a callback arrives, the server fails, or the
// context is done.
func (s *CallbackServer) WaitForCallback(ctx context.Context) (*CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleLogin redirects the browser to the Spotify authorize endpoint.
func (s *CallbackServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	target := s.authURL()
	if target == "" {
		http.Error(w, "No authorization flow in progress", http.StatusConflict)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// handleCallback receives the authorization code. Only the first callback
// per flow is processed; stragglers get a 400.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

func (s *CallbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()
	result := &CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	var tmpl *template.Template
	var data interface{}
	if result.IsError() {
		tmpl = template.Must(template.New("error").Parse(callbackErrorHTML))
		data = map[string]string{
			"Error":       result.Error,
			"Description": result.ErrorDescription,
		}
	} else {
		tmpl = template.Must(template.New("success").Parse(callbackSuccessHTML))
		data = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	select {
	case s.resultCh <- result:
	default:
	}
}

// Reset arms the server for another callback on the same listener. Used
// when a login is re-issued after a failed attempt.
func (s *CallbackServer) Reset() {
	s.once = sync.Once{}
}

// Stop releases the listener. It must be called before process exit,
// whatever the flow's outcome, so a later run does not find a stale bound
// port.
func (s *CallbackServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
