package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotify-mcp/internal/auth"
)

// fakeTokens is a TokenProvider test double.
type fakeTokens struct {
	token       string
	err         error
	invalidates atomic.Int32
}

func (f *fakeTokens) Token(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func (f *fakeTokens) Invalidate() {
	f.invalidates.Add(1)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &fakeTokens{token: "test-access"}
	client := NewClient(ClientConfig{
		Tokens:  tokens,
		BaseURL: srv.URL,
	})
	return client, tokens
}

func TestDoAttachesBearerToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","display_name":"Tester"}`))
	})

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Tester", user.DisplayName)
}

func TestDoPropagatesAuthRequired(t *testing.T) {
	var requests atomic.Int32
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})
	tokens.err = auth.ErrAuthRequired

	_, err := client.CurrentUser(context.Background())
	assert.ErrorIs(t, err, auth.ErrAuthRequired)
	assert.Equal(t, int32(0), requests.Load(), "no request may be sent without a credential")
}

func TestDoUnauthorizedInvalidatesOnce(t *testing.T) {
	var requests atomic.Int32
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, `{"error":{"status":401,"message":"The access token expired"}}`, http.StatusUnauthorized)
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)

	var expired *auth.AuthorizationExpiredError
	require.True(t, errors.As(err, &expired))
	assert.Equal(t, int32(1), requests.Load(), "a rejected request must not be retried")
	assert.Equal(t, int32(1), tokens.invalidates.Load())
}

func TestDoAPIErrorWithStructuredBody(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"status":404,"message":"Non existing id"}}`))
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Non existing id", apiErr.Message)
	assert.Equal(t, int32(0), tokens.invalidates.Load(), "only 401 invalidates the token")
}

func TestDoAPIErrorWithPlainBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	_, err := client.CurrentUser(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream broke", apiErr.Message)
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(ClientConfig{
		Tokens:  &fakeTokens{token: "test-access"},
		BaseURL: srv.URL,
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	var expired *auth.AuthorizationExpiredError
	assert.False(t, errors.As(err, &expired))
}

func TestDoNoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.Pause(context.Background()))
}

func TestDoEmptyBodyWithExpectedOutput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	state, err := client.CurrentlyPlaying(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}
