package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// SafetyMargin is the buffer subtracted from a token's expiry before it is
// considered stale. Refreshing a minute early absorbs clock skew, network
// latency, and long-running requests that would otherwise race the expiry.
const SafetyMargin = 60 * time.Second

// Token is the persisted access/refresh token pair. It is the sole durable
// entity in this package; the on-disk JSON encoding is shared by every
// cooperating process on the machine.
type Token struct {
	// AccessToken is the short-lived bearer credential for API calls.
	AccessToken string `json:"access_token"`

	// RefreshToken is the longer-lived credential used to renew the access
	// token without user interaction. Spotify may or may not rotate it on
	// refresh; when a renewal response omits it, the previous value is kept.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the absolute instant the access token expires.
	ExpiresAt time.Time `json:"expires_at"`
}

// Usable reports whether the access token can be attached to an API call
// right now: it must be present and expire no sooner than SafetyMargin
// from now.
func (t *Token) Usable() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(SafetyMargin).Before(t.ExpiresAt)
}

// CanRefresh reports whether a renewal can be attempted.
func (t *Token) CanRefresh() bool {
	return t != nil && t.RefreshToken != ""
}

// IsZero reports whether the record holds no credential at all, in which
// case only a full interactive authorization can produce one.
func (t *Token) IsZero() bool {
	return t == nil || (t.AccessToken == "" && t.RefreshToken == "")
}

// FromOAuth2 converts an exchanged oauth2.Token into a Token record.
// If the exchange response carried no refresh token, prevRefresh (the
// previously stored refresh token, if any) is retained.
func FromOAuth2(tok *oauth2.Token, prevRefresh string) *Token {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = prevRefresh
	}
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    tok.Expiry,
	}
}

// OAuth2 converts the record to an oauth2.Token.
func (t *Token) OAuth2() *oauth2.Token {
	if t == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       t.ExpiresAt,
	}
}
