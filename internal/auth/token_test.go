package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestTokenUsable(t *testing.T) {
	tests := []struct {
		name  string
		token *Token
		want  bool
	}{
		{
			name: "fresh token",
			token: &Token{
				AccessToken: "A",
				ExpiresAt:   time.Now().Add(time.Hour),
			},
			want: true,
		},
		{
			name: "expires inside safety margin",
			token: &Token{
				AccessToken: "A",
				ExpiresAt:   time.Now().Add(30 * time.Second),
			},
			want: false,
		},
		{
			name: "already expired",
			token: &Token{
				AccessToken: "A",
				ExpiresAt:   time.Now().Add(-time.Second),
			},
			want: false,
		},
		{
			name: "no access token",
			token: &Token{
				RefreshToken: "R",
				ExpiresAt:    time.Now().Add(time.Hour),
			},
			want: false,
		},
		{
			name:  "zero expiry",
			token: &Token{AccessToken: "A"},
			want:  false,
		},
		{
			name:  "nil token",
			token: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Usable())
		})
	}
}

func TestTokenCanRefresh(t *testing.T) {
	assert.True(t, (&Token{RefreshToken: "R"}).CanRefresh())
	assert.False(t, (&Token{AccessToken: "A"}).CanRefresh())
	assert.False(t, (*Token)(nil).CanRefresh())
}

func TestTokenIsZero(t *testing.T) {
	assert.True(t, (*Token)(nil).IsZero())
	assert.True(t, (&Token{}).IsZero())
	assert.False(t, (&Token{AccessToken: "A"}).IsZero())
	assert.False(t, (&Token{RefreshToken: "R"}).IsZero())
}

func TestFromOAuth2KeepsPreviousRefreshToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	// Exchange response without a rotated refresh token keeps the old one.
	tok := FromOAuth2(&oauth2.Token{AccessToken: "B", Expiry: expiry}, "R")
	assert.Equal(t, "B", tok.AccessToken)
	assert.Equal(t, "R", tok.RefreshToken)
	assert.Equal(t, expiry, tok.ExpiresAt)

	// A rotated refresh token replaces the old one.
	tok = FromOAuth2(&oauth2.Token{AccessToken: "B", RefreshToken: "R2", Expiry: expiry}, "R")
	assert.Equal(t, "R2", tok.RefreshToken)
}

func TestOAuth2RoundTrip(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	tok := &Token{AccessToken: "A", RefreshToken: "R", ExpiresAt: expiry}

	o2 := tok.OAuth2()
	assert.Equal(t, "A", o2.AccessToken)
	assert.Equal(t, "R", o2.RefreshToken)
	assert.Equal(t, "Bearer", o2.TokenType)
	assert.Equal(t, expiry, o2.Expiry)

	assert.Nil(t, (*Token)(nil).OAuth2())
}
