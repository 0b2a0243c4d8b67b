package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// maxTracksPerAdd is the API's per-request cap for playlist additions.
const maxTracksPerAdd = 100

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists lists the authenticated user's playlists.
func (c *Client) UserPlaylists(ctx context.Context, limit, offset int) (*PlaylistPage, error) {
	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", clampLimit(limit, 20), offset)

	var page PlaylistPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist creates a playlist for the authenticated user. The owning
// user id is resolved first because the creation endpoint is user-scoped.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool) (*Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("playlist name must not be empty")
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"name":        name,
		"description": description,
		"public":      public,
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(user.ID))

	var playlist Playlist
	if err := c.do(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracksToPlaylist appends tracks to a playlist.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if playlistID == "" {
		return fmt.Errorf("playlist id must not be empty")
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("no track ids provided")
	}
	if len(trackIDs) > maxTracksPerAdd {
		return fmt.Errorf("at most %d tracks can be added per request", maxTracksPerAdd)
	}

	uris := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		uris = append(uris, trackURI(id))
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return c.do(ctx, http.MethodPost, endpoint, map[string][]string{"uris": uris}, nil)
}
