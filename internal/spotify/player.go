package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// trackURI normalizes a track identifier to a Spotify URI.
func trackURI(id string) string {
	if strings.HasPrefix(id, "spotify:") {
		return id
	}
	return "spotify:track:" + id
}

// CurrentlyPlaying returns the player's now-playing state, or nil when
// nothing is playing.
func (c *Client) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	var state CurrentlyPlaying
	if err := c.do(ctx, http.MethodGet, "/me/player/currently-playing", nil, &state); err != nil {
		return nil, err
	}
	if state.Item == nil {
		return nil, nil
	}
	return &state, nil
}

// PlayOptions selects what and where to play. A zero value resumes the
// current context on the active device.
type PlayOptions struct {
	// TrackID starts playback of a specific track when set.
	TrackID string

	// DeviceID targets a specific Spotify Connect device when set.
	DeviceID string
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context, opts PlayOptions) error {
	endpoint := "/me/player/play"
	if opts.DeviceID != "" {
		endpoint += "?device_id=" + url.QueryEscape(opts.DeviceID)
	}

	var body interface{}
	if opts.TrackID != "" {
		body = map[string][]string{"uris": {trackURI(opts.TrackID)}}
	}
	return c.do(ctx, http.MethodPut, endpoint, body, nil)
}

// Pause pauses playback on the active device.
func (c *Client) Pause(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/me/player/pause", nil, nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/me/player/next", nil, nil)
}

// Previous skips to the previous track.
func (c *Client) Previous(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/me/player/previous", nil, nil)
}

// AddToQueue appends a track to the playback queue.
func (c *Client) AddToQueue(ctx context.Context, trackID string) error {
	if trackID == "" {
		return fmt.Errorf("track id must not be empty")
	}
	endpoint := "/me/player/queue?uri=" + url.QueryEscape(trackURI(trackID))
	return c.do(ctx, http.MethodPost, endpoint, nil, nil)
}

// Queue returns the current track and what is queued after it.
func (c *Client) Queue(ctx context.Context) (*Queue, error) {
	var queue Queue
	if err := c.do(ctx, http.MethodGet, "/me/player/queue", nil, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// RecentlyPlayed returns the user's listening history, newest first.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) (*RecentlyPlayed, error) {
	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", clampLimit(limit, 20))

	var history RecentlyPlayed
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
