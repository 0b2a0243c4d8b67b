package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Search types accepted by the API.
const (
	SearchTrack    = "track"
	SearchAlbum    = "album"
	SearchArtist   = "artist"
	SearchPlaylist = "playlist"
)

// Search queries the Spotify catalog. kind selects what to search for and
// defaults to tracks.
func (c *Client) Search(ctx context.Context, query, kind string, limit int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	switch kind {
	case "":
		kind = SearchTrack
	case SearchTrack, SearchAlbum, SearchArtist, SearchPlaylist:
	default:
		return nil, fmt.Errorf("unsupported search type %q", kind)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", kind)
	params.Set("limit", fmt.Sprintf("%d", clampLimit(limit, 10)))

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// clampLimit normalizes a page size to the API's 1..50 window.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 50 {
		return 50
	}
	return limit
}
