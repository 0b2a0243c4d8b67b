package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Time ranges accepted by the top-items endpoints.
const (
	RangeShortTerm  = "short_term"
	RangeMediumTerm = "medium_term"
	RangeLongTerm   = "long_term"
)

// normalizeTimeRange validates a time range, defaulting to medium term.
func normalizeTimeRange(timeRange string) (string, error) {
	switch timeRange {
	case "":
		return RangeMediumTerm, nil
	case RangeShortTerm, RangeMediumTerm, RangeLongTerm:
		return timeRange, nil
	default:
		return "", fmt.Errorf("unsupported time range %q", timeRange)
	}
}

// TopTracks returns the user's most listened tracks over a time range.
func (c *Client) TopTracks(ctx context.Context, limit int, timeRange string) (*TrackPage, error) {
	tr, err := normalizeTimeRange(timeRange)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=%s", clampLimit(limit, 20), tr)

	var page TrackPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TopArtists returns the user's most listened artists over a time range.
func (c *Client) TopArtists(ctx context.Context, limit int, timeRange string) (*ArtistPage, error) {
	tr, err := normalizeTimeRange(timeRange)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&time_range=%s", clampLimit(limit, 20), tr)

	var page ArtistPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RecommendationSeeds are the starting points for a recommendation request.
// Spotify accepts at most five seeds across all three kinds.
type RecommendationSeeds struct {
	Tracks  []string
	Artists []string
	Genres  []string
}

func (s RecommendationSeeds) count() int {
	return len(s.Tracks) + len(s.Artists) + len(s.Genres)
}

// Recommendations returns tracks similar to the given seeds.
func (c *Client) Recommendations(ctx context.Context, seeds RecommendationSeeds, limit int) (*Recommendations, error) {
	if seeds.count() == 0 {
		return nil, fmt.Errorf("at least one seed track, artist, or genre is required")
	}
	if seeds.count() > 5 {
		return nil, fmt.Errorf("at most 5 seeds are allowed across tracks, artists, and genres")
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", clampLimit(limit, 20)))
	if len(seeds.Tracks) > 0 {
		params.Set("seed_tracks", strings.Join(seeds.Tracks, ","))
	}
	if len(seeds.Artists) > 0 {
		params.Set("seed_artists", strings.Join(seeds.Artists, ","))
	}
	if len(seeds.Genres) > 0 {
		params.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}

	var recs Recommendations
	if err := c.do(ctx, http.MethodGet, "/recommendations?"+params.Encode(), nil, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}
