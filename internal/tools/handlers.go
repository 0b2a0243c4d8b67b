package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"spotify-mcp/internal/auth"
	"spotify-mcp/internal/spotify"
	"spotify-mcp/pkg/logging"
)

// errorResult translates the error taxonomy into an actionable tool error.
func errorResult(err error) *mcp.CallToolResult {
	var expired *auth.AuthorizationExpiredError
	var already *auth.ServerAlreadyRunningError
	var apiErr *spotify.APIError

	switch {
	case errors.Is(err, auth.ErrAuthRequired):
		return mcp.NewToolResultError("Not authenticated with Spotify. Run the auth_spotify tool to log in.")
	case errors.As(err, &expired):
		return mcp.NewToolResultError("Spotify authorization expired. Run the auth_spotify tool to log in again.")
	case errors.As(err, &already):
		return mcp.NewToolResultError(fmt.Sprintf(
			"Port %d is in use by a process that is not a Spotify login server. Close it and run auth_spotify again.", already.Port))
	case errors.As(err, &apiErr):
		return mcp.NewToolResultError(fmt.Sprintf("Spotify API error (status %d): %s", apiErr.Status, apiErr.Message))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Request failed: %v", err))
	}
}

// optionalString reads an optional string argument.
func optionalString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// optionalInt reads an optional numeric argument. JSON numbers arrive as
// float64.
func optionalInt(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// optionalBool reads an optional boolean argument.
func optionalBool(args map[string]interface{}, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

// stringSlice reads an optional array-of-strings argument.
func stringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *Server) handleAuthSpotify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logging.Info("Tools", "auth_spotify requested")
	if err := s.auth.Authenticate(ctx); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Authenticated with Spotify. All tools are ready to use."), nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required"), nil
	}
	args := request.GetArguments()

	result, err := s.client.Search(ctx, query, optionalString(args, "type"), optionalInt(args, "limit"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatSearchResult(result)), nil
}

func (s *Server) handleGetCurrentTrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.client.CurrentlyPlaying(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if state == nil {
		return mcp.NewToolResultText("Nothing is playing right now."), nil
	}
	return mcp.NewToolResultText(formatCurrentlyPlaying(state)), nil
}

func (s *Server) handlePlayTrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	opts := spotify.PlayOptions{
		TrackID:  optionalString(args, "trackId"),
		DeviceID: optionalString(args, "deviceId"),
	}

	if err := s.client.Play(ctx, opts); err != nil {
		return errorResult(err), nil
	}
	if opts.TrackID != "" {
		return mcp.NewToolResultText(fmt.Sprintf("Playing track %s.", opts.TrackID)), nil
	}
	return mcp.NewToolResultText("Playback resumed."), nil
}

func (s *Server) handlePausePlayback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.client.Pause(ctx); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Playback paused."), nil
}

func (s *Server) handleNextTrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.client.Next(ctx); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Skipped to the next track."), nil
}

func (s *Server) handlePreviousTrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.client.Previous(ctx); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Skipped to the previous track."), nil
}

func (s *Server) handleAddToQueue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trackID, err := request.RequireString("trackId")
	if err != nil {
		return mcp.NewToolResultError("trackId argument is required"), nil
	}

	if err := s.client.AddToQueue(ctx, trackID); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added track %s to the queue.", trackID)), nil
}

func (s *Server) handleGetQueue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	queue, err := s.client.Queue(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatQueue(queue)), nil
}

func (s *Server) handleCreatePlaylist(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}
	args := request.GetArguments()

	playlist, err := s.client.CreatePlaylist(ctx, name, optionalString(args, "description"), optionalBool(args, "public"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created playlist %q (id %s).", playlist.Name, playlist.ID)), nil
}

func (s *Server) handleAddTracksToPlaylist(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playlistID, err := request.RequireString("playlistId")
	if err != nil {
		return mcp.NewToolResultError("playlistId argument is required"), nil
	}
	trackIDs := stringSlice(request.GetArguments(), "trackIds")
	if len(trackIDs) == 0 {
		return mcp.NewToolResultError("trackIds argument must be a non-empty array of track IDs"), nil
	}

	if err := s.client.AddTracksToPlaylist(ctx, playlistID, trackIDs); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added %d track(s) to playlist %s.", len(trackIDs), playlistID)), nil
}

func (s *Server) handleGetUserPlaylists(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	page, err := s.client.UserPlaylists(ctx, optionalInt(args, "limit"), 0)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatPlaylistPage(page)), nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	seeds := spotify.RecommendationSeeds{
		Tracks:  stringSlice(args, "seedTracks"),
		Artists: stringSlice(args, "seedArtists"),
		Genres:  stringSlice(args, "seedGenres"),
	}

	recs, err := s.client.Recommendations(ctx, seeds, optionalInt(args, "limit"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatTrackList("Recommendations", recs.Tracks)), nil
}

func (s *Server) handleGetTopTracks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	page, err := s.client.TopTracks(ctx, optionalInt(args, "limit"), optionalString(args, "timeRange"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatTrackList("Top tracks", page.Items)), nil
}

func (s *Server) handleGetTopArtists(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	page, err := s.client.TopArtists(ctx, optionalInt(args, "limit"), optionalString(args, "timeRange"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatArtistList("Top artists", page.Items)), nil
}

func (s *Server) handleGetRecentlyPlayed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	history, err := s.client.RecentlyPlayed(ctx, optionalInt(args, "limit"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatRecentlyPlayed(history)), nil
}
