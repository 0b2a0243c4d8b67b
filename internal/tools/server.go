package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"spotify-mcp/internal/spotify"
	"spotify-mcp/pkg/logging"
)

// Authenticator runs the interactive authorization flow. *auth.Coordinator
// satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// ServerConfig configures the MCP tool server.
type ServerConfig struct {
	// Version is reported in the MCP handshake.
	Version string

	// Client is the Spotify API client backing the tools.
	Client *spotify.Client

	// Auth runs the authorization flow for the auth_spotify tool.
	Auth Authenticator
}

// Server exposes the Spotify tool catalog over the MCP stdio transport.
type Server struct {
	mcpServer *server.MCPServer
	client    *spotify.Client
	auth      Authenticator
}

// NewServer creates the MCP server and registers the tool catalog.
func NewServer(cfg ServerConfig) *Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	mcpServer := server.NewMCPServer(
		"spotify-mcp",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer: mcpServer,
		client:    cfg.Client,
		auth:      cfg.Auth,
	}
	s.registerTools()
	return s
}

// Start serves the MCP protocol over stdin/stdout and blocks until the
// client closes the connection.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("Tools", "Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// registerTools registers the tool catalog.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("auth_spotify",
		mcp.WithDescription("Authenticate with Spotify. Opens a browser for login and waits for completion."),
	), s.handleAuthSpotify)

	s.mcpServer.AddTool(mcp.NewTool("search_spotify",
		mcp.WithDescription("Search the Spotify catalog for tracks, albums, artists, or playlists"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithString("type",
			mcp.Description("What to search for: track, album, artist, or playlist (default track)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50, default 10)"),
		),
	), s.handleSearch)

	s.mcpServer.AddTool(mcp.NewTool("get_current_track",
		mcp.WithDescription("Get the currently playing track with progress"),
	), s.handleGetCurrentTrack)

	s.mcpServer.AddTool(mcp.NewTool("play_track",
		mcp.WithDescription("Start or resume playback. Plays a specific track when trackId is given."),
		mcp.WithString("trackId",
			mcp.Description("Spotify track ID or URI to play (omit to resume)"),
		),
		mcp.WithString("deviceId",
			mcp.Description("Spotify Connect device to play on (omit for the active device)"),
		),
	), s.handlePlayTrack)

	s.mcpServer.AddTool(mcp.NewTool("pause_playback",
		mcp.WithDescription("Pause playback on the active device"),
	), s.handlePausePlayback)

	s.mcpServer.AddTool(mcp.NewTool("next_track",
		mcp.WithDescription("Skip to the next track"),
	), s.handleNextTrack)

	s.mcpServer.AddTool(mcp.NewTool("previous_track",
		mcp.WithDescription("Skip to the previous track"),
	), s.handlePreviousTrack)

	s.mcpServer.AddTool(mcp.NewTool("add_to_queue",
		mcp.WithDescription("Add a track to the playback queue"),
		mcp.WithString("trackId",
			mcp.Required(),
			mcp.Description("Spotify track ID or URI to queue"),
		),
	), s.handleAddToQueue)

	s.mcpServer.AddTool(mcp.NewTool("get_queue",
		mcp.WithDescription("Get the current playback queue"),
	), s.handleGetQueue)

	s.mcpServer.AddTool(mcp.NewTool("create_playlist",
		mcp.WithDescription("Create a playlist for the current user"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Playlist name"),
		),
		mcp.WithString("description",
			mcp.Description("Playlist description"),
		),
		mcp.WithBoolean("public",
			mcp.Description("Whether the playlist is public (default false)"),
		),
	), s.handleCreatePlaylist)

	s.mcpServer.AddTool(mcp.NewTool("add_tracks_to_playlist",
		mcp.WithDescription("Add tracks to a playlist"),
		mcp.WithString("playlistId",
			mcp.Required(),
			mcp.Description("Playlist ID"),
		),
		mcp.WithArray("trackIds",
			mcp.Required(),
			mcp.Description("Track IDs or URIs to add"),
		),
	), s.handleAddTracksToPlaylist)

	s.mcpServer.AddTool(mcp.NewTool("get_user_playlists",
		mcp.WithDescription("List the current user's playlists"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of playlists (1-50, default 20)"),
		),
	), s.handleGetUserPlaylists)

	s.mcpServer.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription("Get track recommendations from seed tracks, artists, or genres (at most 5 seeds total)"),
		mcp.WithArray("seedTracks",
			mcp.Description("Seed track IDs"),
		),
		mcp.WithArray("seedArtists",
			mcp.Description("Seed artist IDs"),
		),
		mcp.WithArray("seedGenres",
			mcp.Description("Seed genre names"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recommendations (1-50, default 20)"),
		),
	), s.handleGetRecommendations)

	s.mcpServer.AddTool(mcp.NewTool("get_top_tracks",
		mcp.WithDescription("Get the user's most listened tracks"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tracks (1-50, default 20)"),
		),
		mcp.WithString("timeRange",
			mcp.Description("short_term, medium_term, or long_term (default medium_term)"),
		),
	), s.handleGetTopTracks)

	s.mcpServer.AddTool(mcp.NewTool("get_top_artists",
		mcp.WithDescription("Get the user's most listened artists"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of artists (1-50, default 20)"),
		),
		mcp.WithString("timeRange",
			mcp.Description("short_term, medium_term, or long_term (default medium_term)"),
		),
	), s.handleGetTopArtists)

	s.mcpServer.AddTool(mcp.NewTool("get_recently_played",
		mcp.WithDescription("Get the user's recently played tracks"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries (1-50, default 20)"),
		),
	), s.handleGetRecentlyPlayed)
}
