package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spotify-mcp/internal/tools"
	"spotify-mcp/pkg/logging"
)

// newServeCmd creates the serve command that runs the MCP server over stdio.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Spotify MCP server over stdio",
		Long: `Run the MCP server over stdio for AI assistant integration.

The server exposes the Spotify tool catalog (search, playback, playlists,
recommendations) and handles authentication on demand: tools report when a
login is needed, and the auth_spotify tool runs the browser flow.

All diagnostics go to stderr; stdout carries the MCP protocol.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	// Whatever ends the server, the callback listener must not outlive it.
	defer rt.coordinator.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := tools.NewServer(tools.ServerConfig{
		Version: GetVersion(),
		Client:  rt.client,
		Auth:    rt.coordinator,
	})

	logging.Info("Serve", "Starting spotify-mcp server (token file: %s)", rt.store.Path())
	return server.Start(ctx)
}
