package cmd

import (
	"github.com/spf13/cobra"
)

// newAuthCmd creates the auth parent command.
func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Spotify authentication",
		Long: `Manage the Spotify OAuth credential used by the MCP server.

Examples:
  spotify-mcp auth login    # Browser-based Spotify login
  spotify-mcp auth status   # Show the stored credential's state
  spotify-mcp auth logout   # Clear the stored credential`,
	}

	authCmd.AddCommand(newAuthLoginCmd())
	authCmd.AddCommand(newAuthStatusCmd())
	authCmd.AddCommand(newAuthLogoutCmd())
	return authCmd
}
