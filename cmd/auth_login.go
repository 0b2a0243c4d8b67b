package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// newAuthLoginCmd creates the auth login command.
func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Spotify",
		Long: `Run the browser-based Spotify login.

A local callback listener is started on the configured port, the browser
opens the Spotify consent page, and the resulting token is persisted for
the MCP server and future CLI runs.

If another spotify-mcp process already owns the callback port, the login
is delegated to it and this command waits for the shared token file.`,
		RunE: runAuthLogin,
	}
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.coordinator.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Waiting for Spotify login in the browser..."
	s.Start()

	err = rt.coordinator.Authenticate(cmd.Context())
	s.Stop()

	if err != nil {
		return err
	}

	fmt.Println("Logged in to Spotify.")
	fmt.Printf("Token stored at %s\n", rt.store.Path())
	return nil
}
