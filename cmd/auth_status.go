package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newAuthStatusCmd creates the auth status command.
func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Show the state of the stored Spotify credential: whether a token is
present, when it expires, and whether it can be refreshed without a new
login.`,
		RunE: runAuthStatus,
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	tok := rt.manager.Current()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})

	if tok.IsZero() {
		t.AppendRow(table.Row{"Status", "Not authenticated"})
		t.AppendRow(table.Row{"Token file", rt.store.Path()})
		t.Render()
		fmt.Println("\nRun 'spotify-mcp auth login' to log in.")
		return nil
	}

	status := "Authenticated"
	if !tok.Usable() {
		if tok.CanRefresh() {
			status = "Expired (refreshable)"
		} else {
			status = "Expired (login required)"
		}
	}

	t.AppendRow(table.Row{"Status", status})
	if !tok.ExpiresAt.IsZero() {
		t.AppendRow(table.Row{"Expires", tok.ExpiresAt.Format(time.RFC3339)})
		if remaining := time.Until(tok.ExpiresAt).Round(time.Second); remaining > 0 {
			t.AppendRow(table.Row{"Remaining", remaining.String()})
		}
	}
	t.AppendRow(table.Row{"Refresh token", yesNo(tok.CanRefresh())})
	t.AppendRow(table.Row{"Token file", rt.store.Path()})
	t.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
