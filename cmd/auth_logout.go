package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newAuthLogoutCmd creates the auth logout command.
func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored Spotify credential",
		RunE:  runAuthLogout,
	}
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if rt.manager.Current().IsZero() {
		fmt.Println("No stored credential.")
		return nil
	}

	rt.manager.Invalidate()
	fmt.Printf("Cleared the stored credential at %s\n", rt.store.Path())
	return nil
}
