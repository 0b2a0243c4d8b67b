package auth

import (
	"os"

	"github.com/pkg/browser"
)

func init() {
	// The MCP stdio protocol owns stdout; any browser launcher noise must
	// go to stderr.
	browser.Stdout = os.Stderr
	browser.Stderr = os.Stderr
}

// OpenBrowser opens the given URL in the user's default browser.
func OpenBrowser(url string) error {
	return browser.OpenURL(url)
}
