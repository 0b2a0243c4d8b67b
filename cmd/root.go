package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"spotify-mcp/internal/auth"
	"spotify-mcp/internal/config"
	"spotify-mcp/internal/spotify"
	"spotify-mcp/pkg/logging"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can distinguish authentication states from general failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// rootCmd is the base command for the spotify-mcp application.
var rootCmd = &cobra.Command{
	Use:   "spotify-mcp",
	Short: "Spotify MCP server",
	Long: `spotify-mcp exposes Spotify search, playback, and playlist operations
as MCP tools over stdio, handling the OAuth login, token refresh, and
token persistence that the tools depend on.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "spotify-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps the error taxonomy to semantic exit codes.
func getExitCode(err error) int {
	if errors.Is(err, auth.ErrAuthRequired) {
		return ExitCodeAuthRequired
	}

	var expired *auth.AuthorizationExpiredError
	if errors.As(err, &expired) {
		return ExitCodeAuthRequired
	}

	var already *auth.ServerAlreadyRunningError
	if errors.As(err, &already) {
		return ExitCodeAuthFailed
	}

	var refresh *auth.RefreshError
	if errors.As(err, &refresh) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

// runtime bundles the wired components every credentialed command needs.
type runtime struct {
	cfg         *config.Config
	store       *auth.FileStore
	manager     *auth.Manager
	coordinator *auth.Coordinator
	client      *spotify.Client
}

// newRuntime loads configuration and wires the token store, token manager,
// authorization flow coordinator, and API client together.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Initialize(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	store := auth.NewFileStore(cfg.TokenFile)
	manager := auth.NewManager(auth.ManagerConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Store:        store,
	})
	coordinator := auth.NewCoordinator(auth.CoordinatorConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		CallbackHost: cfg.CallbackHost,
		CallbackPort: cfg.CallbackPort,
		Manager:      manager,
		Store:        store,
	})
	client := spotify.NewClient(spotify.ClientConfig{Tokens: manager})

	return &runtime{
		cfg:         cfg,
		store:       store,
		manager:     manager,
		coordinator: coordinator,
		client:      client,
	}, nil
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
