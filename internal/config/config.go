package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"spotify-mcp/pkg/logging"
)

const (
	// DefaultCallbackHost is the host the OAuth callback listener binds to.
	DefaultCallbackHost = "localhost"

	// DefaultCallbackPort is the well-known port for the OAuth callback
	// listener. Cooperating processes agree on this port; see the flow
	// coordinator for how contention is handled.
	DefaultCallbackPort = 8888

	// DefaultConfigDir is the directory (under the user's home) holding the
	// config file and the persisted token.
	DefaultConfigDir = ".config/spotify-mcp"

	// configFileName is the optional YAML config file inside DefaultConfigDir.
	configFileName = "config.yaml"

	// tokenFileName is the persisted token file inside DefaultConfigDir.
	tokenFileName = "token.json"
)

// Config holds the process-wide configuration. It is read once at startup;
// the absence of client credentials is fatal for commands that talk to the
// Spotify API.
type Config struct {
	// ClientID is the Spotify application client ID.
	ClientID string `yaml:"client_id"`

	// ClientSecret is the Spotify application client secret.
	ClientSecret string `yaml:"client_secret"`

	// CallbackHost is the host for the local OAuth callback listener.
	CallbackHost string `yaml:"callback_host"`

	// CallbackPort is the well-known port for the local OAuth callback listener.
	CallbackPort int `yaml:"callback_port"`

	// TokenFile is the path of the persisted token file.
	TokenFile string `yaml:"token_file"`

	// LogLevel is the minimum log level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// fileConfig mirrors Config for YAML decoding so partial files override only
// the fields they set.
type fileConfig struct {
	ClientID     *string `yaml:"client_id"`
	ClientSecret *string `yaml:"client_secret"`
	CallbackHost *string `yaml:"callback_host"`
	CallbackPort *int    `yaml:"callback_port"`
	TokenFile    *string `yaml:"token_file"`
	LogLevel     *string `yaml:"log_level"`
}

// Load assembles the configuration from, in increasing precedence:
// built-in defaults, the optional YAML config file, a .env file in the
// working directory, and the process environment.
//
// Load never fails on a missing or unreadable config file; the environment
// alone is a complete configuration source.
func Load() (*Config, error) {
	cfg := &Config{
		CallbackHost: DefaultCallbackHost,
		CallbackPort: DefaultCallbackPort,
		LogLevel:     "info",
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.TokenFile = filepath.Join(home, DefaultConfigDir, tokenFileName)
		applyConfigFile(cfg, filepath.Join(home, DefaultConfigDir, configFileName))
	}

	// .env is a developer convenience; absence is the normal case.
	if err := godotenv.Load(); err == nil {
		logging.Debug("Config", "Loaded environment from .env file")
	}

	applyEnv(cfg)

	if cfg.TokenFile == "" {
		return nil, fmt.Errorf("cannot determine token file path: home directory unavailable and SPOTIFY_TOKEN_FILE not set")
	}

	return cfg, nil
}

// Validate checks that the credentials needed for API access are present.
// Commands that perform Spotify calls treat a validation failure as fatal.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("missing Spotify client ID (set SPOTIFY_CLIENT_ID)")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("missing Spotify client secret (set SPOTIFY_CLIENT_SECRET)")
	}
	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("invalid callback port %d", c.CallbackPort)
	}
	return nil
}

// RedirectURI returns the OAuth redirect URI derived from the callback
// host and port. The same value must be used for both the authorize
// redirect and the code exchange.
func (c *Config) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d/callback", c.CallbackHost, c.CallbackPort)
}

// applyConfigFile overlays values from a YAML config file, if one exists.
// A malformed file is logged and ignored rather than failing startup.
func applyConfigFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		logging.Warn("Config", "Ignoring malformed config file %s: %v", path, err)
		return
	}

	if fc.ClientID != nil {
		cfg.ClientID = *fc.ClientID
	}
	if fc.ClientSecret != nil {
		cfg.ClientSecret = *fc.ClientSecret
	}
	if fc.CallbackHost != nil && *fc.CallbackHost != "" {
		cfg.CallbackHost = *fc.CallbackHost
	}
	if fc.CallbackPort != nil && *fc.CallbackPort != 0 {
		cfg.CallbackPort = *fc.CallbackPort
	}
	if fc.TokenFile != nil && *fc.TokenFile != "" {
		cfg.TokenFile = *fc.TokenFile
	}
	if fc.LogLevel != nil && *fc.LogLevel != "" {
		cfg.LogLevel = *fc.LogLevel
	}
	logging.Debug("Config", "Applied config file %s", path)
}

// applyEnv overlays values from the process environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_CALLBACK_HOST"); v != "" {
		cfg.CallbackHost = v
	}
	if v := os.Getenv("SPOTIFY_CALLBACK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.CallbackPort = port
		} else {
			logging.Warn("Config", "Ignoring non-numeric SPOTIFY_CALLBACK_PORT=%q", v)
		}
	}
	if v := os.Getenv("SPOTIFY_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("SPOTIFY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
