// Package file provides TOML-backed configuration for catsync.
// Configuration is an explicit structure passed into constructors;
// there are no process-wide configuration singletons.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file name inside the catsync directory.
const DefaultFileName = "config.toml"

// Config is the full catsync configuration.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Drive   DriveConfig   `toml:"drive"`
	Sync    SyncConfig    `toml:"sync"`
}

// CatalogConfig locates the document catalog.
type CatalogConfig struct {
	// BaseURL is the catalog API origin.
	BaseURL string `toml:"base_url"`
	// NamespaceID is the namespace owning the catalog.
	NamespaceID string `toml:"namespace_id"`
	// CatalogID is the target catalog.
	CatalogID string `toml:"catalog_id"`
	// TokenEnv names the environment variable holding the API token.
	TokenEnv string `toml:"token_env"`
	// TimeoutSeconds bounds each catalog HTTP call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// DriveConfig holds Drive API access settings.
type DriveConfig struct {
	// TokenEnv optionally names an environment variable holding a raw
	// access token. When the variable is set it takes precedence over the
	// token file; no refresh is attempted.
	TokenEnv string `toml:"token_env"`
	// TokenFile is the externally-managed OAuth token JSON file.
	TokenFile string `toml:"token_file"`
	// ClientID and ClientSecret identify the OAuth client used to refresh
	// the token file.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	// PageSize is the listing page size.
	PageSize int64 `toml:"page_size"`
}

// SyncConfig tunes the sync run.
type SyncConfig struct {
	// StateDir holds the checkpoint and ledger files.
	StateDir string `toml:"state_dir"`
	// WorkDir holds transient downloads.
	WorkDir string `toml:"work_dir"`
	// ListAttempts bounds whole-run retries on listing failure.
	ListAttempts int `toml:"list_attempts"`
	// ListBackoffSeconds is the initial retry delay, doubled per attempt.
	ListBackoffSeconds int `toml:"list_backoff_seconds"`
	// AdvanceCheckpoint controls checkpoint advance after recorded runs.
	AdvanceCheckpoint bool `toml:"advance_checkpoint"`
}

// Default returns the default configuration rooted at dir.
// If dir is empty, ~/.catsync is used.
func Default(dir string) (Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		dir = filepath.Join(home, ".catsync")
	}
	return Config{
		Catalog: CatalogConfig{
			TokenEnv:       "CATALOG_API_TOKEN",
			TimeoutSeconds: 60,
		},
		Drive: DriveConfig{
			TokenFile: filepath.Join(dir, "token.json"),
			PageSize:  100,
		},
		Sync: SyncConfig{
			StateDir:           filepath.Join(dir, "state"),
			WorkDir:            filepath.Join(dir, "work"),
			ListAttempts:       3,
			ListBackoffSeconds: 2,
			AdvanceCheckpoint:  true,
		},
	}, nil
}

// Load reads the configuration from dir, layering the file's values over
// the defaults. A missing config file yields the defaults.
func Load(dir string) (Config, error) {
	cfg, err := Default(dir)
	if err != nil {
		return Config{}, err
	}

	path := filepath.Join(configDir(dir), DefaultFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to dir with restricted permissions.
func Save(dir string, cfg Config) error {
	d := configDir(dir)
	if err := os.MkdirAll(d, 0o700); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d, DefaultFileName), data, 0o600)
}

func configDir(dir string) string {
	if dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".catsync")
}
