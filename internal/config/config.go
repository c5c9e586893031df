// Package config loads and saves the jellyprep configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all jellyprep configuration
type Config struct {
	Libraries LibraryConfig  `toml:"libraries"`
	TMDB      TMDBConfig     `toml:"tmdb"`
	Jellyfin  JellyfinConfig `toml:"jellyfin"`
	Trailers  TrailerConfig  `toml:"trailers"`
	Daemon    DaemonConfig   `toml:"daemon"`
	LogLevel  string         `toml:"log_level"`
	DataDir   string         `toml:"data_dir"`
}

// LibraryConfig defines media library paths
type LibraryConfig struct {
	Movies MovieLibrary `toml:"movies"`
	TV     TVLibrary    `toml:"tv"`
}

// MovieLibrary holds movie library paths
type MovieLibrary struct {
	Paths []string `toml:"paths"`
}

// TVLibrary holds TV show library paths
type TVLibrary struct {
	Paths []string `toml:"paths"`
}

// TMDBConfig holds metadata catalog access settings
type TMDBConfig struct {
	APIKey   string `toml:"api_key"`
	Language string `toml:"language"` // secondary locale, e.g. ro-RO
}

// JellyfinConfig holds the media server connection settings
type JellyfinConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// TrailerConfig holds trailer acquisition settings
type TrailerConfig struct {
	Enabled     bool   `toml:"enabled"`
	YTDLPBinary string `toml:"ytdlp_binary"` // empty means look up on PATH
}

// DaemonConfig holds daemon scheduling settings
type DaemonConfig struct {
	Schedule string `toml:"schedule"` // cron expression, e.g. "@daily"
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Libraries: LibraryConfig{
			Movies: MovieLibrary{Paths: []string{}},
			TV:     TVLibrary{Paths: []string{}},
		},
		TMDB: TMDBConfig{
			Language: "ro-RO",
		},
		Trailers: TrailerConfig{
			Enabled: true,
		},
		Daemon: DaemonConfig{
			Schedule: "@daily",
		},
		LogLevel: "info",
		DataDir:  defaultDataDir(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/jellyprep"
	}
	return filepath.Join(home, ".local/share/jellyprep")
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "jellyprep", "config.toml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Load reads the config file, creating it with defaults if it doesn't exist.
// API keys and the server URL may also come from the environment
// (TMDB_API_KEY, JELLYFIN_API_KEY, JELLYFIN_URL), which wins over the file.
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFrom(configFile)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFrom reads the config from an explicit path, creating it with defaults
// when missing.
func LoadFrom(configFile string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		c.TMDB.APIKey = key
	}
	if key := os.Getenv("JELLYFIN_API_KEY"); key != "" {
		c.Jellyfin.APIKey = key
	}
	if url := os.Getenv("JELLYFIN_URL"); url != "" {
		c.Jellyfin.URL = url
	}
}

// Save writes the config to its default location
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	return SaveTo(cfg, configFile)
}

// SaveTo writes the config to an explicit path
func SaveTo(cfg *Config, configFile string) error {
	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb api key not configured (config file or TMDB_API_KEY)")
	}

	if len(c.Libraries.Movies.Paths) == 0 && len(c.Libraries.TV.Paths) == 0 {
		return fmt.Errorf("no library paths configured")
	}

	allPaths := append(append([]string{}, c.Libraries.Movies.Paths...), c.Libraries.TV.Paths...)
	for _, path := range allPaths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("library path %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("library path %s is not a directory", path)
		}
	}

	return nil
}

// CachePath returns the TMDB response cache file location.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "tmdb_cache.json")
}

// StatePath returns the processed-file mark index location.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.json")
}

// LedgerPath returns the trailer failure ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "trailer_failures.json")
}

// LockPath returns the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "jellyprep.lock")
}
