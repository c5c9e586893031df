package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TMDB.Language != "ro-RO" {
		t.Errorf("expected language 'ro-RO', got '%s'", cfg.TMDB.Language)
	}

	if !cfg.Trailers.Enabled {
		t.Error("expected trailers enabled by default")
	}

	if cfg.Daemon.Schedule != "@daily" {
		t.Errorf("expected schedule '@daily', got '%s'", cfg.Daemon.Schedule)
	}

	if len(cfg.Libraries.Movies.Paths) != 0 {
		t.Errorf("expected empty movie paths, got %d", len(cfg.Libraries.Movies.Paths))
	}

	if len(cfg.Libraries.TV.Paths) != 0 {
		t.Errorf("expected empty TV paths, got %d", len(cfg.Libraries.TV.Paths))
	}
}

func TestLoadFromCreatesDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(configFile)
	if err != nil {
		t.Fatalf("failed to create default config: %v", err)
	}
	if cfg.TMDB.Language != "ro-RO" {
		t.Errorf("unexpected default language: %s", cfg.TMDB.Language)
	}

	// Second load reads the written file.
	cfg2, err := LoadFrom(configFile)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if cfg2.Daemon.Schedule != cfg.Daemon.Schedule {
		t.Errorf("reload mismatch: %s vs %s", cfg2.Daemon.Schedule, cfg.Daemon.Schedule)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.Libraries.Movies.Paths = []string{dir}
	cfg.TMDB.APIKey = "abc123"
	cfg.Jellyfin.URL = "http://localhost:8096"

	if err := SaveTo(cfg, configFile); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.TMDB.APIKey != "abc123" {
		t.Errorf("api key = %q", loaded.TMDB.APIKey)
	}
	if loaded.Jellyfin.URL != "http://localhost:8096" {
		t.Errorf("jellyfin url = %q", loaded.Jellyfin.URL)
	}
	if len(loaded.Libraries.Movies.Paths) != 1 || loaded.Libraries.Movies.Paths[0] != dir {
		t.Errorf("movie paths = %v", loaded.Libraries.Movies.Paths)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.TMDB.APIKey = "key"
	cfg.Libraries.Movies.Paths = []string{dir}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	// Missing API key
	noKey := DefaultConfig()
	noKey.Libraries.Movies.Paths = []string{dir}
	if err := noKey.Validate(); err == nil {
		t.Error("expected error for missing api key")
	}

	// No library paths
	noPaths := DefaultConfig()
	noPaths.TMDB.APIKey = "key"
	if err := noPaths.Validate(); err == nil {
		t.Error("expected error for missing library paths")
	}

	// Nonexistent path
	badPath := DefaultConfig()
	badPath.TMDB.APIKey = "key"
	badPath.Libraries.TV.Paths = []string{"/nonexistent/path"}
	if err := badPath.Validate(); err == nil {
		t.Error("expected error for nonexistent library path")
	}
}

func TestStatePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"

	if cfg.CachePath() != "/data/tmdb_cache.json" {
		t.Errorf("CachePath = %s", cfg.CachePath())
	}
	if cfg.LedgerPath() != "/data/trailer_failures.json" {
		t.Errorf("LedgerPath = %s", cfg.LedgerPath())
	}
	if cfg.StatePath() != "/data/state.json" {
		t.Errorf("StatePath = %s", cfg.StatePath())
	}
}
