package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"jellyprep/internal/config"
	"jellyprep/internal/daemon"
	"jellyprep/internal/jellyfin"
	"jellyprep/internal/library"
	"jellyprep/internal/report"
	"jellyprep/internal/state"
	"jellyprep/internal/tmdb"
	"jellyprep/internal/trailer"
	"jellyprep/internal/ui"
)

var (
	cfgFile string
	plain   bool
	fresh   bool

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const exampleConfig = `[libraries.movies]
paths = ["/path/to/your/movies"]

[libraries.tv]
paths = ["/path/to/your/tvshows"]

[tmdb]
api_key = "your-tmdb-api-key"
language = "ro-RO"

[jellyfin]
url = "http://localhost:8096"
api_key = ""

[trailers]
enabled = true

[daemon]
schedule = "@daily"
`

var rootCmd = &cobra.Command{
	Use:   "jellyprep",
	Short: "Media library organizer for Jellyfin",
	Long: "jellyprep matches noisy movie and show folders against TMDB,\n" +
		"renames them to canonical Jellyfin-friendly names, writes NFO\n" +
		"metadata with artwork, and downloads trailers.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process all configured libraries once",
	RunE:  runOnce,
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run on a schedule until interrupted",
	RunE:  runDaemon,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	RunE:  runConfig,
}

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "List titles excluded from trailer retries",
	RunE:  runExclusions,
}

var exclusionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all trailer exclusions",
	RunE:  runExclusionsClear,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jellyprep %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/jellyprep/config.toml)")
	runCmd.Flags().BoolVar(&plain, "plain", false, "log progress as plain text instead of the TUI")
	runCmd.Flags().BoolVar(&fresh, "fresh", false, "forget processed-file marks and re-examine everything")

	exclusionsCmd.AddCommand(exclusionsClearCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(exclusionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildPipeline wires the whole stack from configuration.
func buildPipeline(cfg *config.Config, log *slog.Logger) (*library.Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cache := tmdb.LoadCache(cfg.CachePath())
	catalog, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.Language, tmdb.WithCache(cache))
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}

	var trailers library.TrailerFetcher
	if cfg.Trailers.Enabled {
		ytdlp := trailer.NewYTDLP(cfg.Trailers.YTDLPBinary, log)
		trailers = trailer.NewManager(trailer.NewFinder(ytdlp, log), ytdlp, log)
	}

	var server library.Refresher
	if cfg.Jellyfin.URL != "" {
		server = jellyfin.New(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey, log)
	}

	marks := state.LoadMarks(cfg.StatePath())
	if fresh {
		if err := marks.Reset(); err != nil {
			return nil, fmt.Errorf("reset marks: %w", err)
		}
	}
	ledger := state.LoadLedger(cfg.LedgerPath())

	return library.NewPipeline(cfg, catalog, trailers, server, marks, ledger, log), nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := newLogger(cfg)

	pipeline, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another jellyprep instance is already running")
	}
	defer lock.Unlock()

	ctx, cancel := signalContext()
	defer cancel()

	var sum *library.Summary
	if plain {
		sum, err = pipeline.Run(ctx)
	} else {
		sum, err = runWithTUI(ctx, pipeline)
	}
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Run cancelled")
			os.Exit(130)
		}
		return err
	}

	fmt.Println(report.Render(sum))
	if path, err := report.Write(sum, cfg.DataDir); err == nil {
		fmt.Printf("Report saved to %s\n", path)
	} else {
		log.Warn("could not write report", "error", err)
	}
	return nil
}

// runWithTUI drives the pipeline behind a progress view. Falls back to a
// plain run when the terminal cannot host the TUI.
func runWithTUI(ctx context.Context, pipeline *library.Pipeline) (*library.Summary, error) {
	updates := make(chan library.Progress, 64)
	pipeline.SetProgress(updates)

	type result struct {
		sum *library.Summary
		err error
	}
	done := make(chan result, 1)
	go func() {
		sum, err := pipeline.Run(ctx)
		close(updates)
		done <- result{sum, err}
	}()

	p := tea.NewProgram(ui.NewRunModel(updates))
	if _, err := p.Run(); err != nil {
		// Not a terminal, most likely. Drain updates and let the run finish.
		for range updates {
		}
	}

	res := <-done
	return res.sum, res.err
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := newLogger(cfg)

	pipeline, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg, func(ctx context.Context) error {
		sum, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}
		if _, err := report.Write(sum, cfg.DataDir); err != nil {
			log.Warn("could not write report", "error", err)
		}
		return nil
	}, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return d.Run(ctx)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Printf("Configuration file: %s\n\n", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("Config file does not exist. Create it with:")
		fmt.Printf("\n  mkdir -p %s\n", "~/.config/jellyprep")
		fmt.Printf("  cat > %s <<EOF\n", path)
		fmt.Print(exampleConfig)
		fmt.Println("EOF")
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Printf("Movie libraries (%d):\n", len(cfg.Libraries.Movies.Paths))
	for _, p := range cfg.Libraries.Movies.Paths {
		fmt.Printf("  - %s\n", p)
	}
	fmt.Printf("\nTV libraries (%d):\n", len(cfg.Libraries.TV.Paths))
	for _, p := range cfg.Libraries.TV.Paths {
		fmt.Printf("  - %s\n", p)
	}
	fmt.Printf("\nCatalog language: %s\n", cfg.TMDB.Language)
	fmt.Printf("Trailers enabled: %v\n", cfg.Trailers.Enabled)
	fmt.Printf("Daemon schedule: %s\n", cfg.Daemon.Schedule)
	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	return nil
}

func runExclusions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ledger := state.LoadLedger(cfg.LedgerPath())
	entries := ledger.Entries()
	if len(entries) == 0 {
		fmt.Println("No trailer failures recorded.")
		return nil
	}

	fmt.Printf("Trailer failure ledger (%d excluded):\n\n", ledger.ExcludedCount())
	for key, entry := range entries {
		status := fmt.Sprintf("%d attempt(s)", entry.Count)
		if entry.Excluded {
			status = "excluded"
		}
		fmt.Printf("  %-14s %-50s %s\n", key, entry.Name, status)
	}
	return nil
}

func runExclusionsClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ledger := state.LoadLedger(cfg.LedgerPath())
	n := len(ledger.Entries())
	ledger.Clear()
	if err := ledger.Save(); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	fmt.Printf("Cleared %d ledger entr%s.\n", n, pluralY(n))
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
