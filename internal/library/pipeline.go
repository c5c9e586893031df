package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"jellyprep/internal/config"
	"jellyprep/internal/state"
	"jellyprep/internal/tmdb"
	"jellyprep/internal/trailer"
)

// Catalog is the metadata lookup surface the pipeline needs. *tmdb.Client
// implements it; tests substitute a fake.
type Catalog interface {
	MovieByID(ctx context.Context, id int64) (en, localized *tmdb.Record, err error)
	TVByID(ctx context.Context, id int64) (en, localized *tmdb.Record, err error)
	SearchMovie(ctx context.Context, title, year string) (en, localized *tmdb.Record, conf tmdb.Confidence, err error)
	SearchTV(ctx context.Context, title, year string) (en, localized *tmdb.Record, conf tmdb.Confidence, err error)
	EpisodeInfo(ctx context.Context, showID int64, season, episode int) (*tmdb.Episode, error)
	DownloadImage(ctx context.Context, imagePath, size, dest string) error
}

// TrailerFetcher acquires trailers for media folders. *trailer.Manager
// implements it.
type TrailerFetcher interface {
	Fetch(ctx context.Context, dir, originalTitle, enTitle, year string, kind trailer.Kind) bool
	SeasonTrailers(ctx context.Context, showDir, originalName, enName string)
	Stats() trailer.Stats
}

// Refresher triggers a media server library rescan after changes.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Stage identifies what the pipeline is currently doing, for progress
// consumers.
type Stage string

const (
	StageScanning Stage = "scanning"
	StageMovie    Stage = "movie"
	StageShow     Stage = "show"
	StageRefresh  Stage = "refresh"
	StageDone     Stage = "done"
)

// Progress is a single progress update emitted while a run is underway.
type Progress struct {
	Stage   Stage
	Folder  string
	Current int
	Total   int
	Message string
}

// Summary aggregates the outcome of one pipeline run.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time

	MoviesSeen        int
	ShowsSeen         int
	MoviesProcessed   int
	ShowsProcessed    int
	FilesRenamed      int
	SubtitlesRenamed  int
	EpisodesProcessed int
	TrailerStats      trailer.Stats
	Changed           bool
	Errors            []string
}

// Duration returns the wall time of the run.
func (s *Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Pipeline drives the tag -> rename -> metadata -> trailer flow across all
// configured library paths. One folder failing never stops the run.
type Pipeline struct {
	cfg      *config.Config
	catalog  Catalog
	trailers TrailerFetcher // nil when trailer acquisition is disabled
	server   Refresher      // nil when no media server is configured
	marks    *state.Marks
	ledger   *state.Ledger
	log      *slog.Logger

	progress chan<- Progress // optional, never blocks the run when nil

	summary Summary
}

// NewPipeline assembles a Pipeline from its collaborators.
func NewPipeline(cfg *config.Config, catalog Catalog, trailers TrailerFetcher,
	server Refresher, marks *state.Marks, ledger *state.Ledger, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		catalog:  catalog,
		trailers: trailers,
		server:   server,
		marks:    marks,
		ledger:   ledger,
		log:      log,
	}
}

// SetProgress installs a channel that receives progress updates during Run.
// The caller owns the channel and must drain it.
func (p *Pipeline) SetProgress(ch chan<- Progress) {
	p.progress = ch
}

func (p *Pipeline) report(upd Progress) {
	if p.progress == nil {
		return
	}
	select {
	case p.progress <- upd:
	default:
	}
}

// Run walks every configured library path and processes each top-level
// folder. Returns a summary of what changed.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	p.summary = Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	p.log.Info("run started", "run_id", p.summary.RunID)

	movieFolders := p.collectFolders(p.cfg.Libraries.Movies.Paths)
	showFolders := p.collectFolders(p.cfg.Libraries.TV.Paths)
	p.summary.MoviesSeen = len(movieFolders)
	p.summary.ShowsSeen = len(showFolders)
	total := len(movieFolders) + len(showFolders)

	p.report(Progress{Stage: StageScanning, Total: total,
		Message: fmt.Sprintf("%d movies, %d shows", len(movieFolders), len(showFolders))})

	current := 0
	for _, folder := range movieFolders {
		if err := ctx.Err(); err != nil {
			return p.finish(ctx, err)
		}
		current++
		p.report(Progress{Stage: StageMovie, Folder: filepath.Base(folder),
			Current: current, Total: total})
		p.runFolder(ctx, folder, p.processMovie)
	}
	for _, folder := range showFolders {
		if err := ctx.Err(); err != nil {
			return p.finish(ctx, err)
		}
		current++
		p.report(Progress{Stage: StageShow, Folder: filepath.Base(folder),
			Current: current, Total: total})
		p.runFolder(ctx, folder, p.processShow)
	}

	return p.finish(ctx, nil)
}

// runFolder isolates per-folder failures: an error is recorded in the
// summary and the run moves on.
func (p *Pipeline) runFolder(ctx context.Context, folder string, fn func(context.Context, string) (bool, error)) {
	changed, err := fn(ctx, folder)
	if err != nil {
		p.log.Error("folder failed", "folder", filepath.Base(folder), "error", err)
		p.summary.Errors = append(p.summary.Errors,
			fmt.Sprintf("%s: %v", filepath.Base(folder), err))
		return
	}
	if changed {
		p.summary.Changed = true
	}
}

func (p *Pipeline) finish(ctx context.Context, runErr error) (*Summary, error) {
	if p.ledger != nil {
		if err := p.ledger.Save(); err != nil {
			p.log.Warn("could not save trailer ledger", "error", err)
		}
	}
	if p.trailers != nil {
		p.summary.TrailerStats = p.trailers.Stats()
	}

	if runErr == nil && p.summary.Changed && p.server != nil {
		p.report(Progress{Stage: StageRefresh, Message: "refreshing media server library"})
		if err := p.server.Refresh(ctx); err != nil {
			p.log.Warn("media server refresh failed", "error", err)
			p.summary.Errors = append(p.summary.Errors, fmt.Sprintf("refresh: %v", err))
		}
	}

	p.summary.Finished = time.Now()
	p.report(Progress{Stage: StageDone, Message: "run complete"})
	p.log.Info("run finished",
		"run_id", p.summary.RunID,
		"duration", p.summary.Duration().Round(time.Millisecond),
		"changed", p.summary.Changed,
		"errors", len(p.summary.Errors))

	out := p.summary
	return &out, runErr
}

// collectFolders lists the top-level media folders under each library path,
// sorted for a stable processing order.
func (p *Pipeline) collectFolders(roots []string) []string {
	var folders []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			p.log.Warn("cannot read library path", "path", root, "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				folders = append(folders, filepath.Join(root, entry.Name()))
			}
		}
	}
	sort.Strings(folders)
	return folders
}

// folderVideos lists non-trailer video files directly inside dir.
func folderVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoFile(entry.Name()) || isTrailerFile(entry.Name()) {
			continue
		}
		videos = append(videos, filepath.Join(dir, entry.Name()))
	}
	return videos, nil
}

// largestFile returns the biggest file among paths. The main feature is
// assumed to be the largest video in a movie folder.
func largestFile(paths []string) string {
	var best string
	var bestSize int64 = -1
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			bestSize = info.Size()
			best = path
		}
	}
	return best
}
