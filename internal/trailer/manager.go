package trailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FileName is the fixed trailer file name inside a media folder.
const FileName = "trailer.mkv"

// consecutiveMissLimit stops the season sweep after this many seasons in a
// row without a trailer.
const consecutiveMissLimit = 2

// Stats counts trailer outcomes across a run.
type Stats struct {
	Downloaded int
	Failed     int
}

// Manager combines search and download into the trailer acquisition flow.
type Manager struct {
	finder     *Finder
	downloader Downloader
	log        *slog.Logger

	stats Stats
}

// NewManager wires a Finder and Downloader into a Manager.
func NewManager(finder *Finder, downloader Downloader, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{finder: finder, downloader: downloader, log: log}
}

// Stats returns the accumulated counters.
func (m *Manager) Stats() Stats {
	return m.stats
}

// Fetch locates and downloads a trailer into dir. Returns true when a
// trailer is present afterwards (including when it already existed).
func (m *Manager) Fetch(ctx context.Context, dir, originalTitle, enTitle, year string, kind Kind) bool {
	dest := filepath.Join(dir, FileName)
	if _, err := os.Stat(dest); err == nil {
		m.log.Debug("trailer already exists", "dir", filepath.Base(dir))
		return true
	}

	m.log.Info("searching for trailer", "dir", filepath.Base(dir))

	match, err := m.finder.Find(ctx, originalTitle, enTitle, year, kind, 0)
	if err != nil || match == nil {
		if err != nil {
			m.log.Warn("trailer search failed", "dir", filepath.Base(dir), "error", err)
		} else {
			m.log.Warn("no trailer found", "dir", filepath.Base(dir))
		}
		m.stats.Failed++
		return false
	}

	if err := m.download(ctx, match, dest); err != nil {
		m.log.Error("trailer download failed", "url", match.URL(), "error", err)
		m.stats.Failed++
		return false
	}
	m.log.Info("downloaded trailer", "dir", filepath.Base(dir))
	m.stats.Downloaded++
	return true
}

// SeasonTrailers downloads trailers for individual seasons of a show.
// Season 1 is skipped (the show-level trailer covers it) and the sweep stops
// after two consecutive misses, since a show with no season 2 trailer
// rarely has one for season 5.
func (m *Manager) SeasonTrailers(ctx context.Context, showDir, originalName, enName string) {
	seasons, err := seasonFolders(showDir)
	if err != nil || len(seasons) == 0 {
		return
	}

	if enName == "" {
		base := filepath.Base(showDir)
		if idx := strings.Index(base, "("); idx > 0 {
			enName = strings.TrimSpace(base[:idx])
		} else {
			enName = base
		}
	}

	found := 0
	misses := 0

	for _, season := range seasons {
		num := seasonNumber(filepath.Base(season))
		if num <= 1 {
			continue
		}

		dest := filepath.Join(season, FileName)
		if _, err := os.Stat(dest); err == nil {
			misses = 0
			continue
		}

		m.log.Info("searching for season trailer", "show", filepath.Base(showDir), "season", num)

		match, err := m.finder.Find(ctx, originalName, enName, "", KindShow, num)
		if err == nil && match != nil {
			if err := m.download(ctx, match, dest); err == nil {
				m.log.Info("downloaded season trailer", "season", num)
				m.stats.Downloaded++
				found++
				misses = 0
				continue
			}
		}

		misses++
		if misses >= consecutiveMissLimit {
			m.log.Info("no season trailers after consecutive misses, stopping sweep",
				"show", filepath.Base(showDir), "misses", misses)
			break
		}
	}

	if found > 0 {
		m.log.Info("season trailer sweep complete", "show", filepath.Base(showDir), "found", found)
	}
}

func (m *Manager) download(ctx context.Context, match *Match, dest string) error {
	if m.downloader == nil {
		return fmt.Errorf("no downloader configured")
	}
	m.log.Info("downloading trailer", "url", match.URL(), "score", match.Score)
	return m.downloader.Download(ctx, match.URL(), dest)
}

// seasonFolders lists "Season NN" directories under showDir in order.
func seasonFolders(showDir string) ([]string, error) {
	entries, err := os.ReadDir(showDir)
	if err != nil {
		return nil, err
	}
	var seasons []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "Season") {
			seasons = append(seasons, filepath.Join(showDir, entry.Name()))
		}
	}
	sort.Strings(seasons)
	return seasons, nil
}

// seasonNumber parses the numeric part of a "Season NN" folder name.
// Returns 0 when the name does not parse.
func seasonNumber(name string) int {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return 0
	}
	num, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return num
}
