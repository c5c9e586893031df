package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jellyprep/internal/trailer"
)

// processMovie runs one movie folder through the full pipeline:
// tag, rename files, metadata, trailer.
func (p *Pipeline) processMovie(ctx context.Context, folder string) (bool, error) {
	name := filepath.Base(folder)
	if !strings.Contains(name, "[tmdb-") {
		tagged, err := p.tagFolder(ctx, folder, kindMovie)
		if err != nil {
			return false, err
		}
		if tagged == "" {
			return false, nil
		}
		folder = tagged
	}

	changed := false

	videos, err := folderVideos(folder)
	if err != nil {
		return false, fmt.Errorf("list videos: %w", err)
	}
	if len(videos) > 0 {
		main := largestFile(videos)
		if !p.marks.IsProcessed(main) {
			renamed, err := p.renameMovieFiles(ctx, folder)
			if err != nil {
				return false, err
			}
			if renamed {
				changed = true
			}
			// Re-find after the possible rename, then mark the main feature
			// so unchanged files are skipped next run.
			if videos, err = folderVideos(folder); err == nil && len(videos) > 0 {
				if err := p.marks.Mark(largestFile(videos)); err != nil {
					p.log.Warn("could not mark video", "error", err)
				}
			}
		}
	} else {
		// No video yet, the folder may still be downloading. Metadata can
		// go in regardless.
		if err := p.ensureMovieMetadata(ctx, folder); err != nil {
			p.log.Warn("movie metadata", "folder", name, "error", err)
		}
	}

	p.handleTrailer(ctx, folder, trailer.KindMovie)

	return changed, nil
}

// renameMovieFiles renames the main video and its subtitles to the
// localized title and refreshes the folder metadata.
func (p *Pipeline) renameMovieFiles(ctx context.Context, folder string) (bool, error) {
	id := ExtractTMDBID(filepath.Base(folder))
	if id == 0 {
		return false, nil
	}

	en, localized, err := p.catalog.MovieByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("movie lookup: %w", err)
	}
	if en == nil || localized == nil {
		p.log.Warn("no catalog data", "folder", filepath.Base(folder))
		return false, nil
	}

	base := SanitizeFilename(localized.DisplayTitle())
	changed := false

	videos, err := folderVideos(folder)
	if err != nil {
		return false, err
	}
	if len(videos) > 0 {
		video := largestFile(videos)
		newName := base + filepath.Ext(video)
		if filepath.Base(video) != newName {
			if err := os.Rename(video, filepath.Join(folder, newName)); err != nil {
				return false, fmt.Errorf("rename video: %w", err)
			}
			p.log.Info("renamed movie", "name", newName)
			p.summary.FilesRenamed++
			changed = true
		}
		p.renameMovieSubtitles(folder, base)
	}

	if err := p.ensureMovieMetadata(ctx, folder); err != nil {
		p.log.Warn("movie metadata", "folder", filepath.Base(folder), "error", err)
	}

	if changed {
		p.summary.MoviesProcessed++
	}
	return changed, nil
}

// renameMovieSubtitles aligns subtitle names with the main video's base
// name. English subtitles keep their ".en" language marker.
func (p *Pipeline) renameMovieSubtitles(folder, base string) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !IsSubtitleFile(entry.Name()) {
			continue
		}
		var newName string
		if strings.Contains(strings.ToLower(entry.Name()), ".en.") {
			newName = base + ".en" + filepath.Ext(entry.Name())
		} else {
			newName = base + filepath.Ext(entry.Name())
		}
		if entry.Name() == newName {
			continue
		}
		if err := os.Rename(filepath.Join(folder, entry.Name()), filepath.Join(folder, newName)); err != nil {
			p.log.Warn("rename subtitle", "name", entry.Name(), "error", err)
			continue
		}
		p.log.Info("renamed subtitle", "name", newName)
		p.summary.SubtitlesRenamed++
	}
}
