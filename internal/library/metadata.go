package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jellyprep/internal/nfo"
)

// ensureMovieMetadata writes the movie NFO and artwork when missing or
// stale. The NFO is named after the main video so the media server pairs
// them; with no video yet it falls back to the folder name.
func (p *Pipeline) ensureMovieMetadata(ctx context.Context, folder string) error {
	id := ExtractTMDBID(filepath.Base(folder))
	if id == 0 {
		return nil
	}

	var nfoPath string
	videos, err := folderVideos(folder)
	if err != nil {
		return err
	}
	if len(videos) > 0 {
		video := largestFile(videos)
		nfoPath = strings.TrimSuffix(video, filepath.Ext(video)) + ".nfo"
	} else {
		nfoPath = filepath.Join(folder, filepath.Base(folder)+".nfo")
	}

	posterPath := filepath.Join(folder, "poster.jpg")
	backdropPath := filepath.Join(folder, "backdrop.jpg")

	if !metadataStale(nfoPath, id) && fileExists(posterPath) {
		return nil
	}

	_, localized, err := p.catalog.MovieByID(ctx, id)
	if err != nil {
		return fmt.Errorf("movie lookup: %w", err)
	}
	if localized == nil {
		return nil
	}

	if err := nfo.WriteMovie(localized, nfoPath); err != nil {
		return fmt.Errorf("write movie nfo: %w", err)
	}
	p.log.Info("created movie nfo", "name", filepath.Base(nfoPath))
	p.removeStaleNFOs(folder, nfoPath)

	p.downloadArtwork(ctx, localized.PosterPath, "w500", posterPath)
	p.downloadArtwork(ctx, localized.BackdropPath, "original", backdropPath)
	return nil
}

// ensureShowMetadata writes tvshow.nfo, artwork, and per-episode NFOs and
// thumbnails, skipping whatever is already current.
func (p *Pipeline) ensureShowMetadata(ctx context.Context, showFolder string, id int64) error {
	nfoPath := filepath.Join(showFolder, "tvshow.nfo")
	posterPath := filepath.Join(showFolder, "poster.jpg")
	backdropPath := filepath.Join(showFolder, "backdrop.jpg")

	refresh := metadataStale(nfoPath, id) || !fileExists(posterPath)
	if refresh {
		_, localized, err := p.catalog.TVByID(ctx, id)
		if err != nil {
			return fmt.Errorf("show lookup: %w", err)
		}
		if localized == nil {
			return nil
		}
		if err := nfo.WriteShow(localized, nfoPath); err != nil {
			return fmt.Errorf("write show nfo: %w", err)
		}
		p.log.Info("created tvshow nfo", "folder", filepath.Base(showFolder))
		p.downloadArtwork(ctx, localized.PosterPath, "w500", posterPath)
		p.downloadArtwork(ctx, localized.BackdropPath, "original", backdropPath)
	}

	for _, seasonDir := range seasonFolderPaths(showFolder) {
		season := seasonNumberFromName(filepath.Base(seasonDir))
		if season < 0 {
			continue
		}
		p.ensureEpisodeMetadata(ctx, seasonDir, id, season, refresh)
	}
	return nil
}

// ensureEpisodeMetadata writes an NFO and still image beside each episode
// video that is missing one. force rewrites regardless.
func (p *Pipeline) ensureEpisodeMetadata(ctx context.Context, seasonDir string, showID int64, season int, force bool) {
	for _, video := range seasonVideos(seasonDir) {
		s, e, ok := ParseEpisode(filepath.Base(video))
		if !ok || s != season {
			continue
		}

		nfoPath := strings.TrimSuffix(video, filepath.Ext(video)) + ".nfo"
		if fileExists(nfoPath) && !force {
			continue
		}

		ep, err := p.catalog.EpisodeInfo(ctx, showID, season, e)
		if err != nil || ep == nil {
			continue
		}

		if err := nfo.WriteEpisode(ep, nfoPath); err != nil {
			p.log.Warn("write episode nfo", "name", filepath.Base(nfoPath), "error", err)
			continue
		}
		p.log.Info("created episode nfo",
			"episode", fmt.Sprintf("S%02dE%02d", season, e), "title", ep.Name)

		if ep.StillPath != "" {
			thumb := strings.TrimSuffix(video, filepath.Ext(video)) + ".jpg"
			if !fileExists(thumb) || force {
				p.downloadArtwork(ctx, ep.StillPath, "w300", thumb)
			}
		}
	}
}

// removeStaleNFOs deletes NFO files in folder other than keep, so a renamed
// video does not leave an orphaned sidecar behind.
func (p *Pipeline) removeStaleNFOs(folder, keep string) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".nfo") {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		if path == keep {
			continue
		}
		if err := os.Remove(path); err == nil {
			p.log.Info("removed stale nfo", "name", entry.Name())
		}
	}
}

func (p *Pipeline) downloadArtwork(ctx context.Context, imagePath, size, dest string) {
	if imagePath == "" {
		return
	}
	if err := p.catalog.DownloadImage(ctx, imagePath, size, dest); err != nil {
		p.log.Warn("download artwork", "dest", filepath.Base(dest), "error", err)
		return
	}
	p.log.Debug("downloaded artwork", "dest", filepath.Base(dest))
}

// metadataStale reports whether the NFO at path is missing or carries a
// different catalog ID than the folder tag (the folder was re-tagged).
func metadataStale(nfoPath string, folderID int64) bool {
	if !fileExists(nfoPath) {
		return true
	}
	return nfo.ReadTMDBID(nfoPath) != folderID
}

// seasonNumberFromName extracts N from "Season NN", -1 when malformed.
func seasonNumberFromName(name string) int {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return -1
	}
	var n int
	if _, err := fmt.Sscanf(fields[1], "%d", &n); err != nil {
		return -1
	}
	return n
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
