package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jellyprep/internal/trailer"
)

// processShow runs one show folder through the full pipeline: tag, organise
// loose episodes, rename episodes, metadata, trailers, episode titles.
func (p *Pipeline) processShow(ctx context.Context, folder string) (bool, error) {
	name := filepath.Base(folder)
	if !strings.Contains(name, "[tmdb-") {
		tagged, err := p.tagFolder(ctx, folder, kindShow)
		if err != nil {
			return false, err
		}
		if tagged == "" {
			return false, nil
		}
		folder = tagged
	}

	id := ExtractTMDBID(filepath.Base(folder))
	if id == 0 {
		return false, nil
	}

	changed := false

	p.organizeLooseEpisodes(folder)

	hasVideos, needsProcessing := p.showNeedsProcessing(folder)
	if hasVideos {
		if needsProcessing {
			renamed, err := p.renameShowEpisodes(ctx, folder, id)
			if err != nil {
				return false, err
			}
			if renamed {
				changed = true
			}
		}
		p.markSeasonVideos(folder)
	} else {
		if err := p.ensureShowMetadata(ctx, folder, id); err != nil {
			p.log.Warn("show metadata", "folder", filepath.Base(folder), "error", err)
		}
	}

	p.handleTrailer(ctx, folder, trailer.KindShow)

	if p.trailers != nil {
		if en, _, err := p.catalog.TVByID(ctx, id); err == nil && en != nil {
			origName := en.OriginalDisplayTitle()
			if origName == "" {
				origName = en.DisplayTitle()
			}
			p.trailers.SeasonTrailers(ctx, folder, origName, en.DisplayTitle())
		}
	}

	if err := p.fixEpisodeTitles(ctx, folder, id); err != nil {
		p.log.Error("episode title fix", "folder", filepath.Base(folder), "error", err)
	}

	return changed, nil
}

// showNeedsProcessing scans the season folders and reports whether the show
// has any video at all and whether any video is not yet marked processed.
func (p *Pipeline) showNeedsProcessing(showFolder string) (hasVideos, needsProcessing bool) {
	for _, season := range seasonFolderPaths(showFolder) {
		for _, video := range seasonVideos(season) {
			hasVideos = true
			if !p.marks.IsProcessed(video) {
				return true, true
			}
		}
	}
	return hasVideos, false
}

// markSeasonVideos records every episode video so future runs skip them.
func (p *Pipeline) markSeasonVideos(showFolder string) {
	for _, season := range seasonFolderPaths(showFolder) {
		for _, video := range seasonVideos(season) {
			if err := p.marks.Mark(video); err != nil {
				p.log.Warn("could not mark episode", "error", err)
			}
		}
	}
}

// organizeLooseEpisodes moves video files sitting in the show root into
// their Season folders, keyed on the SxxEyy marker.
func (p *Pipeline) organizeLooseEpisodes(showFolder string) {
	loose, err := folderVideos(showFolder)
	if err != nil || len(loose) == 0 {
		return
	}
	p.log.Info("loose episodes to organise", "count", len(loose))

	for _, video := range loose {
		stem := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
		season, _, ok := ParseEpisode(stem)
		if !ok {
			continue
		}
		seasonDir := filepath.Join(showFolder, seasonFolderName(season))
		if err := os.MkdirAll(seasonDir, 0o755); err != nil {
			p.log.Error("create season folder", "error", err)
			continue
		}
		target := filepath.Join(seasonDir, filepath.Base(video))
		if _, err := os.Stat(target); err == nil {
			continue
		}
		if err := os.Rename(video, target); err != nil {
			p.log.Error("organise episode", "name", filepath.Base(video), "error", err)
			continue
		}
		p.log.Info("moved episode", "season", filepath.Base(seasonDir), "name", filepath.Base(video))
	}
}

// renameShowEpisodes renames every episode video to the canonical
// "Show - SxxEyy - Title" form, refreshes metadata, and pulls root
// subtitles into their season folders.
func (p *Pipeline) renameShowEpisodes(ctx context.Context, showFolder string, id int64) (bool, error) {
	en, localized, err := p.catalog.TVByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("show lookup: %w", err)
	}
	if en == nil || localized == nil {
		p.log.Warn("no catalog data", "folder", filepath.Base(showFolder))
		return false, nil
	}

	showTitle := localized.DisplayTitle()
	changed := false

	for _, seasonDir := range seasonFolderPaths(showFolder) {
		for _, video := range seasonVideos(seasonDir) {
			stem := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
			s, e, ok := ParseEpisode(stem)
			if !ok {
				continue
			}

			epTitle := p.episodeTitle(ctx, id, s, e)
			canonical := CanonicalEpisodeName(showTitle, s, e, epTitle)
			newName := canonical + filepath.Ext(video)
			if filepath.Base(video) != newName {
				if err := os.Rename(video, filepath.Join(seasonDir, newName)); err != nil {
					p.log.Error("rename episode", "name", filepath.Base(video), "error", err)
					continue
				}
				p.log.Info("renamed episode", "name", newName)
				p.summary.FilesRenamed++
				changed = true
			}
			p.summary.EpisodesProcessed++
		}
	}

	if err := p.ensureShowMetadata(ctx, showFolder, id); err != nil {
		p.log.Warn("show metadata", "folder", filepath.Base(showFolder), "error", err)
	}

	p.moveShowSubtitles(showFolder)

	if changed {
		p.summary.ShowsProcessed++
	}
	return changed, nil
}

// episodeTitle resolves the best episode title: localized when real and
// Latin-script, English otherwise, generic "Episodul N" as a last resort.
func (p *Pipeline) episodeTitle(ctx context.Context, showID int64, season, episode int) string {
	ep, err := p.catalog.EpisodeInfo(ctx, showID, season, episode)
	if err == nil && ep != nil && strings.TrimSpace(ep.Name) != "" {
		return strings.TrimSpace(ep.Name)
	}
	return fmt.Sprintf("Episodul %d", episode)
}

// moveShowSubtitles relocates subtitles from the show root into the season
// folder of their SxxEyy marker, renamed after the matching video.
func (p *Pipeline) moveShowSubtitles(showFolder string) {
	entries, err := os.ReadDir(showFolder)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !IsSubtitleFile(entry.Name()) {
			continue
		}
		s, e, ok := ParseEpisode(entry.Name())
		if !ok {
			continue
		}
		seasonDir := filepath.Join(showFolder, seasonFolderName(s))
		if _, err := os.Stat(seasonDir); err != nil {
			p.log.Warn("season folder not found for subtitle", "name", entry.Name())
			continue
		}

		video := findEpisodeVideo(seasonDir, s, e)
		if video == "" {
			p.log.Warn("no matching video for subtitle", "name", entry.Name())
			continue
		}

		stem := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
		target := filepath.Join(seasonDir, stem+filepath.Ext(entry.Name()))
		src := filepath.Join(showFolder, entry.Name())
		if src == target {
			continue
		}
		if err := os.Rename(src, target); err != nil {
			p.log.Warn("move subtitle", "name", entry.Name(), "error", err)
			continue
		}
		p.log.Info("moved subtitle", "name", filepath.Base(target))
		p.summary.SubtitlesRenamed++
	}
}

// fixEpisodeTitles replaces generic "Episodul N" stems left by earlier runs
// once the catalog has a real localized title.
func (p *Pipeline) fixEpisodeTitles(ctx context.Context, showFolder string, id int64) error {
	_, localized, err := p.catalog.TVByID(ctx, id)
	if err != nil {
		return err
	}
	if localized == nil {
		return nil
	}
	showTitle := localized.DisplayTitle()
	updated := 0

	for _, seasonDir := range seasonFolderPaths(showFolder) {
		for _, video := range seasonVideos(seasonDir) {
			stem := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
			s, e, ok := ParseEpisode(stem)
			if !ok {
				continue
			}
			generic := fmt.Sprintf("Episodul %d", e)
			if !strings.Contains(stem, generic) {
				continue
			}

			proper := p.episodeTitle(ctx, id, s, e)
			if proper == "" || proper == generic {
				continue
			}
			newName := CanonicalEpisodeName(showTitle, s, e, proper) + filepath.Ext(video)
			if filepath.Base(video) == newName {
				continue
			}
			if err := os.Rename(video, filepath.Join(seasonDir, newName)); err != nil {
				p.log.Error("update episode title", "name", filepath.Base(video), "error", err)
				continue
			}
			p.log.Info("updated episode title", "name", newName)
			updated++
		}
	}

	if updated > 0 {
		p.log.Info("episode titles updated", "count", updated)
		p.summary.Changed = true
	}
	return nil
}

// seasonFolderPaths lists "Season NN" subdirectories of a show folder.
func seasonFolderPaths(showFolder string) []string {
	entries, err := os.ReadDir(showFolder)
	if err != nil {
		return nil
	}
	var seasons []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "Season") {
			seasons = append(seasons, filepath.Join(showFolder, entry.Name()))
		}
	}
	return seasons
}

// seasonVideos lists non-trailer videos inside one season folder.
func seasonVideos(seasonDir string) []string {
	entries, err := os.ReadDir(seasonDir)
	if err != nil {
		return nil
	}
	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoFile(entry.Name()) || isTrailerFile(entry.Name()) {
			continue
		}
		videos = append(videos, filepath.Join(seasonDir, entry.Name()))
	}
	return videos
}

// findEpisodeVideo locates the video in seasonDir carrying the given
// SxxEyy marker.
func findEpisodeVideo(seasonDir string, season, episode int) string {
	for _, video := range seasonVideos(seasonDir) {
		s, e, ok := ParseEpisode(filepath.Base(video))
		if ok && s == season && e == episode {
			return video
		}
	}
	return ""
}
