package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"jellyprep/internal/tmdb"
)

// tagFolder parses the folder name, searches the catalog and renames the
// folder with the [tmdb-ID] tag appended. Returns the new path, or "" when
// the folder cannot be tagged (unparseable name, no match, target exists).
// An untaggable folder is skipped, not treated as a run error.
func (p *Pipeline) tagFolder(ctx context.Context, folder string, kind mediaKind) (string, error) {
	name := filepath.Base(folder)
	title, year := ParseFolderName(name)
	if title == "" {
		p.log.Debug("cannot parse folder name", "folder", name)
		return "", nil
	}

	p.log.Info("new media detected", "kind", kind, "title", title, "year", year)

	var en *tmdb.Record
	var conf tmdb.Confidence
	var err error
	if kind == kindMovie {
		en, _, conf, err = p.catalog.SearchMovie(ctx, title, year)
	} else {
		en, _, conf, err = p.catalog.SearchTV(ctx, title, year)
	}
	if err != nil {
		return "", fmt.Errorf("search %q: %w", title, err)
	}
	if en == nil {
		p.log.Warn("no catalog match", "kind", kind, "folder", name)
		return "", nil
	}
	if conf == tmdb.MatchFallback {
		p.log.Warn("low-confidence catalog match", "folder", name,
			"matched", en.DisplayTitle())
	}

	// Non-English productions keep the original title in the folder name so
	// both spellings stay searchable.
	var origTitle string
	if en.OriginalLanguage != "en" {
		if orig := en.OriginalDisplayTitle(); orig != "" && orig != en.DisplayTitle() {
			origTitle = orig
		}
	}

	newName := TaggedFolderName(name, title, origTitle, year, en.ID)
	newPath := filepath.Join(filepath.Dir(folder), newName)
	if _, err := os.Stat(newPath); err == nil {
		p.log.Warn("target folder already exists", "target", newName)
		return "", nil
	}

	if err := os.Rename(folder, newPath); err != nil {
		return "", fmt.Errorf("tag rename: %w", err)
	}
	p.log.Info("tagged folder", "name", newName, "matched", en.DisplayTitle())
	return newPath, nil
}

type mediaKind int

const (
	kindMovie mediaKind = iota
	kindShow
)

func (k mediaKind) String() string {
	if k == kindMovie {
		return "movie"
	}
	return "show"
}
