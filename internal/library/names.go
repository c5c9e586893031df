// Package library walks the media folders and runs each one through the
// tag -> rename -> metadata -> trailer pipeline.
package library

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var videoExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".m4v": {}, ".ts": {}, ".m2ts": {},
}

var subtitleExtensions = map[string]struct{}{
	".srt": {}, ".sub": {}, ".ass": {}, ".ssa": {}, ".vtt": {},
}

var (
	tmdbTagRegex    = regexp.MustCompile(`\s*\[tmdb-(\d+)\]`)
	folderNameRegex = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)\s*$`)
	yearParenRegex  = regexp.MustCompile(`\((\d{4})\)`)
	episodeSERegex  = regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,2})`)
	invalidCharRe   = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// IsVideoFile reports whether path has a recognized video extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsSubtitleFile reports whether path has a recognized subtitle extension.
func IsSubtitleFile(path string) bool {
	_, ok := subtitleExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// isTrailerFile matches the fixed trailer file naming.
func isTrailerFile(name string) bool {
	return strings.Contains(strings.ToLower(name), "trailer")
}

// SanitizeFilename removes characters that are invalid in file names.
// Colons become " -" so "Underworld: Evolution" stays readable.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", " -")
	name = invalidCharRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// ParseFolderName extracts title and year from a folder named
// "Title (YYYY)", tolerating an already-appended [tmdb-ID] tag.
// Returns empty strings when the name does not follow the convention.
func ParseFolderName(folderName string) (title, year string) {
	clean := strings.TrimSpace(tmdbTagRegex.ReplaceAllString(folderName, ""))
	m := folderNameRegex.FindStringSubmatch(clean)
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// ExtractTMDBID pulls the catalog identifier out of a tagged name like
// "Title (2006) [tmdb-1234]". Returns 0 when untagged.
func ExtractTMDBID(name string) int64 {
	m := tmdbTagRegex.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ExtractYear returns the parenthesized release year from a folder name, or
// 0 when absent.
func ExtractYear(name string) int {
	m := yearParenRegex.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

// ParseEpisode extracts season and episode numbers from an SxxEyy marker in
// a file stem.
func ParseEpisode(stem string) (season, episode int, ok bool) {
	m := episodeSERegex.FindStringSubmatch(stem)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}

// CanonicalEpisodeName builds the canonical episode file stem:
// "Show - S01E02 - Episode Title".
func CanonicalEpisodeName(showTitle string, season, episode int, episodeTitle string) string {
	name := fmt.Sprintf("%s - S%02dE%02d - %s",
		showTitle, season, episode, SanitizeFilename(episodeTitle))
	return SanitizeFilename(name)
}

// TaggedFolderName appends the catalog tag to a folder name, optionally
// inserting the original-language title for non-English productions.
func TaggedFolderName(currentName, title, origTitle, year string, tmdbID int64) string {
	if origTitle != "" {
		safeOrig := SanitizeFilename(origTitle)
		return fmt.Sprintf("%s (%s) (%s) [tmdb-%d]", title, safeOrig, year, tmdbID)
	}
	return fmt.Sprintf("%s [tmdb-%d]", currentName, tmdbID)
}

// seasonFolderName builds the canonical "Season NN" directory name.
func seasonFolderName(season int) string {
	return fmt.Sprintf("Season %02d", season)
}
