// Package nfo emits Jellyfin-readable NFO sidecar files and reads back the
// catalog identifier embedded in them for freshness checks.
package nfo

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"jellyprep/internal/tmdb"
)

type movie struct {
	XMLName xml.Name `xml:"movie"`

	Title         string   `xml:"title"`
	OriginalTitle string   `xml:"originaltitle,omitempty"`
	Plot          string   `xml:"plot,omitempty"`
	Premiered     string   `xml:"premiered,omitempty"`
	Year          string   `xml:"year,omitempty"`
	TMDBID        string   `xml:"tmdbid"`
	Genres        []string `xml:"genre,omitempty"`
}

type tvshow struct {
	XMLName xml.Name `xml:"tvshow"`

	Title         string   `xml:"title"`
	OriginalTitle string   `xml:"originaltitle,omitempty"`
	Plot          string   `xml:"plot,omitempty"`
	Premiered     string   `xml:"premiered,omitempty"`
	Year          string   `xml:"year,omitempty"`
	TMDBID        string   `xml:"tmdbid"`
	Genres        []string `xml:"genre,omitempty"`
}

type episodedetails struct {
	XMLName xml.Name `xml:"episodedetails"`

	Title   string `xml:"title"`
	Plot    string `xml:"plot,omitempty"`
	Season  int    `xml:"season"`
	Episode int    `xml:"episode"`
	Aired   string `xml:"aired,omitempty"`
}

// WriteMovie writes a movie NFO for the given record.
func WriteMovie(rec *tmdb.Record, path string) error {
	doc := movie{
		Title:         rec.DisplayTitle(),
		OriginalTitle: rec.OriginalDisplayTitle(),
		Plot:          rec.Overview,
		Premiered:     rec.Date(),
		Year:          rec.Year(),
		TMDBID:        strconv.FormatInt(rec.ID, 10),
		Genres:        genreNames(rec.Genres),
	}
	return write(doc, path)
}

// WriteShow writes a tvshow.nfo for the given record.
func WriteShow(rec *tmdb.Record, path string) error {
	doc := tvshow{
		Title:         rec.DisplayTitle(),
		OriginalTitle: rec.OriginalDisplayTitle(),
		Plot:          rec.Overview,
		Premiered:     rec.Date(),
		Year:          rec.Year(),
		TMDBID:        strconv.FormatInt(rec.ID, 10),
		Genres:        genreNames(rec.Genres),
	}
	return write(doc, path)
}

// WriteEpisode writes an episode NFO.
func WriteEpisode(ep *tmdb.Episode, path string) error {
	doc := episodedetails{
		Title:   ep.Name,
		Plot:    ep.Overview,
		Season:  ep.SeasonNumber,
		Episode: ep.EpisodeNumber,
		Aired:   ep.AirDate,
	}
	return write(doc, path)
}

// ReadTMDBID extracts the tmdbid element from an existing NFO. Returns 0
// when the file is missing, unreadable, or carries no identifier.
func ReadTMDBID(path string) int64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var doc struct {
		TMDBID string `xml:"tmdbid"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(doc.TMDBID), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func genreNames(genres []tmdb.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

func write(doc any, path string) error {
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode nfo: %w", err)
	}
	content := append([]byte(xml.Header), data...)
	content = append(content, '\n')
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write nfo: %w", err)
	}
	return nil
}
