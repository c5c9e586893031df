package tmdb

import "strings"

// Genre is a single TMDB genre entry.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Record represents a TMDB movie or TV show. Movie payloads populate Title
// and ReleaseDate; TV payloads populate Name and FirstAirDate.
type Record struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	OriginalTitle    string  `json:"original_title"`
	OriginalName     string  `json:"original_name"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Genres           []Genre `json:"genres"`
	Popularity       float64 `json:"popularity"`
}

// DisplayTitle returns the movie title or show name, whichever is set.
func (r *Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// OriginalDisplayTitle returns the original-language title or name.
func (r *Record) OriginalDisplayTitle() string {
	if r.OriginalTitle != "" {
		return r.OriginalTitle
	}
	return r.OriginalName
}

// Date returns the release date or first air date, whichever is set.
func (r *Record) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// Year returns the 4-digit year prefix of the record's date, or "".
func (r *Record) Year() string {
	date := r.Date()
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// searchResponse models the TMDB paginated search payload.
type searchResponse struct {
	Page         int      `json:"page"`
	Results      []Record `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Episode describes a single TMDB episode entry.
type Episode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date"`
	StillPath     string `json:"still_path"`
}

// IsGenericName reports whether the episode name is a placeholder like
// "Episode 4" or "Episodul 4" rather than a real title.
func (e *Episode) IsGenericName() bool {
	name := strings.TrimSpace(e.Name)
	for _, prefix := range []string{"Episode ", "Episodul "} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
