package tmdb

import "jellyprep/internal/textnorm"

// Confidence describes how a search result was selected.
type Confidence int

const (
	// MatchNone means no result could be selected at all.
	MatchNone Confidence = iota
	// MatchFallback means no result passed validation and the platform's
	// top-ranked result was returned as a lower-confidence pick.
	MatchFallback
	// MatchValidated means the result passed both the word-subset and year
	// checks.
	MatchValidated
)

func (c Confidence) String() string {
	switch c {
	case MatchValidated:
		return "validated"
	case MatchFallback:
		return "fallback"
	default:
		return "none"
	}
}

// BestMatch selects the correct search result for a query title and optional
// year. Results are scanned in the platform's own relevance order; the first
// result whose title contains every query word and whose date matches the
// year constraint wins. When nothing passes, the first result is returned as
// a fallback so callers can still proceed at reduced confidence.
func BestMatch(results []Record, queryTitle, queryYear string) (*Record, Confidence) {
	if len(results) == 0 {
		return nil, MatchNone
	}

	queryWords := textnorm.Tokenize(queryTitle)

	for i := range results {
		result := &results[i]

		if queryYear != "" && result.Year() != queryYear {
			continue
		}
		if queryWords.Len() > 0 && !queryWords.SubsetOf(textnorm.Tokenize(result.DisplayTitle())) {
			continue
		}
		return result, MatchValidated
	}

	return &results[0], MatchFallback
}
