package trailer

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"jellyprep/internal/textnorm"
)

// Searcher is the video-search collaborator. An empty result set is a valid,
// non-error outcome.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Candidate, error)
}

// Downloader fetches a located video to a destination path.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Finder drives the query list against the search collaborator and picks the
// best-scoring candidate.
type Finder struct {
	searcher Searcher
	limiter  *rate.Limiter
	log      *slog.Logger
}

// NewFinder creates a Finder. The internal limiter paces queries so no two
// searches run closer together than the platform courtesy delay.
func NewFinder(searcher Searcher, log *slog.Logger) *Finder {
	if log == nil {
		log = slog.Default()
	}
	return &Finder{
		searcher: searcher,
		limiter:  rate.NewLimiter(rate.Every(queryDelay), 1),
		log:      log,
	}
}

// Find searches for a trailer matching the given titles, year, and category.
// Returns nil when no candidate reaches the acceptance floor.
//
// The reference title for word matching is localized when non-empty,
// otherwise fallback; when both are empty no search happens at all.
func (f *Finder) Find(ctx context.Context, localized, fallback, year string, kind Kind, seasonNum int) (*Match, error) {
	refTitle := localized
	if refTitle == "" {
		refTitle = fallback
	}
	if refTitle == "" {
		return nil, nil
	}
	titleWords := textnorm.Tokenize(refTitle)
	if titleWords.Len() == 0 {
		return nil, nil
	}

	queries := BuildQueries(localized, fallback, year, kind, seasonNum)

	f.log.Info("trailer search",
		"ref", refTitle, "year", year, "kind", kind.String(),
		"season", seasonNum, "queries", len(queries))

	seen := make(map[string]struct{})
	var candidates []Candidate
	emptyQueries := 0

	for _, query := range queries {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		results, err := f.searcher.Search(ctx, query, maxResultsPerQuery)
		if err != nil {
			f.log.Warn("search query failed", "query", query, "error", err)
			continue
		}
		if len(results) == 0 {
			emptyQueries++
			f.log.Warn("search returned no results", "query", query)
		}
		for _, r := range results {
			if r.ID == "" {
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			candidates = append(candidates, r)
		}

		if best := pickBest(candidates, titleWords, year, kind, seasonNum); best != nil && best.Score >= HighConfidenceScore {
			f.log.Info("early trailer match",
				"score", best.Score, "title", best.Title, "channel", best.Channel)
			return best, nil
		}
	}

	// Distinguishes "nothing matched" from "search itself is broken"; does
	// not change control flow.
	if emptyQueries == len(queries) && len(queries) > 0 {
		f.log.Error("all search queries returned zero results",
			"ref", refTitle, "queries", len(queries))
	}

	best := pickBest(candidates, titleWords, year, kind, seasonNum)
	if best != nil {
		f.log.Info("best trailer match",
			"score", best.Score, "title", best.Title, "channel", best.Channel)
		return best, nil
	}

	if len(candidates) > 0 {
		f.log.Warn("no candidate passed validation",
			"ref", refTitle, "candidates", len(candidates))
	} else {
		f.log.Warn("no trailer candidates found", "ref", refTitle)
	}
	return nil, nil
}
