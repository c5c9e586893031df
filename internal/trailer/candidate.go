// Package trailer implements validated trailer search: query generation,
// candidate scoring, the search orchestrator, and the yt-dlp collaborators.
package trailer

import "time"

// Kind distinguishes movie and TV show search contexts.
type Kind int

const (
	KindMovie Kind = iota
	KindShow
)

func (k Kind) String() string {
	if k == KindShow {
		return "show"
	}
	return "movie"
}

const (
	// ScoreRejected marks a candidate that failed a hard check and must
	// never compete for best.
	ScoreRejected = -1

	// MinScore is the acceptance floor: any candidate passing the hard
	// filters scores at least this much and is eligible to win.
	MinScore = 5

	// HighConfidenceScore stops the search early once reached; remaining
	// less-specific queries are never issued.
	HighConfidenceScore = 12

	// maxResultsPerQuery caps each search invocation.
	maxResultsPerQuery = 10

	// queryDelay paces consecutive search queries to stay under the
	// platform's rate limits.
	queryDelay = 2 * time.Second
)

// Candidate is a single video search result.
type Candidate struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	ChannelVerified bool   `json:"channel_is_verified"`
	Duration        int    `json:"duration"` // seconds
}

// URL returns the watch URL for the candidate.
func (c Candidate) URL() string {
	return "https://www.youtube.com/watch?v=" + c.ID
}

// Match is a candidate together with its score.
type Match struct {
	Candidate
	Score int
}
