package trailer

import (
	"fmt"
	"strings"

	"jellyprep/internal/textnorm"
)

// rejectSubstrings lists normalized title fragments that disqualify a
// candidate outright, regardless of any positive signal. Substring match,
// not token match, so "behind the scenes" is caught as a phrase.
var rejectSubstrings = []string{
	"interview", "interviu", "recap", "review", "reaction",
	"explained", "breakdown", "behind the scenes", "making of",
	"full movie", "full episode", "rezumat", "episod complet",
}

// seasonPhrases generates the accepted ways a title can reference season n.
func seasonPhrases(n int) []string {
	return []string{
		fmt.Sprintf("season %d", n),
		fmt.Sprintf("sezon %d", n),
		fmt.Sprintf("sezonul %d", n),
		fmt.Sprintf("sez %d", n),
		fmt.Sprintf("s%02d", n),
		fmt.Sprintf("s%d ", n),
		fmt.Sprintf("series %d", n),
		fmt.Sprintf("seria %d", n),
	}
}

// Score rates a candidate against the reference title words, year, and
// category. Returns ScoreRejected when any hard check fails; otherwise a
// non-negative score starting from the base of 5.
//
// seasonNum > 0 means the search is for a specific season's trailer; the
// candidate title must then reference that season.
func Score(c Candidate, titleWords textnorm.WordSet, year string, kind Kind, seasonNum int) int {
	normTitle := textnorm.Normalize(c.Title)
	videoWords := textnorm.Tokenize(c.Title)

	if !videoWords.Contains("trailer") {
		return ScoreRejected
	}
	if !titleWords.SubsetOf(videoWords) {
		return ScoreRejected
	}
	for _, kw := range rejectSubstrings {
		if strings.Contains(normTitle, kw) {
			return ScoreRejected
		}
	}
	if seasonNum > 0 {
		found := false
		for _, phrase := range seasonPhrases(seasonNum) {
			if strings.Contains(normTitle, phrase) {
				found = true
				break
			}
		}
		if !found {
			return ScoreRejected
		}
	}

	score := MinScore

	if year != "" && videoWords.Contains(year) {
		score += 3
	}
	if c.ChannelVerified {
		score += 4
	}
	if videoWords.Contains("official") || videoWords.Contains("oficial") {
		score += 3
	}
	// Red band trailers are the uncensored cut.
	if videoWords.Contains("red") && videoWords.Contains("band") {
		score += 5
	}
	switch {
	case c.Duration >= 30 && c.Duration <= 240:
		score += 2
	case c.Duration > 600:
		score -= 3
	}
	if videoWords.Len() <= 10 {
		score++
	}

	return score
}

// pickBest returns the highest-scoring candidate at or above MinScore, or
// nil when nothing qualifies.
func pickBest(candidates []Candidate, titleWords textnorm.WordSet, year string, kind Kind, seasonNum int) *Match {
	var best *Match
	bestScore := MinScore - 1

	for _, c := range candidates {
		score := Score(c, titleWords, year, kind, seasonNum)
		if score > bestScore {
			bestScore = score
			best = &Match{Candidate: c, Score: score}
		}
	}
	return best
}
