package tmdb

import "testing"

func duneResults() []Record {
	return []Record{
		{ID: 438631, Title: "Dune", ReleaseDate: "2021-10-01"},
		{ID: 693134, Title: "Dune Part Two", ReleaseDate: "2024-02-01"},
	}
}

func TestBestMatchYearGate(t *testing.T) {
	tests := []struct {
		name     string
		year     string
		wantID   int64
		wantConf Confidence
	}{
		{"year selects first", "2021", 438631, MatchValidated},
		{"year selects second", "2024", 693134, MatchValidated},
		{"no year takes first subset match", "", 438631, MatchValidated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, conf := BestMatch(duneResults(), "Dune", tt.year)
			if match == nil {
				t.Fatal("expected a match")
			}
			if match.ID != tt.wantID {
				t.Errorf("BestMatch picked ID %d, want %d", match.ID, tt.wantID)
			}
			if conf != tt.wantConf {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConf)
			}
		})
	}
}

func TestBestMatchWordSubset(t *testing.T) {
	results := []Record{
		{ID: 1, Title: "Dune Messiah", ReleaseDate: "2026-01-01"},
		{ID: 2, Title: "Dune Part Two", ReleaseDate: "2024-02-01"},
	}
	match, conf := BestMatch(results, "Dune Part Two", "")
	if match.ID != 2 || conf != MatchValidated {
		t.Errorf("got ID %d conf %v, want 2 validated", match.ID, conf)
	}
}

func TestBestMatchFallback(t *testing.T) {
	// Nothing matches the year constraint; top TMDB result comes back as a
	// fallback pick.
	match, conf := BestMatch(duneResults(), "Dune", "1984")
	if match == nil {
		t.Fatal("expected a fallback match")
	}
	if match.ID != 438631 {
		t.Errorf("fallback picked ID %d, want first result", match.ID)
	}
	if conf != MatchFallback {
		t.Errorf("confidence = %v, want MatchFallback", conf)
	}
}

func TestBestMatchMissingDateWithYearConstraint(t *testing.T) {
	results := []Record{
		{ID: 1, Title: "Dune"},
		{ID: 2, Title: "Dune", ReleaseDate: "2021-10-01"},
	}
	match, conf := BestMatch(results, "Dune", "2021")
	if match.ID != 2 || conf != MatchValidated {
		t.Errorf("got ID %d conf %v; missing date must fail an active year gate", match.ID, conf)
	}
}

func TestBestMatchEmpty(t *testing.T) {
	match, conf := BestMatch(nil, "Dune", "2021")
	if match != nil || conf != MatchNone {
		t.Errorf("empty input must return no match, got %v %v", match, conf)
	}
}

func TestBestMatchDiacritics(t *testing.T) {
	results := []Record{
		{ID: 1, Title: "Amélie", ReleaseDate: "2001-04-25"},
	}
	match, conf := BestMatch(results, "Amelie", "2001")
	if match == nil || match.ID != 1 || conf != MatchValidated {
		t.Errorf("diacritic-insensitive match failed: %v %v", match, conf)
	}
}
