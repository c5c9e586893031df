package library

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Underworld: Evolution", "Underworld - Evolution"},
		{"What/If?", "WhatIf"},
		{"Plain Title", "Plain Title"},
		{`A<B>C"D|E*F`, "ABCDEF"},
		{"  doubled   spaces  ", "doubled spaces"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFolderName(t *testing.T) {
	tests := []struct {
		in, title, year string
	}{
		{"Dune (2021)", "Dune", "2021"},
		{"Dune (2021) [tmdb-438631]", "Dune", "2021"},
		{"The Office (US) (2005)", "The Office (US)", "2005"},
		{"No Year Here", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		title, year := ParseFolderName(tt.in)
		if title != tt.title || year != tt.year {
			t.Errorf("ParseFolderName(%q) = %q, %q; want %q, %q",
				tt.in, title, year, tt.title, tt.year)
		}
	}
}

func TestExtractTMDBID(t *testing.T) {
	if got := ExtractTMDBID("Dune (2021) [tmdb-438631]"); got != 438631 {
		t.Errorf("got %d, want 438631", got)
	}
	if got := ExtractTMDBID("Dune (2021)"); got != 0 {
		t.Errorf("untagged folder: got %d, want 0", got)
	}
}

func TestExtractYear(t *testing.T) {
	if got := ExtractYear("Metropolis (1927) [tmdb-19]"); got != 1927 {
		t.Errorf("got %d, want 1927", got)
	}
	if got := ExtractYear("No Year [tmdb-5]"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestParseEpisode(t *testing.T) {
	tests := []struct {
		in         string
		season, ep int
		ok         bool
	}{
		{"Show - S01E02 - Pilot", 1, 2, true},
		{"show.s03e11.1080p", 3, 11, true},
		{"random file", 0, 0, false},
	}
	for _, tt := range tests {
		s, e, ok := ParseEpisode(tt.in)
		if s != tt.season || e != tt.ep || ok != tt.ok {
			t.Errorf("ParseEpisode(%q) = %d, %d, %v; want %d, %d, %v",
				tt.in, s, e, ok, tt.season, tt.ep, tt.ok)
		}
	}
}

func TestCanonicalEpisodeName(t *testing.T) {
	got := CanonicalEpisodeName("Las Fierbinți", 5, 3, "Nunta: partea a doua")
	want := "Las Fierbinți - S05E03 - Nunta - partea a doua"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTaggedFolderName(t *testing.T) {
	got := TaggedFolderName("Dune (2021)", "Dune", "", "2021", 438631)
	if got != "Dune (2021) [tmdb-438631]" {
		t.Errorf("english tagging: got %q", got)
	}

	got = TaggedFolderName("Amelie (2001)", "Amelie", "Le Fabuleux Destin d'Amélie Poulain", "2001", 194)
	want := "Amelie (Le Fabuleux Destin d'Amélie Poulain) (2001) [tmdb-194]"
	if got != want {
		t.Errorf("original-title tagging: got %q, want %q", got, want)
	}
}

func TestFileKindChecks(t *testing.T) {
	if !IsVideoFile("movie.MKV") || !IsVideoFile("a.mp4") || IsVideoFile("a.nfo") {
		t.Error("video extension detection broken")
	}
	if !IsSubtitleFile("movie.srt") || IsSubtitleFile("movie.mkv") {
		t.Error("subtitle extension detection broken")
	}
}
