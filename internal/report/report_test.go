package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jellyprep/internal/library"
	"jellyprep/internal/trailer"
)

func sampleSummary() *library.Summary {
	start := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return &library.Summary{
		RunID:             "run-1234",
		Started:           start,
		Finished:          start.Add(90 * time.Second),
		MoviesSeen:        12,
		ShowsSeen:         3,
		MoviesProcessed:   2,
		ShowsProcessed:    1,
		EpisodesProcessed: 8,
		FilesRenamed:      10,
		SubtitlesRenamed:  4,
		TrailerStats:      trailer.Stats{Downloaded: 2, Failed: 1},
		Changed:           true,
	}
}

func TestWriteCreatesTimestampedReport(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(sampleSummary(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(path) != "20260314_103000.txt" {
		t.Errorf("unexpected report name: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{
		"Run ID: run-1234",
		"Movie folders: 12",
		"Files renamed: 10",
		"Trailers downloaded: 2",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(content, "ERRORS") {
		t.Error("error section present for clean run")
	}
}

func TestWriteIncludesErrors(t *testing.T) {
	sum := sampleSummary()
	sum.Errors = []string{"Dune (2021): api down"}

	path, err := Write(sum, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "1. Dune (2021): api down") {
		t.Error("errors not listed in report")
	}
}

func TestRenderSummary(t *testing.T) {
	out := Render(sampleSummary())
	for _, want := range []string{"Run complete", "12 seen, 2 processed", "No errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	sum := sampleSummary()
	sum.Errors = []string{"boom"}
	out = Render(sum)
	if !strings.Contains(out, "1 error(s)") || !strings.Contains(out, "boom") {
		t.Error("render missing error details")
	}
}
