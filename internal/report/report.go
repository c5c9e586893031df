// Package report renders run summaries for the terminal and writes
// timestamped report files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"jellyprep/internal/library"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3498db"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8d99ae"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#edf2f4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2ecc71")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef233c")).
			Bold(true)
)

// Write saves a plain-text report for the run into dir and returns the
// file path. Files are named after the run start time.
func Write(sum *library.Summary, dir string) (string, error) {
	reportDir := filepath.Join(dir, "reports")
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := filepath.Join(reportDir, sum.Started.Format("20060102_150405")+".txt")
	if err := os.WriteFile(filename, []byte(buildContent(sum)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}

func buildContent(sum *library.Summary) string {
	var sb strings.Builder

	sb.WriteString("JELLYPREP RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Run ID: %s\n", sum.RunID))
	sb.WriteString(fmt.Sprintf("Started: %s\n", sum.Started.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", sum.Duration().Round(time.Millisecond)))
	sb.WriteString("\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Movie folders: %d\n", sum.MoviesSeen))
	sb.WriteString(fmt.Sprintf("Show folders: %d\n", sum.ShowsSeen))
	sb.WriteString(fmt.Sprintf("Movies processed: %d\n", sum.MoviesProcessed))
	sb.WriteString(fmt.Sprintf("Shows processed: %d\n", sum.ShowsProcessed))
	sb.WriteString(fmt.Sprintf("Episodes processed: %d\n", sum.EpisodesProcessed))
	sb.WriteString(fmt.Sprintf("Files renamed: %d\n", sum.FilesRenamed))
	sb.WriteString(fmt.Sprintf("Subtitles renamed: %d\n", sum.SubtitlesRenamed))
	sb.WriteString(fmt.Sprintf("Trailers downloaded: %d\n", sum.TrailerStats.Downloaded))
	sb.WriteString(fmt.Sprintf("Trailers failed: %d\n", sum.TrailerStats.Failed))
	sb.WriteString("\n")

	if len(sum.Errors) > 0 {
		sb.WriteString("ERRORS\n")
		sb.WriteString(strings.Repeat("=", 80) + "\n")
		for i, e := range sum.Errors {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Render formats a styled terminal summary of the run.
func Render(sum *library.Summary) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Run complete") + "\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Duration", sum.Duration().Round(time.Millisecond).String()},
		{"Movies", fmt.Sprintf("%d seen, %d processed", sum.MoviesSeen, sum.MoviesProcessed)},
		{"Shows", fmt.Sprintf("%d seen, %d processed", sum.ShowsSeen, sum.ShowsProcessed)},
		{"Episodes", fmt.Sprintf("%d", sum.EpisodesProcessed)},
		{"Renamed", fmt.Sprintf("%d files, %d subtitles", sum.FilesRenamed, sum.SubtitlesRenamed)},
		{"Trailers", fmt.Sprintf("%d downloaded, %d failed", sum.TrailerStats.Downloaded, sum.TrailerStats.Failed)},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-10s", row.label)),
			valueStyle.Render(row.value)))
	}

	sb.WriteString("\n")
	if len(sum.Errors) == 0 {
		sb.WriteString(successStyle.Render("No errors") + "\n")
	} else {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("%d error(s)", len(sum.Errors))) + "\n")
		for _, e := range sum.Errors {
			sb.WriteString("  " + valueStyle.Render(e) + "\n")
		}
	}

	return sb.String()
}
