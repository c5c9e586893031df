package trailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultBinary   = "yt-dlp"
	searchTimeout   = 120 * time.Second
	downloadTimeout = 300 * time.Second
)

// YTDLP wraps the yt-dlp CLI as both the search and download collaborator.
type YTDLP struct {
	binary string
	log    *slog.Logger
}

var (
	_ Searcher   = (*YTDLP)(nil)
	_ Downloader = (*YTDLP)(nil)
)

// NewYTDLP creates a yt-dlp wrapper. binary may be empty to use the default
// lookup on PATH.
func NewYTDLP(binary string, log *slog.Logger) *YTDLP {
	if binary == "" {
		binary = defaultBinary
	}
	if log == nil {
		log = slog.Default()
	}
	return &YTDLP{binary: binary, log: log}
}

// Search runs a yt-dlp metadata-only search and decodes one candidate per
// stdout line. yt-dlp may exit non-zero when some videos fail
// (age-restricted etc.) while still producing usable output, so the exit
// status alone is not treated as a failure.
func (y *YTDLP) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, y.binary,
		"--dump-json",
		"--default-search", fmt.Sprintf("ytsearch%d", maxResults),
		"--no-playlist", "--no-download",
		query,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("search timed out: %w", ctx.Err())
	}
	if err != nil && stdout.Len() == 0 {
		snippet := stderr.String()
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		y.log.Debug("yt-dlp search failed", "query", query, "stderr", snippet)
		return nil, nil
	}

	var candidates []Candidate
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var c Candidate
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Download fetches the best combined video+audio stream and muxes it to mkv
// at dest. Success requires both a zero exit status and the destination file
// existing afterwards.
func (y *YTDLP) Download(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, y.binary,
		"--format", "bestvideo+bestaudio/best",
		"--merge-output-format", "mkv",
		"--output", dest,
		"--no-playlist",
		"--quiet", "--no-warnings",
		url,
	)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("download timed out: %w", ctx.Err())
		}
		return fmt.Errorf("yt-dlp download: %w", err)
	}
	if _, err := os.Stat(dest); err != nil {
		return fmt.Errorf("download reported success but %s is missing", dest)
	}
	return nil
}
