package state

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"os"
)

// mtimeTolerance allows for filesystems that round modification times.
const mtimeTolerance = 1.0 // seconds

// Marks is the processed-file index: path -> modification time at the moment
// the file was handled. Any re-encode or touch invalidates the mark.
type Marks struct {
	path  string
	files map[string]float64
}

// LoadMarks reads the mark index, degrading to empty on a missing or corrupt
// file.
func LoadMarks(path string) *Marks {
	marks := &Marks{
		path:  path,
		files: make(map[string]float64),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("mark index unreadable, starting empty", "path", path, "error", err)
		}
		return marks
	}
	if err := json.Unmarshal(data, &marks.files); err != nil {
		slog.Warn("mark index corrupt, starting empty", "path", path, "error", err)
		marks.files = make(map[string]float64)
	}
	return marks
}

// IsProcessed reports whether filePath was already handled and has not been
// modified since. A file that no longer stats is not processed.
func (m *Marks) IsProcessed(filePath string) bool {
	stored, ok := m.files[filePath]
	if !ok {
		return false
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	current := float64(info.ModTime().UnixNano()) / 1e9
	return math.Abs(current-stored) < mtimeTolerance
}

// Mark records filePath as handled at its current modification time and
// writes the index through to disk immediately.
func (m *Marks) Mark(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	m.files[filePath] = float64(info.ModTime().UnixNano()) / 1e9
	return writeJSONAtomic(m.path, m.files)
}

// Len returns the number of marked files.
func (m *Marks) Len() int {
	return len(m.files)
}

// Reset drops all marks and removes the index file, forcing a fresh scan.
func (m *Marks) Reset() error {
	m.files = make(map[string]float64)
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
