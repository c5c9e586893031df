package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMarksLifecycle(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	marks := LoadMarks(filepath.Join(dir, "state.json"))
	if marks.IsProcessed(video) {
		t.Error("unmarked file must not be processed")
	}

	if err := marks.Mark(video); err != nil {
		t.Fatal(err)
	}
	if !marks.IsProcessed(video) {
		t.Error("marked file must be processed")
	}
}

func TestMarksInvalidatedByModification(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	marks := LoadMarks(filepath.Join(dir, "state.json"))
	if err := marks.Mark(video); err != nil {
		t.Fatal(err)
	}

	// Push the mtime well past the 1s tolerance.
	newTime := time.Now().Add(10 * time.Second)
	if err := os.Chtimes(video, newTime, newTime); err != nil {
		t.Fatal(err)
	}

	if marks.IsProcessed(video) {
		t.Error("modified file must lose its mark")
	}
}

func TestMarksWriteThrough(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	statePath := filepath.Join(dir, "state.json")
	if err := os.WriteFile(video, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	marks := LoadMarks(statePath)
	if err := marks.Mark(video); err != nil {
		t.Fatal(err)
	}

	// A fresh load must already see the mark: saves are write-through.
	reloaded := LoadMarks(statePath)
	if !reloaded.IsProcessed(video) {
		t.Error("mark must be persisted immediately")
	}
}

func TestMarksMissingFileNotProcessed(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	marks := LoadMarks(filepath.Join(dir, "state.json"))
	if err := marks.Mark(video); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(video); err != nil {
		t.Fatal(err)
	}
	if marks.IsProcessed(video) {
		t.Error("deleted file must not count as processed")
	}
}

func TestMarksCorruptFile(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	if err := os.WriteFile(statePath, []byte("{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	marks := LoadMarks(statePath)
	if marks.Len() != 0 {
		t.Error("corrupt index must degrade to empty")
	}
}
