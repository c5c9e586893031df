package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLedgerLifecycle(t *testing.T) {
	ledger := LoadLedger(filepath.Join(t.TempDir(), "failures.json"))

	if ledger.IsExcluded(42) {
		t.Error("fresh ledger must not exclude anything")
	}

	ledger.RecordFailure(42, "Old Movie (1985)")
	if ledger.IsExcluded(42) {
		t.Error("one failure must not exclude")
	}

	ledger.RecordFailure(42, "Old Movie (1985)")
	if !ledger.IsExcluded(42) {
		t.Error("second failure must flip the excluded flag")
	}

	// Further failures keep it excluded (sticky).
	ledger.RecordFailure(42, "Old Movie (1985)")
	if !ledger.IsExcluded(42) {
		t.Error("excluded flag must be sticky")
	}

	// A single success fully forgives.
	ledger.RecordSuccess(42)
	if ledger.IsExcluded(42) {
		t.Error("success must remove the entry")
	}
	if len(ledger.Entries()) != 0 {
		t.Errorf("entries = %v, want empty", ledger.Entries())
	}

	// A later failure starts a fresh entry.
	ledger.RecordFailure(42, "Old Movie (1985)")
	entry := ledger.Entries()["tmdb-42"]
	if entry.Count != 1 || entry.Excluded {
		t.Errorf("fresh entry = %+v, want count 1 not excluded", entry)
	}
}

func TestLedgerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")

	ledger := LoadLedger(path)
	ledger.RecordFailure(7, "Some Film (1990)")
	ledger.RecordFailure(7, "Some Film (1990)")
	if err := ledger.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded := LoadLedger(path)
	if !reloaded.IsExcluded(7) {
		t.Error("exclusion must survive a reload")
	}
	if reloaded.ExcludedCount() != 1 {
		t.Errorf("ExcludedCount = %d, want 1", reloaded.ExcludedCount())
	}
}

func TestLedgerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	ledger := LoadLedger(path)
	if len(ledger.Entries()) != 0 {
		t.Error("corrupt ledger must degrade to empty")
	}
	ledger.RecordFailure(1, "x")
	if err := ledger.Save(); err != nil {
		t.Errorf("save after corrupt load: %v", err)
	}
}
