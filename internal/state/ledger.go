package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

const (
	// MaxTrailerAttempts is the failure count at which an item becomes
	// permanently excluded from trailer search.
	MaxTrailerAttempts = 2

	// ExclusionYearCutoff bounds which items can be excluded at all.
	// Content released in or after this year always gets retried: recent
	// titles are assumed to eventually have trailers surface.
	ExclusionYearCutoff = 2000
)

// LedgerEntry tracks repeated trailer-search failures for one catalog item.
type LedgerEntry struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Excluded bool   `json:"excluded"`
}

// Ledger is the persistent per-item failure counter. Loaded once per run and
// written back after mutation at end of run.
type Ledger struct {
	path    string
	entries map[string]*LedgerEntry
}

func ledgerKey(tmdbID int64) string {
	return fmt.Sprintf("tmdb-%d", tmdbID)
}

// LoadLedger reads the ledger file, degrading to an empty ledger when the
// file is missing or unreadable.
func LoadLedger(path string) *Ledger {
	ledger := &Ledger{
		path:    path,
		entries: make(map[string]*LedgerEntry),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("trailer ledger unreadable, starting empty", "path", path, "error", err)
		}
		return ledger
	}
	if err := json.Unmarshal(data, &ledger.entries); err != nil {
		slog.Warn("trailer ledger corrupt, starting empty", "path", path, "error", err)
		ledger.entries = make(map[string]*LedgerEntry)
	}
	return ledger
}

// IsExcluded reports whether the item is permanently excluded.
func (l *Ledger) IsExcluded(tmdbID int64) bool {
	entry, ok := l.entries[ledgerKey(tmdbID)]
	return ok && entry.Excluded
}

// RecordFailure increments the failure count for an item, creating the entry
// on first failure. Reaching MaxTrailerAttempts flips the sticky excluded
// flag.
func (l *Ledger) RecordFailure(tmdbID int64, name string) {
	key := ledgerKey(tmdbID)
	entry, ok := l.entries[key]
	if !ok {
		entry = &LedgerEntry{}
		l.entries[key] = entry
	}
	entry.Count++
	entry.Name = name
	if entry.Count >= MaxTrailerAttempts && !entry.Excluded {
		entry.Excluded = true
		slog.Info("permanently excluding item from trailer search",
			"name", name, "failures", entry.Count)
	}
}

// RecordSuccess removes the item's entry entirely. A single success fully
// forgives prior failures.
func (l *Ledger) RecordSuccess(tmdbID int64) {
	delete(l.entries, ledgerKey(tmdbID))
}

// Entries returns a copy of the current ledger contents keyed by the
// namespaced identifier string.
func (l *Ledger) Entries() map[string]LedgerEntry {
	out := make(map[string]LedgerEntry, len(l.entries))
	for k, v := range l.entries {
		out[k] = *v
	}
	return out
}

// ExcludedCount returns how many items are permanently excluded.
func (l *Ledger) ExcludedCount() int {
	n := 0
	for _, entry := range l.entries {
		if entry.Excluded {
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (l *Ledger) Clear() {
	l.entries = make(map[string]*LedgerEntry)
}

// Save writes the ledger back to disk.
func (l *Ledger) Save() error {
	return writeJSONAtomic(l.path, l.entries)
}
