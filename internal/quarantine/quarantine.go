// Package quarantine relocates unprocessable record sets out of the live
// undo stack into timestamped holding directories for later inspection.
//
// Quarantine is best-effort: the engine has already decided to fail the
// operation, and a quarantine error must never mask that failure or abort
// the process.
package quarantine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// stampLayout names quarantine entries by UTC time at nanosecond precision,
// which keeps entries ordered and collision-free across rapid failures.
const stampLayout = "20060102T150405.000000000Z"

// diagnosticName is the per-entry diagnostic file written in debug mode.
const diagnosticName = "diagnostic.txt"

// Move relocates the given record files into a fresh timestamped
// subdirectory under root, creating the root on first use. When debug is
// set and a diagnostic is supplied, it is written beside the records.
//
// The destination directory path is returned. Files that cannot be moved
// are left behind; the first such error is returned after the remaining
// moves have been attempted.
func Move(root string, files []string, diagnostic string, debug bool) (string, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("unable to create quarantine root: %w", err)
	}

	dest, err := newEntryDir(root)
	if err != nil {
		return "", err
	}

	var firstErr error
	for _, f := range files {
		if err := os.Rename(f, filepath.Join(dest, filepath.Base(f))); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unable to quarantine %s: %w", filepath.Base(f), err)
		}
	}

	if debug && diagnostic != "" {
		// Best-effort; diagnostics never fail the quarantine.
		os.WriteFile(filepath.Join(dest, diagnosticName), []byte(diagnostic+"\n"), 0644)
	}

	return dest, firstErr
}

// newEntryDir creates a unique timestamped entry directory under root.
func newEntryDir(root string) (string, error) {
	stamp := time.Now().UTC().Format(stampLayout)
	dest := filepath.Join(root, stamp)

	for i := 0; ; i++ {
		err := os.Mkdir(dest, 0755)
		if err == nil {
			return dest, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("unable to create quarantine entry: %w", err)
		}
		dest = filepath.Join(root, fmt.Sprintf("%s-%d", stamp, i+2))
	}
}

// Sweep removes quarantine entries older than maxAge, returning how many
// were deleted. Entries whose names do not parse as timestamps are left
// alone. A missing root is a no-op.
func Sweep(root string, maxAge time.Duration) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if i := len(stampLayout); len(name) > i {
			name = name[:i] // trim the collision suffix
		}
		stamp, err := time.Parse(stampLayout, name)
		if err != nil {
			continue
		}
		if stamp.Before(cutoff) {
			if os.RemoveAll(filepath.Join(root, e.Name())) == nil {
				removed++
			}
		}
	}

	return removed
}
