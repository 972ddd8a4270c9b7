package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexbyte/editlog/internal/record"
	"github.com/hexbyte/editlog/internal/sequence"
)

// Entry pairs a record file's identifier with its decoded contents, for
// read-only inspection of a log directory.
type Entry struct {
	Name   string
	Record record.Record
}

// Entries lists a log directory's records in consumption order without
// mutating anything. A missing directory is an empty stack. Entries that do
// not decode are reported as errors rather than quarantined; inspection
// must never change what a later pop will see.
func (c *Changelog) Entries(dir Dir) ([]Entry, error) {
	ids, err := scanIDs(dir.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %v", ErrDirectory, filepath.Base(dir.Path), err)
	}
	sequence.Sort(ids)

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		data, err := os.ReadFile(filepath.Join(dir.Path, id.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrDirectory, id.Name(), err)
		}
		rec, err := record.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCodec, id.Name(), err)
		}
		entries = append(entries, Entry{Name: id.Name(), Record: rec})
	}
	return entries, nil
}
