// Package core implements the changelog engine: a persistent undo/redo
// journal for byte-level edits to a file.
//
// Every user edit gets an inverse record set written to the file's primary
// (undo) log directory. Popping the primary applies the inverse through the
// byte-mutation service and writes the complementary set into the secondary
// (redo) directory; popping the secondary applies without logging. Each
// transaction holds the acting directory's exclusive lock for its duration.
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexbyte/editlog/internal/fileedit"
	"github.com/hexbyte/editlog/internal/lock"
	"github.com/hexbyte/editlog/internal/logging"
	"github.com/hexbyte/editlog/internal/quarantine"
	"github.com/hexbyte/editlog/internal/record"
	"github.com/hexbyte/editlog/internal/sequence"
)

// FileEditor is the byte-mutation service the engine applies inverses
// through. Implementations guarantee the target file is left unmodified
// when a primitive fails internally.
type FileEditor interface {
	Size(path string) (int64, error)
	ReadAt(path string, pos int64, n int) ([]byte, error)
	InsertByteAt(path string, pos int64, b byte) error
	RemoveByteAt(path string, pos int64) error
	OverwriteByteAt(path string, pos int64, b byte) error
}

// Changelog journals undo/redo record sets for one target file.
//
// TargetPath must be absolute and canonical; path resolution happens at the
// caller's boundary, not here.
type Changelog struct {
	TargetPath string
	Editor     FileEditor
	Debug      bool
}

// New returns a Changelog for the given target file, mutating it through
// the default file editor unless WithEditor overrides it.
func New(targetPath string, opts ...Option) *Changelog {
	c := &Changelog{
		TargetPath: targetPath,
		Editor:     fileedit.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearRedo purges the secondary (redo) directory. Redo history is valid
// only until the next fresh edit invalidates it, so every public Record*
// path clears it first. A missing directory is success.
func (c *Changelog) ClearRedo() error {
	sec := SecondaryDir(c.TargetPath)
	if _, err := os.Stat(sec.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: stat redo directory: %v", ErrDirectory, err)
	}

	lk, err := lock.LockDirectory(sec.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	defer lock.UnlockDirectory(lk)

	entries, err := os.ReadDir(sec.Path)
	if err != nil {
		return fmt.Errorf("%w: list redo directory: %v", ErrDirectory, err)
	}
	for _, e := range entries {
		if e.Name() == lock.LockFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(sec.Path, e.Name())); err != nil {
			return fmt.Errorf("%w: purge redo entry: %v", ErrDirectory, err)
		}
	}

	logging.Debug("redo directory purged", "dir", sec.Path)
	return nil
}

// writeSet assigns identifiers to a record set and writes one file per
// part, lettered parts before the bare terminus so a crash mid-write leaves
// a set that later pops reject and quarantine rather than half-apply.
// Either every part lands or the partial result is quarantined.
func (c *Changelog) writeSet(dir Dir, recs []record.Record) error {
	if err := os.MkdirAll(dir.Path, logDirMode); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrDirectory, filepath.Base(dir.Path), err)
	}

	lk, err := lock.LockDirectory(dir.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	defer lock.UnlockDirectory(lk)

	ids, err := scanIDs(dir.Path)
	if err != nil {
		return fmt.Errorf("%w: list %s: %v", ErrDirectory, filepath.Base(dir.Path), err)
	}

	parts, ok := sequence.AssignParts(sequence.Next(ids), len(recs))
	if !ok {
		return fmt.Errorf("%w: %d parts in one set", ErrSequence, len(recs))
	}

	var written []string
	for i, id := range parts {
		data, err := record.Encode(recs[i])
		if err != nil {
			c.quarantineSet(written, "encode failure: "+err.Error())
			return fmt.Errorf("%w: %v", ErrCodec, err)
		}
		path := filepath.Join(dir.Path, id.Name())
		if err := writeFileSync(path, data); err != nil {
			c.quarantineSet(written, "partial record set: "+err.Error())
			return fmt.Errorf("%w: write record file: %v", ErrDirectory, err)
		}
		written = append(written, path)
	}

	logging.Debug("record set written",
		"dir", dir.Path, "seq", parts[0].Seq, "parts", len(recs))
	return nil
}

// quarantineSet diverts record files out of the live stack. Best-effort:
// quarantine never masks the failure that triggered it.
func (c *Changelog) quarantineSet(files []string, reason string) {
	if len(files) == 0 {
		return
	}
	dest, err := quarantine.Move(QuarantineRoot(c.TargetPath), files, reason, c.Debug)
	if err != nil {
		logging.Warn("quarantine move failed")
		logging.Debug("quarantine move failure", "err", err, "files", files)
		return
	}
	logging.Warn("record set quarantined")
	logging.Debug("quarantine detail", "dest", dest, "reason", reason)
}

// scanIDs lists a directory's record identifiers. Names that do not parse
// as identifiers (LOCK, debris) are skipped.
func scanIDs(dirPath string) ([]sequence.ID, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var ids []sequence.ID
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := sequence.Parse(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, recordFileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
