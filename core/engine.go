package core

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/hexbyte/editlog/internal/lock"
	"github.com/hexbyte/editlog/internal/logging"
	"github.com/hexbyte/editlog/internal/record"
	"github.com/hexbyte/editlog/internal/sequence"
)

// Undo pops the newest record set from the primary directory, applies it to
// the target file and writes the complementary set into the secondary
// directory.
func (c *Changelog) Undo() error {
	return c.PopApply(PrimaryDir(c.TargetPath))
}

// Redo pops the newest record set from the secondary directory and applies
// it. No complement is written: logging a redo pop would re-grow the undo
// side and loop history.
func (c *Changelog) Redo() error {
	return c.PopApply(SecondaryDir(c.TargetPath))
}

// PopApply consumes the newest record set from dir: decode, validate, apply
// each part in consumption order, then delete the record files. A set that
// fails any of those steps is quarantined and the error reported; the
// target file carries no partial application, and the next-highest set
// becomes the top.
func (c *Changelog) PopApply(dir Dir) error {
	if _, err := os.Stat(dir.Path); err != nil {
		if os.IsNotExist(err) {
			return ErrEmptyStack
		}
		return fmt.Errorf("%w: stat %s: %v", ErrDirectory, filepath.Base(dir.Path), err)
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
	if len(ids) == 0 {
		return ErrEmptyStack
	}

	sequence.Sort(ids)
	set := topSet(ids)

	// The whole set stands or falls together: every part's path is known up
	// front so a failure on any one part quarantines all of them, never
	// leaving a remnant that would later apply as a wrong one-part set.
	files := make([]string, len(set))
	for i, id := range set {
		files[i] = filepath.Join(dir.Path, id.Name())
	}

	recs := make([]record.Record, len(set))
	for i, id := range set {
		data, err := os.ReadFile(files[i])
		if err != nil {
			c.quarantineSet(files, "unreadable record file "+id.Name()+": "+err.Error())
			return fmt.Errorf("%w: read record file %s: %v", ErrDirectory, id.Name(), err)
		}
		recs[i], err = record.Decode(data)
		if err != nil {
			c.quarantineSet(files, "decode failure in "+id.Name()+": "+err.Error())
			return fmt.Errorf("%w: %s: %v", ErrCodec, id.Name(), err)
		}
	}

	if err := validateSet(set, recs); err != nil {
		c.quarantineSet(files, "invalid record set: "+err.Error())
		return err
	}

	anchor, ok := recs[0].Pos.Offset()
	if !ok {
		c.quarantineSet(files, "position beyond addressable range")
		return fmt.Errorf("%w: position %s beyond addressable range", ErrValidation, recs[0].Pos.String())
	}

	size, err := c.Editor.Size(c.TargetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrApply, err)
	}
	if err := checkBounds(recs[0].Kind, anchor, len(recs), size); err != nil {
		c.quarantineSet(files, err.Error())
		return err
	}

	var captured []byte
	switch recs[0].Kind {
	case record.Add:
		err = c.applyInserts(anchor, recs)
	case record.Remove:
		captured, err = c.applyRemoves(anchor, len(recs))
	case record.Edit:
		captured, err = c.applyEdit(anchor, recs[0].Byte)
	}
	if err != nil {
		c.quarantineSet(files, "apply failure: "+err.Error())
		return err
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("%w: pop record file: %v", ErrDirectory, err)
		}
	}

	logging.Debug("record set applied",
		"dir", dir.Role.String(), "seq", set[0].Seq, "kind", recs[0].Kind.String(), "parts", len(recs))

	if dir.Role == RolePrimary {
		comp := complement(recs[0].Kind, anchor, len(recs), recs, captured)
		if err := c.writeSet(SecondaryDir(c.TargetPath), comp); err != nil {
			// The undo itself already applied and popped; only the redo side
			// is missing.
			logging.Warn("undo applied but redo set not written")
			logging.Debug("redo synthesis failure", "err", err, "seq", set[0].Seq)
			return fmt.Errorf("undo applied, redo not logged: %w", err)
		}
	}
	return nil
}

// topSet returns the leading run of identifiers sharing the highest
// sequence number. ids must already be in consumption order.
func topSet(ids []sequence.ID) []sequence.ID {
	n := 1
	for n < len(ids) && ids[n].Seq == ids[0].Seq {
		n++
	}
	return ids[:n]
}

// validateSet checks a decoded set against the part-chain and multi-byte
// rules before anything touches the target file.
func validateSet(set []sequence.ID, recs []record.Record) error {
	n := len(set)
	if n > sequence.MaxParts {
		return fmt.Errorf("%w: %d parts under sequence %d", ErrSequence, n, set[0].Seq)
	}
	if !set[n-1].Bare() {
		return fmt.Errorf("%w: sequence %d has no terminal part", ErrSequence, set[0].Seq)
	}
	for i := 0; i < n-1; i++ {
		want := byte('a' + n - 2 - i)
		if set[i].Part != want {
			return fmt.Errorf("%w: sequence %d part %q, want %q",
				ErrSequence, set[0].Seq, string(set[i].Part), string(want))
		}
	}

	for i := 1; i < n; i++ {
		if recs[i].Kind != recs[0].Kind {
			return fmt.Errorf("%w: mixed kinds under sequence %d", ErrSequence, set[0].Seq)
		}
		if !recs[i].Pos.Equal(recs[0].Pos) {
			return fmt.Errorf("%w: divergent positions under sequence %d", ErrSequence, set[0].Seq)
		}
	}

	if n > 1 {
		if recs[0].Kind == record.Edit {
			return fmt.Errorf("%w: multi-part edt set", ErrValidation)
		}
		if recs[0].Kind == record.Add {
			// Parts apply last original byte first, so original order is
			// the reverse of consumption order.
			orig := make([]byte, n)
			for i := range recs {
				orig[n-1-i] = recs[i].Byte
			}
			if !oneScalar(orig) {
				return fmt.Errorf("%w: %d-part set is not one UTF-8 character", ErrValidation, n)
			}
		}
	}
	return nil
}

// checkBounds rejects positions outside the file before any mutation.
// Inserts may target one past the end; removes and edits must hit an
// existing byte, and a multi-part remove needs all its bytes present.
func checkBounds(kind record.Kind, anchor int64, n int, size int64) error {
	switch kind {
	case record.Add:
		if anchor > size {
			return fmt.Errorf("%w: insert at %d beyond size %d", ErrValidation, anchor, size)
		}
	case record.Remove:
		if anchor >= size || int64(n) > size-anchor {
			return fmt.Errorf("%w: remove %d bytes at %d beyond size %d", ErrValidation, n, anchor, size)
		}
	case record.Edit:
		if anchor >= size {
			return fmt.Errorf("%w: edit at %d beyond size %d", ErrValidation, anchor, size)
		}
	}
	return nil
}

// applyInserts applies an add set in consumption order. All parts share one
// anchor; each insert pushes the previously placed bytes right, so the last
// part applied ends up first in the file. A failed part is compensated by
// removing the parts already placed.
func (c *Changelog) applyInserts(anchor int64, recs []record.Record) error {
	for i, r := range recs {
		if err := c.Editor.InsertByteAt(c.TargetPath, anchor, r.Byte); err != nil {
			for j := 0; j < i; j++ {
				if rerr := c.Editor.RemoveByteAt(c.TargetPath, anchor); rerr != nil {
					logging.Warn("insert rollback failed")
					logging.Debug("insert rollback failure", "err", rerr, "anchor", anchor)
					break
				}
			}
			return fmt.Errorf("%w: insert part %d: %v", ErrApply, i, err)
		}
	}
	return nil
}

// applyRemoves reads the k bytes at the anchor, checks a multi-part set
// covers exactly one UTF-8 character, then removes them one by one. The
// read doubles as the redo capture. A failed part is compensated by
// re-inserting the bytes already taken.
func (c *Changelog) applyRemoves(anchor int64, k int) ([]byte, error) {
	captured, err := c.Editor.ReadAt(c.TargetPath, anchor, k)
	if err != nil {
		return nil, fmt.Errorf("%w: read %d bytes at %d: %v", ErrValidation, k, anchor, err)
	}
	if k > 1 && !oneScalar(captured) {
		return nil, fmt.Errorf("%w: bytes at %d are not one UTF-8 character", ErrValidation, anchor)
	}

	for i := 0; i < k; i++ {
		if err := c.Editor.RemoveByteAt(c.TargetPath, anchor); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := c.Editor.InsertByteAt(c.TargetPath, anchor, captured[j]); rerr != nil {
					logging.Warn("remove rollback failed")
					logging.Debug("remove rollback failure", "err", rerr, "anchor", anchor)
					break
				}
			}
			return nil, fmt.Errorf("%w: remove part %d: %v", ErrApply, i, err)
		}
	}
	return captured, nil
}

// applyEdit overwrites one byte in place, capturing the previous value for
// the complement.
func (c *Changelog) applyEdit(anchor int64, b byte) ([]byte, error) {
	prev, err := c.Editor.ReadAt(c.TargetPath, anchor, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: read byte at %d: %v", ErrValidation, anchor, err)
	}
	if err := c.Editor.OverwriteByteAt(c.TargetPath, anchor, b); err != nil {
		return nil, fmt.Errorf("%w: overwrite at %d: %v", ErrApply, anchor, err)
	}
	return prev, nil
}

// complement builds the redo set for an applied undo set: the inverse of
// the inverse, expressed over the bytes the apply observed.
func complement(kind record.Kind, anchor int64, n int, recs []record.Record, captured []byte) []record.Record {
	switch kind {
	case record.Add:
		// The set inserted n bytes at the anchor; redo removes them again.
		return removeSet(anchor, n)
	case record.Remove:
		// The set removed the captured bytes; redo puts them back.
		return addSet(anchor, captured)
	default:
		// The set overwrote one byte; redo restores the value it replaced.
		return []record.Record{{
			Kind: record.Edit,
			Pos:  recs[0].Pos,
			Byte: captured[0],
		}}
	}
}

// oneScalar reports whether b is exactly one well-formed UTF-8 character.
func oneScalar(b []byte) bool {
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz <= 1 {
		return false
	}
	return sz == len(b)
}
