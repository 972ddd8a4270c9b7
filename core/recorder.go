package core

import (
	"fmt"
	"unicode/utf8"

	"github.com/hexbyte/editlog/internal/record"
)

// Action names a user-level edit the recorder can journal.
type Action int

const (
	// AddCharacter journals the insertion of a UTF-8 character.
	AddCharacter Action = iota + 1

	// RemoveCharacter journals the removal of a UTF-8 character.
	RemoveCharacter

	// EditByte journals an in-place single-byte overwrite.
	EditByte
)

// UserAction describes one edit the user already performed on the target
// file. Char is consulted for RemoveCharacter only: the recorder learns an
// added character's width from the file itself, but a removed character's
// bytes are gone and must be supplied. Byte is the value a hex edit
// replaced, consulted for EditByte only.
type UserAction struct {
	Kind Action
	Pos  int64
	Char rune
	Byte byte
}

// RecordAction journals the inverse of one user edit, dispatching on the
// action kind.
func (c *Changelog) RecordAction(a UserAction) error {
	switch a.Kind {
	case AddCharacter:
		return c.RecordCharacterAdd(a.Pos)
	case RemoveCharacter:
		return c.RecordCharacterRemove(a.Pos, a.Char)
	case EditByte:
		return c.RecordByteEdit(a.Pos, a.Byte)
	}
	return fmt.Errorf("%w: unknown action kind %d", ErrValidation, a.Kind)
}

// RecordCharacterAdd journals the inverse of a character insertion at pos.
// The character is already in the file, so its width is read off the lead
// byte: the inverse is that many removes, all anchored at pos.
func (c *Changelog) RecordCharacterAdd(pos int64) error {
	lead, err := c.Editor.ReadAt(c.TargetPath, pos, 1)
	if err != nil {
		return fmt.Errorf("%w: read lead byte at %d: %v", ErrValidation, pos, err)
	}
	width := utf8Width(lead[0])
	if width == 0 {
		return fmt.Errorf("%w: byte %02X at %d is not a UTF-8 lead byte", ErrValidation, lead[0], pos)
	}
	return c.recordFresh(removeSet(pos, width))
}

// RecordCharacterRemove journals the inverse of removing the character r
// that stood at pos. The bytes are gone from the file, so the caller
// supplies the rune; the inverse re-inserts its encoding at pos.
func (c *Changelog) RecordCharacterRemove(pos int64, r rune) error {
	if !utf8.ValidRune(r) {
		return fmt.Errorf("%w: invalid rune %U", ErrValidation, r)
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return c.recordFresh(addSet(pos, buf[:n]))
}

// RecordByteAdd journals the inverse of a raw single-byte insertion at pos.
func (c *Changelog) RecordByteAdd(pos int64) error {
	return c.recordFresh(removeSet(pos, 1))
}

// RecordByteRemove journals the inverse of removing the raw byte b from pos.
func (c *Changelog) RecordByteRemove(pos int64, b byte) error {
	return c.recordFresh(addSet(pos, []byte{b}))
}

// RecordByteEdit journals the inverse of an in-place overwrite at pos,
// where prev is the byte value the edit replaced.
func (c *Changelog) RecordByteEdit(pos int64, prev byte) error {
	return c.recordFresh([]record.Record{{
		Kind: record.Edit,
		Pos:  record.NewPosition(uint64(pos)),
		Byte: prev,
	}})
}

// recordFresh writes a set into the primary directory. A fresh edit forks
// history, so the stale redo stack is purged first; a set must never land
// while an invalidated redo survives.
func (c *Changelog) recordFresh(recs []record.Record) error {
	if err := c.ClearRedo(); err != nil {
		return err
	}
	return c.writeSet(PrimaryDir(c.TargetPath), recs)
}

// removeSet builds k Remove records anchored at pos. Each applied remove
// closes the gap, so re-reading the same anchor consumes the next byte.
func removeSet(pos int64, k int) []record.Record {
	recs := make([]record.Record, k)
	for i := range recs {
		recs[i] = record.Record{Kind: record.Remove, Pos: record.NewPosition(uint64(pos))}
	}
	return recs
}

// addSet builds inserts for bytes at a single anchor. Application order is
// last original byte first: each insert at pos pushes the previously placed
// bytes right, so the set reassembles in original order. The bare part,
// applied last, carries the first original byte.
func addSet(pos int64, bytes []byte) []record.Record {
	recs := make([]record.Record, len(bytes))
	for i := range recs {
		recs[i] = record.Record{
			Kind: record.Add,
			Pos:  record.NewPosition(uint64(pos)),
			Byte: bytes[len(bytes)-1-i],
		}
	}
	return recs
}

// utf8Width returns the encoded length implied by a UTF-8 lead byte, or 0
// if b cannot begin a character.
func utf8Width(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b >= 0xC2 && b <= 0xDF:
		return 2
	case b >= 0xE0 && b <= 0xEF:
		return 3
	case b >= 0xF0 && b <= 0xF4:
		return 4
	}
	return 0
}
