// Package record implements the changelog record codec: the canonical
// three-line text form in which one inverse edit is stored per file.
//
// The three shapes, one line per field, every line newline-terminated:
//
//	add            rmv            edt
//	<position>     <position>     <position>
//	<HH>                          <HH>
//
// add inserts byte HH at the position, rmv deletes the byte at the position,
// edt overwrites the byte at the position with HH. Positions are canonical
// decimal fitting in 128 bits; byte fields are exactly two uppercase hex
// digits. Decoding never terminates the process: malformed input comes back
// as an error value for the caller to quarantine.
package record

import (
	"bytes"
	"fmt"
)

// Kind identifies the operation a record instructs the undo engine to apply.
type Kind int

const (
	// Add inserts Byte at Pos, shifting subsequent bytes right.
	Add Kind = iota + 1
	// Remove deletes the byte at Pos, shifting subsequent bytes left.
	Remove
	// Edit overwrites the byte at Pos with Byte in place.
	Edit
)

const (
	tokenAdd    = "add"
	tokenRemove = "rmv"
	tokenEdit   = "edt"
)

// String returns the kind's on-disk token.
func (k Kind) String() string {
	switch k {
	case Add:
		return tokenAdd
	case Remove:
		return tokenRemove
	case Edit:
		return tokenEdit
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HasByte reports whether records of this kind carry a byte field.
func (k Kind) HasByte() bool {
	return k == Add || k == Edit
}

// Record is one decoded changelog record.
//
// Byte is meaningful only when Kind.HasByte() is true: the value to insert
// for Add, the value to restore for Edit.
type Record struct {
	Kind Kind
	Pos  Position
	Byte byte
}

const hexDigits = "0123456789ABCDEF"

// Encode serializes a record into its canonical three-line form.
// Encode(Decode(b)) reproduces b byte for byte.
func Encode(r Record) ([]byte, error) {
	var buf bytes.Buffer

	switch r.Kind {
	case Add, Remove, Edit:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(r.Kind))
	}

	buf.WriteString(r.Kind.String())
	buf.WriteByte('\n')
	buf.WriteString(r.Pos.String())
	buf.WriteByte('\n')
	if r.Kind.HasByte() {
		buf.WriteByte(hexDigits[r.Byte>>4])
		buf.WriteByte(hexDigits[r.Byte&0x0F])
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// Decode parses one record file's contents. It validates the kind token, the
// line count for that kind, the position, and the byte field, and returns a
// wrapped codec error on the first violation.
func Decode(data []byte) (Record, error) {
	lines, err := splitLines(data)
	if err != nil {
		return Record{}, err
	}

	var r Record
	switch lines[0] {
	case tokenAdd:
		r.Kind = Add
	case tokenRemove:
		r.Kind = Remove
	case tokenEdit:
		r.Kind = Edit
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownKind, lines[0])
	}

	want := 2
	if r.Kind.HasByte() {
		want = 3
	}
	if len(lines) != want {
		return Record{}, fmt.Errorf("%w: %s wants %d lines, got %d", ErrLineCount, r.Kind, want, len(lines))
	}

	r.Pos, err = ParsePosition(lines[1])
	if err != nil {
		return Record{}, err
	}

	if r.Kind.HasByte() {
		r.Byte, err = parseHexByte(lines[2])
		if err != nil {
			return Record{}, err
		}
	}

	return r, nil
}

// splitLines splits record file contents into lines, requiring every line
// (including the last) to be newline-terminated.
func splitLines(data []byte) ([]string, error) {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return nil, fmt.Errorf("%w: missing trailing newline", ErrLineCount)
	}

	raw := bytes.Split(data[:len(data)-1], []byte{'\n'})
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(l)
	}
	return lines, nil
}

// parseHexByte parses exactly two uppercase hex digits.
func parseHexByte(s string) (byte, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrByteField, s)
	}
	var v byte
	for i := 0; i < 2; i++ {
		d, ok := hexValue(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrByteField, s)
		}
		v = v<<4 | d
	}
	return v, nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
