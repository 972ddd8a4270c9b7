package record

import (
	"fmt"
	"math"
	"math/bits"
)

// Position is an unsigned 128-bit file offset.
//
// Changelog records address bytes with 128-bit positions so the on-disk
// format never caps the size of the target file. Arithmetic is limited to
// what the journal needs: decimal parsing, decimal formatting, and
// conversion to an int64 offset for the byte-mutation service.
type Position struct {
	Hi uint64
	Lo uint64
}

// NewPosition returns the Position for a native offset.
func NewPosition(v uint64) Position {
	return Position{Lo: v}
}

// MaxPosition is the largest representable position, 2^128 - 1.
var MaxPosition = Position{Hi: math.MaxUint64, Lo: math.MaxUint64}

// ParsePosition parses a canonical decimal position: one or more ASCII
// digits, no sign, no leading zeros (except "0" itself), value below 2^128.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return Position{}, fmt.Errorf("%w: empty", ErrPosition)
	}
	if len(s) > 1 && s[0] == '0' {
		return Position{}, fmt.Errorf("%w: leading zero in %q", ErrPosition, s)
	}

	var p Position
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Position{}, fmt.Errorf("%w: non-digit in %q", ErrPosition, s)
		}

		// p = p*10 + digit, with overflow detection on the carry chain.
		hiCarry, hi10 := bits.Mul64(p.Hi, 10)
		loCarry, lo10 := bits.Mul64(p.Lo, 10)
		if hiCarry != 0 {
			return Position{}, fmt.Errorf("%w: %q exceeds 128 bits", ErrPosition, s)
		}
		hi, carry := bits.Add64(hi10, loCarry, 0)
		if carry != 0 {
			return Position{}, fmt.Errorf("%w: %q exceeds 128 bits", ErrPosition, s)
		}
		lo, carry := bits.Add64(lo10, uint64(c-'0'), 0)
		hi, carry = bits.Add64(hi, 0, carry)
		if carry != 0 {
			return Position{}, fmt.Errorf("%w: %q exceeds 128 bits", ErrPosition, s)
		}
		p.Hi, p.Lo = hi, lo
	}
	return p, nil
}

// String formats the position as canonical decimal.
func (p Position) String() string {
	if p.Hi == 0 && p.Lo == 0 {
		return "0"
	}

	// Repeated 128-by-64 division by 10, producing digits right to left.
	// 39 digits cover 2^128 - 1.
	var buf [39]byte
	i := len(buf)
	for p.Hi != 0 || p.Lo != 0 {
		hiQ := p.Hi / 10
		rem := p.Hi % 10
		loQ, loR := bits.Div64(rem, p.Lo, 10)
		i--
		buf[i] = byte('0' + loR)
		p.Hi, p.Lo = hiQ, loQ
	}
	return string(buf[i:])
}

// IsZero reports whether the position addresses offset 0.
func (p Position) IsZero() bool {
	return p.Hi == 0 && p.Lo == 0
}

// Equal reports whether two positions address the same offset.
func (p Position) Equal(q Position) bool {
	return p.Hi == q.Hi && p.Lo == q.Lo
}

// Offset converts the position to a native file offset. ok is false when the
// position does not fit in an int64; such positions can never lie within the
// bounds of a file the platform can address.
func (p Position) Offset() (int64, bool) {
	if p.Hi != 0 || p.Lo > math.MaxInt64 {
		return 0, false
	}
	return int64(p.Lo), true
}
