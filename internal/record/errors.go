package record

import "errors"

var (
	// ErrUnknownKind indicates a record's first line is not a recognized kind token.
	ErrUnknownKind = errors.New("record: unknown kind token")

	// ErrLineCount indicates the record body does not match its kind's shape.
	ErrLineCount = errors.New("record: wrong line count for kind")

	// ErrPosition indicates the position line is not a decimal fitting in 128 bits.
	ErrPosition = errors.New("record: malformed position")

	// ErrByteField indicates the byte line is not exactly two uppercase hex digits.
	ErrByteField = errors.New("record: malformed byte field")
)
