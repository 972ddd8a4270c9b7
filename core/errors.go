package core

import "errors"

// Failure categories for changelog operations. Callers match them with
// errors.Is; the wrapped detail is for debug logs and quarantine
// diagnostics, not for user-facing output.
var (
	// ErrCodec indicates a record file's shape or fields are malformed.
	ErrCodec = errors.New("changelog: malformed record")

	// ErrSequence indicates a broken or ambiguous part chain within one
	// sequence number.
	ErrSequence = errors.New("changelog: broken record sequence")

	// ErrValidation indicates a record set that decodes cleanly but cannot
	// be applied: position outside current file bounds, or assembled bytes
	// that are not one UTF-8 scalar.
	ErrValidation = errors.New("changelog: record failed validation")

	// ErrApply indicates the byte-mutation service failed. The target file
	// carries no partial application of the set.
	ErrApply = errors.New("changelog: mutation failed")

	// ErrDirectory indicates a log directory could not be created, listed,
	// locked, or modified.
	ErrDirectory = errors.New("changelog: log directory failure")

	// ErrEmptyStack indicates there is no record set to pop. This is the
	// normal nothing-to-undo outcome, not a failure: nothing is mutated and
	// nothing is quarantined.
	ErrEmptyStack = errors.New("changelog: nothing to undo or redo")
)
