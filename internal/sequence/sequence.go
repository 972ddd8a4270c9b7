// Package sequence implements the changelog identifier scheme: the record
// file names that encode LIFO order and multi-byte part structure.
//
// A bare name is a plain decimal sequence number ("0", "23"); a lettered
// name appends a single part letter ("23.a"). One sequence number groups the
// 1-4 records of one user-level action. The bare name marks the set's
// terminal part; letters mark the remaining parts of a multi-byte character.
package sequence

import (
	"sort"
	"strconv"
	"strings"
)

// MaxParts caps a record set at 4 parts: a UTF-8 scalar is at most 4 bytes,
// so a sequence carries at most 3 letters plus the bare terminus.
const MaxParts = 4

// ID names one record file within a log directory.
type ID struct {
	Seq  uint64
	Part byte // 0 for the bare terminal part, otherwise 'a'..'z'
}

// Bare reports whether the identifier is the set's unlettered terminal part.
func (id ID) Bare() bool {
	return id.Part == 0
}

// Name returns the identifier's file name.
func (id ID) Name() string {
	s := strconv.FormatUint(id.Seq, 10)
	if id.Part == 0 {
		return s
	}
	return s + "." + string(id.Part)
}

// Parse interprets a directory entry name as a record identifier. Names that
// are not canonical identifiers (the LOCK file, temp files, foreign debris)
// come back ok=false and are skipped by directory scans, never quarantined.
//
// Bare versus lettered needs only the presence check on the single '.'
// separator; the fields on either side are parsed afterward.
func Parse(name string) (ID, bool) {
	seqPart := name
	var letter byte

	if i := strings.IndexByte(name, '.'); i >= 0 {
		suffix := name[i+1:]
		if len(suffix) != 1 || suffix[0] < 'a' || suffix[0] > 'z' {
			return ID{}, false
		}
		seqPart, letter = name[:i], suffix[0]
	}

	if seqPart == "" || (len(seqPart) > 1 && seqPart[0] == '0') {
		return ID{}, false
	}
	for i := 0; i < len(seqPart); i++ {
		if seqPart[i] < '0' || seqPart[i] > '9' {
			return ID{}, false
		}
	}
	seq, err := strconv.ParseUint(seqPart, 10, 64)
	if err != nil {
		return ID{}, false
	}

	return ID{Seq: seq, Part: letter}, true
}

// Compare defines the total order for LIFO retrieval: negative when a is
// consumed before b. Higher sequences come first; within one sequence,
// letters descend and the bare identifier comes last.
func Compare(a, b ID) int {
	if a.Seq != b.Seq {
		if a.Seq > b.Seq {
			return -1
		}
		return 1
	}
	switch {
	case a.Part == b.Part:
		return 0
	case a.Part == 0:
		return 1
	case b.Part == 0:
		return -1
	case a.Part > b.Part:
		return -1
	default:
		return 1
	}
}

// Sort orders identifiers in consumption order (see Compare).
func Sort(ids []ID) {
	sort.Slice(ids, func(i, j int) bool {
		return Compare(ids[i], ids[j]) < 0
	})
}

// Next computes the sequence number for a new record set: one greater than
// the maximum present, 0 for an empty directory. Insertion order therefore
// stays recoverable from the number alone for the directory's lifetime.
func Next(ids []ID) uint64 {
	next := uint64(0)
	for _, id := range ids {
		if id.Seq >= next {
			next = id.Seq + 1
		}
	}
	return next
}

// AssignParts returns the identifiers for an n-part record set, in
// consumption order: letters descending, bare last. n-1 parts get ascending
// letters starting at 'a'; exactly one part stays bare to signal the
// terminus to a consumer scanning for the end of a character.
func AssignParts(seq uint64, n int) ([]ID, bool) {
	if n < 1 || n > MaxParts {
		return nil, false
	}

	ids := make([]ID, n)
	for i := 0; i < n-1; i++ {
		// Highest letter first: part i carries letter 'a' + (n-2-i).
		ids[i] = ID{Seq: seq, Part: byte('a' + n - 2 - i)}
	}
	ids[n-1] = ID{Seq: seq}
	return ids, true
}
