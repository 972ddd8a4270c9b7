package core

import (
	"path/filepath"
	"strings"
)

// Role tags a log directory as the undo or redo side of a target file. The
// engine resolves the role once, at the boundary, from directory identity;
// it is never re-derived from path strings mid-operation.
type Role int

const (
	// RolePrimary is the undo directory. Popping it synthesizes a redo set.
	RolePrimary Role = iota + 1

	// RoleSecondary is the redo directory. Popping it never writes new
	// records anywhere, which is what prevents an undo/redo ping-pong loop.
	RoleSecondary
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	}
	return "unknown"
}

// Dir is a log directory together with its resolved role.
type Dir struct {
	Path string
	Role Role
}

// PrimaryDir returns the undo log directory for a target file: a sibling
// directory named with the primary prefix plus the file's stem.
func PrimaryDir(targetPath string) Dir {
	return Dir{Path: sibling(targetPath, PrimaryDirPrefix), Role: RolePrimary}
}

// SecondaryDir returns the redo log directory for a target file. It is a
// pure function of the target's identity, computed on demand, never cached.
func SecondaryDir(targetPath string) Dir {
	return Dir{Path: sibling(targetPath, SecondaryDirPrefix), Role: RoleSecondary}
}

// QuarantineRoot returns the quarantine root for a target file.
func QuarantineRoot(targetPath string) string {
	return sibling(targetPath, QuarantineDirPrefix)
}

// sibling builds a log directory path beside the target: prefix plus the
// file name with extension separators removed ("notes.txt" -> "notestxt").
func sibling(targetPath, prefix string) string {
	stem := strings.ReplaceAll(filepath.Base(targetPath), ".", "")
	return filepath.Join(filepath.Dir(targetPath), prefix+stem)
}
