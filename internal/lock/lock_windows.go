//go:build windows

package lock

import (
	"fmt"
	"os"
	"path/filepath"
)

// LockDirectory acquires an exclusive lock on a log directory, serializing
// changelog transactions against it.
//
// On Windows this atomically creates a file named "LOCK" inside the
// directory. If the file already exists, another transaction currently owns
// the directory.
//
// The returned file handle must be kept open until UnlockDirectory.
func LockDirectory(path string) (*os.File, error) {
	lockFilePath := filepath.Join(path, LockFileName)

	f, err := os.OpenFile(lockFilePath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("log directory %s is in use by another transaction", filepath.Base(path))
	}

	return f, nil
}

// UnlockDirectory releases a lock acquired via LockDirectory.
//
// On Windows this removes the lock file from disk. UnlockDirectory must be
// called exactly once per successful LockDirectory call.
func UnlockDirectory(f *os.File) {
	name := f.Name()
	f.Close()
	os.Remove(name)
}
