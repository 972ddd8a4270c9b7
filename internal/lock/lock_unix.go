//go:build unix

package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// LockDirectory acquires an exclusive, non-blocking advisory lock on a log
// directory, serializing changelog transactions against it.
//
// On Unix systems this places flock(2) on a file named "LOCK" inside the
// directory. Directory scans skip the lock file: its name never parses as a
// record identifier. If the lock cannot be acquired, another transaction
// (possibly in another process) currently owns the directory.
//
// The returned file handle must remain open until UnlockDirectory.
func LockDirectory(path string) (*os.File, error) {
	lockFilePath := filepath.Join(path, LockFileName)

	f, err := os.OpenFile(lockFilePath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open lock file: %w", err)
	}

	err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("log directory %s is in use by another transaction", filepath.Base(path))
	}

	return f, nil
}

// UnlockDirectory releases a lock acquired via LockDirectory.
//
// On Unix systems this releases the advisory flock and closes the file.
func UnlockDirectory(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
}
