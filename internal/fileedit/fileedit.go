// Package fileedit implements the byte-mutation service the changelog engine
// applies inverses through: insert, remove, or overwrite a single byte at a
// file offset.
//
// Insert and remove never modify the target in place. The file is streamed
// through a temp file in the same directory and renamed over the original,
// so a failed primitive leaves the target byte-for-byte untouched and no
// partially-applied edit ever escapes. Files are never loaded whole into
// memory.
package fileedit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrOutOfBounds indicates the requested offset does not address an existing
// byte (or, for insert, exceeds the end of the file).
var ErrOutOfBounds = errors.New("fileedit: position out of bounds")

// Editor mutates files one byte at a time. The zero value is ready to use.
type Editor struct{}

// New returns an Editor.
func New() *Editor {
	return &Editor{}
}

// Size returns the current size of the file in bytes.
func (e *Editor) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ReadAt reads n bytes starting at pos. It fails with ErrOutOfBounds when
// fewer than n bytes exist at that offset.
func (e *Editor) ReadAt(path string, pos int64, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, pos); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: read %d bytes at %d", ErrOutOfBounds, n, pos)
		}
		return nil, err
	}
	return buf, nil
}

// InsertByteAt inserts b at pos, shifting subsequent bytes right.
// pos may equal the file size (append).
func (e *Editor) InsertByteAt(path string, pos int64, b byte) error {
	return e.rewrite(path, pos, true, func(dst *os.File) error {
		_, err := dst.Write([]byte{b})
		return err
	}, 0)
}

// RemoveByteAt deletes the byte at pos, shifting subsequent bytes left.
func (e *Editor) RemoveByteAt(path string, pos int64) error {
	return e.rewrite(path, pos, false, nil, 1)
}

// OverwriteByteAt replaces the byte at pos with b in place.
func (e *Editor) OverwriteByteAt(path string, pos int64, b byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if pos < 0 || pos >= info.Size() {
		return fmt.Errorf("%w: overwrite at %d, size %d", ErrOutOfBounds, pos, info.Size())
	}

	if _, err := f.WriteAt([]byte{b}, pos); err != nil {
		return err
	}
	return f.Sync()
}

// rewrite streams the target through a temp file: bytes before pos, an
// optional splice written by fill, then the remainder after skipping skip
// bytes. The temp file replaces the target only after a successful sync.
func (e *Editor) rewrite(path string, pos int64, allowEnd bool, fill func(*os.File) error, skip int64) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	size := info.Size()

	limit := size
	if !allowEnd {
		limit = size - skip
	}
	if pos < 0 || pos > limit {
		return fmt.Errorf("%w: offset %d, size %d", ErrOutOfBounds, pos, size)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".editlog-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.CopyN(tmp, src, pos); err != nil {
		return err
	}
	if fill != nil {
		if err = fill(tmp); err != nil {
			return err
		}
	}
	if skip > 0 {
		if _, err = src.Seek(skip, io.SeekCurrent); err != nil {
			return err
		}
	}
	if _, err = io.Copy(tmp, src); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), info.Mode()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
