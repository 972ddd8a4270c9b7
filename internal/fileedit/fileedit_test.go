package fileedit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.txt")
	require.NoError(t, os.WriteFile(path, contents, 0644))
	return path
}

func readBack(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestInsertByteAt(t *testing.T) {
	e := New()

	path := writeTemp(t, []byte("AC"))
	require.NoError(t, e.InsertByteAt(path, 1, 'B'))
	assert.Equal(t, []byte("ABC"), readBack(t, path))

	// Insert at the end (append position) is allowed.
	require.NoError(t, e.InsertByteAt(path, 3, 'D'))
	assert.Equal(t, []byte("ABCD"), readBack(t, path))

	// Insert into an empty file at 0.
	empty := writeTemp(t, nil)
	require.NoError(t, e.InsertByteAt(empty, 0, 'a'))
	assert.Equal(t, []byte("a"), readBack(t, empty))
}

func TestRemoveByteAt(t *testing.T) {
	e := New()

	path := writeTemp(t, []byte("ABC"))
	require.NoError(t, e.RemoveByteAt(path, 1))
	assert.Equal(t, []byte("AC"), readBack(t, path))

	require.NoError(t, e.RemoveByteAt(path, 1))
	require.NoError(t, e.RemoveByteAt(path, 0))
	assert.Empty(t, readBack(t, path))
}

func TestOverwriteByteAt(t *testing.T) {
	e := New()

	path := writeTemp(t, []byte("AZC"))
	require.NoError(t, e.OverwriteByteAt(path, 1, 'B'))
	assert.Equal(t, []byte("ABC"), readBack(t, path))
}

func TestOutOfBoundsLeavesFileUntouched(t *testing.T) {
	e := New()
	path := writeTemp(t, []byte("AB"))

	assert.ErrorIs(t, e.InsertByteAt(path, 3, 'X'), ErrOutOfBounds)
	assert.ErrorIs(t, e.RemoveByteAt(path, 2), ErrOutOfBounds)
	assert.ErrorIs(t, e.OverwriteByteAt(path, 2, 'X'), ErrOutOfBounds)
	assert.ErrorIs(t, e.RemoveByteAt(path, -1), ErrOutOfBounds)

	assert.Equal(t, []byte("AB"), readBack(t, path))

	// No temp debris left beside the target.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSizeAndReadAt(t *testing.T) {
	e := New()
	path := writeTemp(t, []byte{0xC3, 0xA9, 'x'})

	size, err := e.Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	got, err := e.ReadAt(path, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC3, 0xA9}, got)

	_, err = e.ReadAt(path, 2, 2)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestInsertPreservesFileMode(t *testing.T) {
	e := New()
	path := writeTemp(t, []byte("x"))
	require.NoError(t, os.Chmod(path, 0600))

	require.NoError(t, e.InsertByteAt(path, 0, 'y'))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
