package quarantine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveRelocatesRecordFiles(t *testing.T) {
	tmp := t.TempDir()
	logDir := filepath.Join(tmp, "changelog_filetxt")
	root := filepath.Join(tmp, "changelog_quarantine_filetxt")
	require.NoError(t, os.Mkdir(logDir, 0755))

	bare := filepath.Join(logDir, "3")
	lettered := filepath.Join(logDir, "3.a")
	require.NoError(t, os.WriteFile(bare, []byte("bad\n0\n"), 0644))
	require.NoError(t, os.WriteFile(lettered, []byte("add\n0\nC3\n"), 0644))

	dest, err := Move(root, []string{bare, lettered}, "unknown kind token", true)
	require.NoError(t, err)

	assert.NoFileExists(t, bare)
	assert.NoFileExists(t, lettered)
	assert.FileExists(t, filepath.Join(dest, "3"))
	assert.FileExists(t, filepath.Join(dest, "3.a"))
	assert.FileExists(t, filepath.Join(dest, "diagnostic.txt"))

	// The entry must live directly under the quarantine root.
	assert.Equal(t, root, filepath.Dir(dest))
}

func TestMoveWithoutDebugSkipsDiagnostic(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "0")
	require.NoError(t, os.WriteFile(src, []byte("rmv\n0\n"), 0644))

	dest, err := Move(filepath.Join(tmp, "root"), []string{src}, "reason", false)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dest, "diagnostic.txt"))
}

func TestMoveEntriesDoNotCollide(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "root")

	var dests []string
	for i := 0; i < 3; i++ {
		src := filepath.Join(tmp, "0")
		require.NoError(t, os.WriteFile(src, []byte("rmv\n0\n"), 0644))
		dest, err := Move(root, []string{src}, "", false)
		require.NoError(t, err)
		dests = append(dests, dest)
	}

	assert.NotEqual(t, dests[0], dests[1])
	assert.NotEqual(t, dests[1], dests[2])
}

func TestSweepRemovesOnlyExpiredEntries(t *testing.T) {
	root := t.TempDir()

	old := time.Now().UTC().Add(-48 * time.Hour).Format(stampLayout)
	fresh := time.Now().UTC().Format(stampLayout)
	require.NoError(t, os.Mkdir(filepath.Join(root, old), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, fresh), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "not-a-stamp"), 0755))

	removed := Sweep(root, 24*time.Hour)
	assert.Equal(t, 1, removed)

	assert.NoDirExists(t, filepath.Join(root, old))
	assert.DirExists(t, filepath.Join(root, fresh))
	assert.DirExists(t, filepath.Join(root, "not-a-stamp"))
}

func TestSweepMissingRootIsNoOp(t *testing.T) {
	assert.Equal(t, 0, Sweep(filepath.Join(t.TempDir(), "missing"), time.Hour))
}
