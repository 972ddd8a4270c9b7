package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexbyte/editlog/internal/lock"
)

// newTarget creates a target file with the given contents in a fresh
// temporary directory.
func newTarget(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

// recordNames lists a log directory's entries, minus the lock file.
func recordNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if e.Name() == lock.LockFileName {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

func readRecord(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestDirectoryNamesDropExtensionDots(t *testing.T) {
	target := filepath.Join("/tmp", "report.v2.txt")

	assert.Equal(t, filepath.Join("/tmp", "changelog_reportv2txt"), PrimaryDir(target).Path)
	assert.Equal(t, filepath.Join("/tmp", "changelog_redo_reportv2txt"), SecondaryDir(target).Path)
	assert.Equal(t, filepath.Join("/tmp", "changelog_quarantine_reportv2txt"), QuarantineRoot(target))
}

func TestRecordByteAddWritesRemoveRecord(t *testing.T) {
	target := newTarget(t, "abcd")
	c := New(target)

	require.NoError(t, c.RecordByteAdd(3))

	dir := PrimaryDir(target).Path
	assert.Equal(t, []string{"0"}, recordNames(t, dir))
	assert.Equal(t, "rmv\n3\n", readRecord(t, dir, "0"))
}

func TestRecordByteRemoveWritesAddRecord(t *testing.T) {
	target := newTarget(t, "abd")
	c := New(target)

	require.NoError(t, c.RecordByteRemove(2, 'c'))

	dir := PrimaryDir(target).Path
	assert.Equal(t, "add\n2\n63\n", readRecord(t, dir, "0"))
}

func TestRecordByteEditWritesEditRecord(t *testing.T) {
	target := newTarget(t, "abXc")
	c := New(target)

	require.NoError(t, c.RecordByteEdit(2, 'Y'))

	dir := PrimaryDir(target).Path
	assert.Equal(t, "edt\n2\n59\n", readRecord(t, dir, "0"))
}

func TestRecordCharacterRemoveSplitsMultiByte(t *testing.T) {
	target := newTarget(t, "hello world")
	c := New(target)

	// Removing 'é' (C3 A9) yields two inserts at one anchor. The lettered
	// part applies first and carries the last encoded byte; the bare part
	// applies last and carries the first.
	require.NoError(t, c.RecordCharacterRemove(5, 'é'))

	dir := PrimaryDir(target).Path
	assert.ElementsMatch(t, []string{"0", "0.a"}, recordNames(t, dir))
	assert.Equal(t, "add\n5\nA9\n", readRecord(t, dir, "0.a"))
	assert.Equal(t, "add\n5\nC3\n", readRecord(t, dir, "0"))
}

func TestRecordCharacterRemoveRejectsInvalidRune(t *testing.T) {
	c := New(newTarget(t, "abc"))

	err := c.RecordCharacterRemove(0, 0xD800)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordCharacterAddLearnsWidthFromFile(t *testing.T) {
	// "ab" + é + "cd": the character at offset 2 is two bytes wide, so its
	// inverse is two removes at that anchor.
	target := newTarget(t, "ab\xC3\xA9cd")
	c := New(target)

	require.NoError(t, c.RecordCharacterAdd(2))

	dir := PrimaryDir(target).Path
	assert.ElementsMatch(t, []string{"0", "0.a"}, recordNames(t, dir))
	assert.Equal(t, "rmv\n2\n", readRecord(t, dir, "0.a"))
	assert.Equal(t, "rmv\n2\n", readRecord(t, dir, "0"))
}

func TestRecordCharacterAddRejectsContinuationByte(t *testing.T) {
	target := newTarget(t, "ab\xC3\xA9cd")
	c := New(target)

	// Offset 3 is mid-character.
	err := c.RecordCharacterAdd(3)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, recordNames(t, PrimaryDir(target).Path))
}

func TestSequenceNumbersGrow(t *testing.T) {
	target := newTarget(t, "abcd")
	c := New(target)

	require.NoError(t, c.RecordByteAdd(1))
	require.NoError(t, c.RecordByteAdd(2))

	assert.ElementsMatch(t, []string{"0", "1"}, recordNames(t, PrimaryDir(target).Path))
}

func TestFreshEditPurgesRedo(t *testing.T) {
	target := newTarget(t, "abcd")
	c := New(target)

	sec := SecondaryDir(target).Path
	require.NoError(t, os.MkdirAll(sec, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sec, "0"), []byte("rmv\n1\n"), 0644))

	require.NoError(t, c.RecordByteAdd(2))

	assert.Empty(t, recordNames(t, sec), "stale redo history survives a fresh edit")
	assert.Equal(t, []string{"0"}, recordNames(t, PrimaryDir(target).Path))
}

func TestScanSkipsForeignNames(t *testing.T) {
	target := newTarget(t, "abcd")
	c := New(target)

	dir := PrimaryDir(target).Path
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644))

	require.NoError(t, c.RecordByteAdd(0))

	// The foreign entry neither blocks recording nor claims a sequence slot.
	assert.ElementsMatch(t, []string{"0", "README"}, recordNames(t, dir))
}

func TestRecordActionDispatch(t *testing.T) {
	target := newTarget(t, "abcd")
	c := New(target)

	require.NoError(t, c.RecordAction(UserAction{Kind: EditByte, Pos: 1, Byte: 'Z'}))
	assert.Equal(t, "edt\n1\n5A\n", readRecord(t, PrimaryDir(target).Path, "0"))

	err := c.RecordAction(UserAction{Kind: Action(99)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEntriesListsConsumptionOrder(t *testing.T) {
	target := newTarget(t, "hello world")
	c := New(target)

	require.NoError(t, c.RecordByteAdd(0))
	require.NoError(t, c.RecordCharacterRemove(5, 'é'))

	entries, err := c.Entries(PrimaryDir(target))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "1.a", entries[0].Name)
	assert.Equal(t, "1", entries[1].Name)
	assert.Equal(t, "0", entries[2].Name)
}

func TestEntriesMissingDirectoryIsEmpty(t *testing.T) {
	c := New(newTarget(t, "abcd"))

	entries, err := c.Entries(PrimaryDir(c.TargetPath))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
