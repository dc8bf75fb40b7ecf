package edit_engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollback_RestoresExactBytes(t *testing.T) {
	root := t.TempDir()
	original := "line 1\r\nline 2\n\ttabbed\n\x7f end"
	writeFile(t, root, "src/a.txt", original)
	writeFile(t, root, "b.txt", "b1\nb2")

	applied, err := ApplyEdits(root, models.EditBatch{
		{Path: "src/a.txt", StartLine: 1, EndLine: 2, Replacement: "replaced"},
		{Path: "b.txt", StartLine: 2, EndLine: 2, Replacement: ""},
	})
	require.NoError(t, err)
	assert.NotEqual(t, original, readFile(t, root, "src/a.txt"))

	result, err := Rollback(root, applied.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, applied.SnapshotID, result.SnapshotID)
	assert.Equal(t, []string{"b.txt", "src/a.txt"}, result.Restored)
	assert.Equal(t, original, readFile(t, root, "src/a.txt"))
	assert.Equal(t, "b1\nb2", readFile(t, root, "b.txt"))
}

func TestRollback_RecreatesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "deep/nested/f.txt", "keep me")
	applied, err := ApplyEdits(root, models.EditBatch{{Path: "deep/nested/f.txt", StartLine: 1, EndLine: 1, Replacement: "gone"}})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "deep")))

	_, err = Rollback(root, applied.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", readFile(t, root, "deep/nested/f.txt"))
}

func TestRollback_UnknownSnapshot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.txt", "untouched")

	for _, id := range []string{"1234-deadbeef", "..", "../x", "a/b", ""} {
		result, err := Rollback(root, id)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, models.ErrSnapshotNotFound), id)
	}
	assert.Equal(t, "untouched", readFile(t, root, "f.txt"))
}

func TestRollback_RestoreWriteFailureNamesPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "d/x.txt", "x")
	applied, err := ApplyEdits(root, models.EditBatch{{Path: "d/x.txt", StartLine: 1, EndLine: 1, Replacement: "y"}})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "d")))
	writeFile(t, root, "d", "now a file")

	_, err = Rollback(root, applied.SnapshotID)
	var we *models.WorkspaceError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, models.KindRestoreWriteFailed, we.Kind)
	assert.Equal(t, "d/x.txt", we.Path)
}

func TestRollback_SnapshotReadFailureNamesPath(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, root, "f.txt", "f")
	applied, err := ApplyEdits(root, models.EditBatch{{Path: "f.txt", StartLine: 1, EndLine: 1, Replacement: "g"}})
	require.NoError(t, err)

	saved := filepath.Join(NewSnapshotStore(root).Dir(applied.SnapshotID), "f.txt")
	require.NoError(t, os.Chmod(saved, 0o000))
	t.Cleanup(func() { _ = os.Chmod(saved, 0o644) })

	_, err = Rollback(root, applied.SnapshotID)
	var we *models.WorkspaceError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, models.KindSnapshotReadFailed, we.Kind)
	assert.Equal(t, "f.txt", we.Path)
	assert.Equal(t, "g", readFile(t, root, "f.txt"))
}
