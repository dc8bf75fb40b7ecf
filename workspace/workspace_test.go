package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/wsengine/utils"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspace_RequiresRoot(t *testing.T) {
	_, err := NewWorkspace("  ", Options{})
	assert.True(t, errors.Is(err, models.ErrMissingArgument))
}

func TestWorkspace_IgnoreSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":            "package main",
		"trace.log":          "log",
		"gen/model.pb.go":    "package gen",
		utils.IgnoreFileName: "gen/\n",
	})

	ws, err := NewWorkspace(root, Options{IgnorePatterns: []string{"*.log"}, UseIgnoreFile: true})
	require.NoError(t, err)
	assert.Equal(t, []string{utils.IgnoreFileName, "main.go"}, ws.ListFiles())

	ws, err = NewWorkspace(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{utils.IgnoreFileName, "gen/model.pb.go", "main.go", "trace.log"}, ws.ListFiles())
}

func TestWorkspace_ReadFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/a.txt": "abcdef"})
	ws, err := NewWorkspace(root, Options{MaxBytes: 4})
	require.NoError(t, err)

	result, err := ws.ReadFile("docs/a.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(result.Content))
	assert.True(t, result.Truncated)

	result, err = ws.ReadFile(filepath.Join(root, "docs", "a.txt"), int64Ptr(100))
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(result.Content))
	assert.False(t, result.Truncated)

	_, err = ws.ReadFile("docs/missing.txt", nil)
	var we *models.WorkspaceError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, models.KindReadFailed, we.Kind)
	assert.Equal(t, "docs/missing.txt", we.Path)

	_, err = ws.ReadFile("", nil)
	assert.True(t, errors.Is(err, models.ErrMissingArgument))
}

func TestWorkspace_ReadFileExplicitZeroLimit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "abcdef"})
	ws, err := NewWorkspace(root, Options{})
	require.NoError(t, err)

	result, err := ws.ReadFile("a.txt", int64Ptr(0))
	require.NoError(t, err)
	assert.Empty(t, result.Content)
	assert.True(t, result.Truncated)

	result, err = ws.ReadFile("a.txt", int64Ptr(-3))
	require.NoError(t, err)
	assert.Empty(t, result.Content)
}

func TestWorkspace_ReadWorkspaceFileStaysInsideRoot(t *testing.T) {
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"secret.txt": "TOP-SECRET"})
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/a.txt":                 "inside",
		".agent_snapshots/1-a/a.txt": "old",
	})
	ws, err := NewWorkspace(root, Options{})
	require.NoError(t, err)

	result, err := ws.ReadWorkspaceFile("docs/a.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "inside", string(result.Content))

	rel, err := filepath.Rel(root, filepath.Join(outside, "secret.txt"))
	require.NoError(t, err)
	for _, path := range []string{
		filepath.Join(outside, "secret.txt"),
		filepath.ToSlash(rel),
		"../secret.txt",
		".agent_snapshots/1-a/a.txt",
	} {
		_, err := ws.ReadWorkspaceFile(path, nil)
		assert.True(t, errors.Is(err, models.ErrInvalidPath), path)
	}

	_, err = ws.ReadWorkspaceFile("", nil)
	assert.True(t, errors.Is(err, models.ErrMissingArgument))
}

func TestWorkspace_SearchLimits(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "needle\nneedle\nneedle\n"})
	ws, err := NewWorkspace(root, Options{TopK: 2})
	require.NoError(t, err)

	for name, tc := range map[string]struct {
		topK *int
		want int
	}{
		"default":  {topK: nil, want: 2},
		"zero":     {topK: intPtr(0), want: 1},
		"negative": {topK: intPtr(-5), want: 1},
		"explicit": {topK: intPtr(3), want: 3},
	} {
		t.Run(name, func(t *testing.T) {
			matches, err := ws.Search("needle", tc.topK, nil)
			require.NoError(t, err)
			assert.Len(t, matches, tc.want)
		})
	}

	matches, err := ws.Search("needle", intPtr(10), int64Ptr(0))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWorkspace_EmptyQueryMatchesEveryLine(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "a\n\nb"})
	ws, err := NewWorkspace(root, Options{})
	require.NoError(t, err)

	matches, err := ws.Search("", nil, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestWorkspace_EditListDiffRollback(t *testing.T) {
	root := t.TempDir()
	original := "one\ntwo\nthree\n"
	writeTree(t, root, map[string]string{"notes.txt": original})
	ws, err := NewWorkspace(root, Options{})
	require.NoError(t, err)

	applied, err := ws.ApplyEdits([]byte(`{"edits":[{"path":"notes.txt","start_line":2,"end_line":2,"replacement":"TWO"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, applied.Changed)

	content, err := os.ReadFile(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\nthree\n", string(content))
	assert.Equal(t, []string{"notes.txt"}, ws.ListFiles())

	snapshots, err := ws.Snapshots()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, applied.SnapshotID, snapshots[0].ID)
	assert.Equal(t, 1, snapshots[0].Files)

	diffs, err := ws.DiffSnapshot(applied.SnapshotID, false)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, models.FileStatusModified, diffs[0].Status)

	restored, err := ws.Rollback(applied.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, restored.Restored)

	content, err = os.ReadFile(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, original, string(content))

	_, err = ws.Rollback("")
	assert.True(t, errors.Is(err, models.ErrMissingArgument))
}
