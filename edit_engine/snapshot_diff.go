package edit_engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/zeebo/xxh3"
)

// DiffSnapshot compares every file of a snapshot with the current workspace
// copy. With unified set, modified files also carry a unified diff from the
// snapshot to the workspace. Nothing is written.
func DiffSnapshot(root, id string, unified bool) ([]models.SnapshotFileDiff, error) {
	store := NewSnapshotStore(root)
	files, err := store.Files(id)
	if err != nil {
		return nil, err
	}

	diffs := make([]models.SnapshotFileDiff, 0, len(files))
	for _, rel := range files {
		saved, err := os.ReadFile(filepath.Join(store.Dir(id), filepath.FromSlash(rel)))
		if err != nil {
			return nil, models.NewError(models.KindSnapshotReadFailed, rel, err)
		}

		entry := models.SnapshotFileDiff{Path: rel}
		current, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		switch {
		case os.IsNotExist(err):
			entry.Status = models.FileStatusMissing
		case err != nil:
			return nil, models.NewError(models.KindReadFailed, rel, err)
		case xxh3.Hash(saved) == xxh3.Hash(current):
			entry.Status = models.FileStatusUnchanged
		default:
			entry.Status = models.FileStatusModified
			if unified {
				entry.Diff, err = unifiedDiff(rel, saved, current)
				if err != nil {
					return nil, models.NewError(models.KindInternal, rel, err)
				}
			}
		}
		diffs = append(diffs, entry)
	}
	return diffs, nil
}

func unifiedDiff(rel string, from, to []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(from)),
		B:        difflib.SplitLines(string(to)),
		FromFile: fmt.Sprintf("snapshot/%s", rel),
		ToFile:   fmt.Sprintf("workspace/%s", rel),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
