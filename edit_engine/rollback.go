package edit_engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

// Rollback copies every file of snapshot id back into the workspace root.
// It stops at the first unreadable or unwritable entry; files restored before
// that point stay restored.
func Rollback(root, id string) (*models.RollbackResult, error) {
	store := NewSnapshotStore(root)
	if !store.Exists(id) {
		return nil, models.NewError(models.KindSnapshotNotFound, "", fmt.Errorf("snapshot %q", id))
	}

	files, err := store.Files(id)
	if err != nil {
		return nil, err
	}

	restored := make([]string, 0, len(files))
	for _, rel := range files {
		content, err := os.ReadFile(filepath.Join(store.Dir(id), filepath.FromSlash(rel)))
		if err != nil {
			return nil, models.NewError(models.KindSnapshotReadFailed, rel, err)
		}
		dest := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, models.NewError(models.KindRestoreWriteFailed, rel, err)
		}
		if err := os.WriteFile(dest, content, restoreMode(dest)); err != nil {
			return nil, models.NewError(models.KindRestoreWriteFailed, rel, err)
		}
		restored = append(restored, rel)
	}

	logger.Info("rollback: restored %d files from snapshot %s", len(restored), id)
	return &models.RollbackResult{SnapshotID: id, Restored: restored}, nil
}

func restoreMode(dest string) os.FileMode {
	if info, err := os.Stat(dest); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
