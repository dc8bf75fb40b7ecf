package edit_engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meysamhadeli/wsengine/utils"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

// SnapshotStore persists pre-edit file contents under
// <root>/.agent_snapshots/<snapshot id>/<relative path>.
// Snapshots are never modified after an edit batch completes and are never
// deleted here.
type SnapshotStore struct {
	root string
}

// NewSnapshotStore returns the store for a workspace root.
func NewSnapshotStore(root string) *SnapshotStore {
	return &SnapshotStore{root: root}
}

// BaseDir is the directory holding every snapshot of the workspace.
func (s *SnapshotStore) BaseDir() string {
	return filepath.Join(s.root, utils.SnapshotDirName)
}

// Dir is the directory of one snapshot.
func (s *SnapshotStore) Dir(id string) string {
	return filepath.Join(s.BaseDir(), id)
}

// NewSnapshotID derives an id from the capture time, with a random suffix so
// two batches in the same millisecond do not share a directory.
func NewSnapshotID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// ValidSnapshotID reports whether id is a single clean path segment.
func ValidSnapshotID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && filepath.Base(id) == id
}

// Capture writes content verbatim as the backup of relativePath, creating
// directories as needed. Capturing the same path twice overwrites.
func (s *SnapshotStore) Capture(id, relativePath string, content []byte) error {
	dest := filepath.Join(s.Dir(id), filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return models.NewError(models.KindSnapshotWriteFailed, relativePath, err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return models.NewError(models.KindSnapshotWriteFailed, relativePath, err)
	}
	return nil
}

// Exists reports whether a snapshot directory exists for id.
func (s *SnapshotStore) Exists(id string) bool {
	if !ValidSnapshotID(id) {
		return false
	}
	info, err := os.Stat(s.Dir(id))
	return err == nil && info.IsDir()
}

// Files returns the slash-separated relative paths of every regular file in
// the snapshot, sorted.
func (s *SnapshotStore) Files(id string) ([]string, error) {
	if !s.Exists(id) {
		return nil, models.NewError(models.KindSnapshotNotFound, "", fmt.Errorf("snapshot %q", id))
	}
	snapRoot := s.Dir(id)
	var files []string
	err := filepath.WalkDir(snapRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rel, _ := filepath.Rel(snapRoot, path)
			return models.NewError(models.KindSnapshotReadFailed, filepath.ToSlash(rel), err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(snapRoot, path)
		if err != nil {
			return models.NewError(models.KindSnapshotReadFailed, path, err)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// List describes every snapshot, oldest first.
func (s *SnapshotStore) List() ([]models.SnapshotInfo, error) {
	entries, err := os.ReadDir(s.BaseDir())
	if os.IsNotExist(err) {
		return []models.SnapshotInfo{}, nil
	} else if err != nil {
		return nil, models.NewError(models.KindSnapshotReadFailed, utils.SnapshotDirName, err)
	}

	snapshots := make([]models.SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !ValidSnapshotID(entry.Name()) {
			continue
		}
		files, err := s.Files(entry.Name())
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, models.SnapshotInfo{
			ID:        entry.Name(),
			Files:     len(files),
			CreatedAt: snapshotTime(entry),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID < snapshots[j].ID
	})
	return snapshots, nil
}

// snapshotTime reads the capture time from the id prefix, falling back to the
// directory's modification time for ids written by other tools.
func snapshotTime(entry fs.DirEntry) time.Time {
	prefix, _, _ := strings.Cut(entry.Name(), "-")
	if ms, err := strconv.ParseInt(prefix, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	if info, err := entry.Info(); err == nil {
		return info.ModTime().UTC()
	}
	return time.Time{}
}
