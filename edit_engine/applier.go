package edit_engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/utils"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

// Applier applies edit batches to one workspace root.
type Applier struct {
	root      string
	store     *SnapshotStore
	now       func() time.Time
	newID     func(time.Time) string
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewApplier returns an applier writing snapshots into the root's snapshot store.
func NewApplier(root string) *Applier {
	return &Applier{
		root:      root,
		store:     NewSnapshotStore(root),
		now:       time.Now,
		newID:     NewSnapshotID,
		writeFile: os.WriteFile,
	}
}

// pendingFile is a target file being edited in memory.
type pendingFile struct {
	rel      string
	abs      string
	mode     os.FileMode
	original []byte
	lines    []string
}

// Apply runs the batch in three phases. Every record is first spliced into an
// in-memory copy of its file, in batch order, so later records see the result
// of earlier ones; a read or range error stops the batch before anything is
// written. Then the original content of every target is captured under one
// snapshot id. Only then are the files rewritten, each once. A write failure in
// the last phase leaves earlier files rewritten; the returned error carries the
// snapshot id that restores them.
func (a *Applier) Apply(batch models.EditBatch) (*models.ApplyResult, error) {
	if len(batch) == 0 {
		return nil, models.Errorf(models.KindMalformedBatch, "", "empty edit batch")
	}

	files, order, err := a.plan(batch)
	if err != nil {
		return nil, err
	}

	snapshotID := a.newID(a.now())
	for _, rel := range order {
		if err := a.store.Capture(snapshotID, rel, files[rel].original); err != nil {
			logger.Error("apply: snapshot %s failed for %s: %v", snapshotID, rel, err)
			if rmErr := os.RemoveAll(a.store.Dir(snapshotID)); rmErr != nil {
				logger.Warn("apply: could not remove partial snapshot %s: %v", snapshotID, rmErr)
			}
			return nil, err
		}
	}
	logger.Debug("apply: snapshot %s captured %d files", snapshotID, len(order))

	for _, rel := range order {
		pf := files[rel]
		if err := a.writeFile(pf.abs, []byte(utils.JoinLines(pf.lines)), pf.mode); err != nil {
			logger.Error("apply: write failed for %s, snapshot %s holds the originals: %v", rel, snapshotID, err)
			return nil, &models.WorkspaceError{
				Kind:       models.KindWriteFailed,
				Path:       rel,
				SnapshotID: snapshotID,
				Err:        err,
			}
		}
	}

	changed := append([]string(nil), order...)
	sort.Strings(changed)
	logger.Info("apply: %d edits to %d files under snapshot %s", len(batch), len(changed), snapshotID)
	return &models.ApplyResult{SnapshotID: snapshotID, Changed: changed}, nil
}

func (a *Applier) plan(batch models.EditBatch) (map[string]*pendingFile, []string, error) {
	files := make(map[string]*pendingFile)
	var order []string

	for _, record := range batch {
		rel, abs, err := ResolvePath(a.root, record.Path)
		if err != nil {
			return nil, nil, err
		}

		pf, seen := files[rel]
		if !seen {
			pf, err = loadPendingFile(rel, abs)
			if err != nil {
				return nil, nil, err
			}
			files[rel] = pf
			order = append(order, rel)
		}

		if record.StartLine < 1 || record.EndLine < record.StartLine || record.EndLine > len(pf.lines) {
			return nil, nil, models.Errorf(models.KindInvalidLineRange, rel,
				"lines %d-%d outside 1-%d", record.StartLine, record.EndLine, len(pf.lines))
		}
		pf.lines = utils.SpliceLines(pf.lines, record.StartLine, record.EndLine, utils.SplitLines(record.Replacement))
	}
	return files, order, nil
}

func loadPendingFile(rel, abs string) (*pendingFile, error) {
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, models.NewError(models.KindFileReadFailed, rel, err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	}
	return &pendingFile{
		rel:      rel,
		abs:      abs,
		mode:     mode,
		original: content,
		lines:    utils.SplitLines(string(content)),
	}, nil
}

// ResolvePath cleans a caller supplied relative path and joins it to root.
// Absolute paths, paths leaving the root and paths into the snapshot store are
// rejected.
func ResolvePath(root, relativePath string) (string, string, error) {
	if strings.TrimSpace(relativePath) == "" {
		return "", "", models.Errorf(models.KindInvalidPath, relativePath, "empty path")
	}
	slashed := filepath.ToSlash(relativePath)
	if filepath.IsAbs(relativePath) || strings.HasPrefix(slashed, "/") {
		return "", "", models.Errorf(models.KindInvalidPath, relativePath, "path must be relative to the workspace root")
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(slashed)))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "", models.Errorf(models.KindInvalidPath, relativePath, "path escapes the workspace root")
	}
	if first, _, _ := strings.Cut(clean, "/"); first == utils.SnapshotDirName {
		return "", "", models.Errorf(models.KindInvalidPath, relativePath, "path points into the snapshot store")
	}
	return clean, filepath.Join(root, filepath.FromSlash(clean)), nil
}

// ApplyEdits is a convenience wrapper for a one-off batch against root.
func ApplyEdits(root string, batch models.EditBatch) (*models.ApplyResult, error) {
	return NewApplier(root).Apply(batch)
}
