package workspace

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/meysamhadeli/wsengine/edit_engine"
	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/utils"
	"github.com/meysamhadeli/wsengine/workspace/contracts"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

const (
	DefaultMaxBytes int64 = 200000
	DefaultTopK           = 10
)

// Options tune a Workspace. Zero values fall back to the defaults.
type Options struct {
	MaxBytes       int64
	TopK           int
	IgnorePatterns []string
	UseIgnoreFile  bool
}

// Workspace binds every operation to one root directory. Mutating calls are
// serialised within the process; nothing guards against a second process
// editing the same root.
type Workspace struct {
	root    string
	opts    Options
	matcher *utils.IgnoreMatcher
	applier *edit_engine.Applier
	mu      sync.Mutex
}

var _ contracts.IWorkspace = (*Workspace)(nil)

// NewWorkspace resolves root to an absolute path and builds the ignore matcher
// from the configured patterns and, when enabled, the project ignore file.
func NewWorkspace(root string, opts Options) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		return nil, models.Errorf(models.KindMissingArgument, "", "root is required")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, models.NewError(models.KindInvalidPath, root, err)
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}

	patterns := append([]string(nil), opts.IgnorePatterns...)
	if opts.UseIgnoreFile {
		filePatterns, err := utils.GetIgnoreFilePatterns(absRoot)
		if err != nil {
			logger.Warn("workspace: ignoring %s: %v", utils.IgnoreFileName, err)
		} else {
			patterns = append(patterns, filePatterns...)
		}
	}
	matcher, rejected := utils.NewIgnoreMatcher(patterns)
	for _, p := range rejected {
		logger.Warn("workspace: invalid ignore pattern %q", p)
	}

	return &Workspace{
		root:    absRoot,
		opts:    opts,
		matcher: matcher,
		applier: edit_engine.NewApplier(absRoot),
	}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

func (w *Workspace) ListFiles() []string {
	files := ListFiles(w.root, w.matcher)
	if files == nil {
		files = []string{}
	}
	return files
}

// ReadFile reads a file by absolute path or by path relative to the root.
// A nil maxBytes uses the workspace default.
func (w *Workspace) ReadFile(path string, maxBytes *int64) (*models.ReadResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, models.Errorf(models.KindMissingArgument, "", "path is required")
	}
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(w.root, filepath.FromSlash(path))
	}
	return w.readBounded(path, target, maxBytes)
}

// ReadWorkspaceFile reads a root-relative path and refuses anything outside the
// root or inside the snapshot store.
func (w *Workspace) ReadWorkspaceFile(path string, maxBytes *int64) (*models.ReadResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, models.Errorf(models.KindMissingArgument, "", "path is required")
	}
	_, target, err := edit_engine.ResolvePath(w.root, path)
	if err != nil {
		return nil, err
	}
	return w.readBounded(path, target, maxBytes)
}

func (w *Workspace) readBounded(path, target string, maxBytes *int64) (*models.ReadResult, error) {
	content, truncated, err := ReadBounded(target, w.maxBytes(maxBytes))
	if err != nil {
		var we *models.WorkspaceError
		if errors.As(err, &we) {
			we.Path = path
		}
		return nil, err
	}
	return &models.ReadResult{Path: path, Content: content, Truncated: truncated}, nil
}

// Search runs a literal search over the workspace. A nil topK or maxBytes uses
// the workspace default; any other topK is clamped to at least 1. An empty
// query matches every line.
func (w *Workspace) Search(query string, topK *int, maxBytes *int64) ([]models.SearchMatch, error) {
	limit := w.opts.TopK
	if topK != nil {
		limit = *topK
	}
	return Search(w.root, query, limit, w.maxBytes(maxBytes), w.matcher), nil
}

func (w *Workspace) maxBytes(override *int64) int64 {
	if override == nil {
		return w.opts.MaxBytes
	}
	if *override < 0 {
		return 0
	}
	return *override
}

// ApplyEdits decodes a raw edit batch document and applies it.
func (w *Workspace) ApplyEdits(raw []byte) (*models.ApplyResult, error) {
	batch, err := edit_engine.DecodeEdits(raw)
	if err != nil {
		return nil, err
	}
	return w.ApplyBatch(batch)
}

func (w *Workspace) ApplyBatch(batch models.EditBatch) (*models.ApplyResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applier.Apply(batch)
}

func (w *Workspace) Rollback(snapshotID string) (*models.RollbackResult, error) {
	if strings.TrimSpace(snapshotID) == "" {
		return nil, models.Errorf(models.KindMissingArgument, "", "snapshot id is required")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return edit_engine.Rollback(w.root, snapshotID)
}

func (w *Workspace) Snapshots() ([]models.SnapshotInfo, error) {
	return edit_engine.NewSnapshotStore(w.root).List()
}

func (w *Workspace) DiffSnapshot(snapshotID string, unified bool) ([]models.SnapshotFileDiff, error) {
	if strings.TrimSpace(snapshotID) == "" {
		return nil, models.Errorf(models.KindMissingArgument, "", "snapshot id is required")
	}
	return edit_engine.DiffSnapshot(w.root, snapshotID, unified)
}
