package models

import "time"

// ReadResult holds the bytes of a bounded read.
type ReadResult struct {
	Path      string
	Content   []byte
	Truncated bool
}

// SearchMatch is a single matching line found by the search engine.
type SearchMatch struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
	Score   int    `json:"-"`
}

// EditRecord replaces lines [StartLine, EndLine] (1-based, inclusive) of Path
// with the lines of Replacement.
type EditRecord struct {
	Path        string
	StartLine   int
	EndLine     int
	Replacement string
}

// EditBatch is an ordered, non-empty sequence of edits applied under one snapshot.
type EditBatch []EditRecord

// ApplyResult is returned by a successful edit batch.
type ApplyResult struct {
	SnapshotID string   `json:"snapshot_id"`
	Changed    []string `json:"changed"`
}

// RollbackResult is returned by a successful rollback.
type RollbackResult struct {
	SnapshotID string   `json:"snapshot_id"`
	Restored   []string `json:"restored"`
}

// SnapshotInfo describes one snapshot directory under the snapshot root.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Files     int       `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// FileStatus compares a snapshot copy with the current workspace file.
type FileStatus string

const (
	FileStatusUnchanged FileStatus = "unchanged"
	FileStatusModified  FileStatus = "modified"
	FileStatusMissing   FileStatus = "missing"
)

// SnapshotFileDiff is the per-file outcome of comparing a snapshot to the workspace.
type SnapshotFileDiff struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
	Diff   string     `json:"diff,omitempty"`
}
