package contracts

import "github.com/meysamhadeli/wsengine/workspace/models"

type IWorkspace interface {
	Root() string
	ListFiles() []string
	ReadFile(path string, maxBytes *int64) (*models.ReadResult, error)
	ReadWorkspaceFile(path string, maxBytes *int64) (*models.ReadResult, error)
	Search(query string, topK *int, maxBytes *int64) ([]models.SearchMatch, error)
	ApplyEdits(raw []byte) (*models.ApplyResult, error)
	ApplyBatch(batch models.EditBatch) (*models.ApplyResult, error)
	Rollback(snapshotID string) (*models.RollbackResult, error)
	Snapshots() ([]models.SnapshotInfo, error)
	DiffSnapshot(snapshotID string, unified bool) ([]models.SnapshotFileDiff, error)
}
