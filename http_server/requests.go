package http_server

import "github.com/go-playground/validator/v10"

// AccessTokenHeader carries the shared secret when the server runs with an access token.
const AccessTokenHeader = "X-Wsengine-Access-Token"

var validate = validator.New()

// ReadFileQuery is bound from GET /files/content. Absent limits are nil and
// take the workspace default.
type ReadFileQuery struct {
	Path     string `form:"path" validate:"required"`
	MaxBytes *int64 `form:"max_bytes" validate:"omitempty,gte=0"`
}

func (q *ReadFileQuery) Validate() error {
	return validate.Struct(q)
}

// SearchQuery is bound from GET /search.
type SearchQuery struct {
	Query    *string `form:"query" validate:"required"`
	TopK     *int    `form:"top_k"`
	MaxBytes *int64  `form:"max_bytes" validate:"omitempty,gte=0"`
}

func (q *SearchQuery) Validate() error {
	return validate.Struct(q)
}

// RollbackRequest is the body of POST /rollback.
type RollbackRequest struct {
	SnapshotID string `json:"snapshot_id" validate:"required"`
}

func (r *RollbackRequest) Validate() error {
	return validate.Struct(r)
}

// DiffQuery is bound from GET /snapshots/:id/diff.
type DiffQuery struct {
	Unified bool `form:"unified"`
}
