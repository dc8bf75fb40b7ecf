package http_server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace/contracts"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

// maxEditsBody caps the size of a POST /edits body.
var maxEditsBody int64 = 32 << 20

type workspaceController struct {
	ctx *gin.Context
	ws  contracts.IWorkspace
}

func newWorkspaceController(ctx *gin.Context, ws contracts.IWorkspace) *workspaceController {
	return &workspaceController{ctx: ctx, ws: ws}
}

// StatusFor maps an error kind to the HTTP status of its response.
func StatusFor(kind models.ErrorKind) int {
	switch kind {
	case "":
		return http.StatusOK
	case models.KindMissingArgument, models.KindMalformedBatch, models.KindInvalidEscape,
		models.KindInvalidPath, models.KindEditsReadFailed:
		return http.StatusBadRequest
	case models.KindSnapshotNotFound, models.KindReadFailed, models.KindFileReadFailed:
		return http.StatusNotFound
	case models.KindInvalidLineRange:
		return http.StatusUnprocessableEntity
	case models.KindEditsTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (c *workspaceController) respond(env protocol.Envelope) {
	c.ctx.JSON(StatusFor(env.Kind()), env)
}

func (c *workspaceController) respondMissing(err error) {
	c.respond(protocol.Failure(models.KindMissingArgument, "").With("message", err.Error()))
}

func (c *workspaceController) ListFiles() {
	c.respond(protocol.Files(c.ws.ListFiles()))
}

func (c *workspaceController) ReadFile() {
	var query ReadFileQuery
	if err := c.ctx.ShouldBindQuery(&query); err != nil {
		c.respondMissing(err)
		return
	}
	if err := query.Validate(); err != nil {
		c.respondMissing(err)
		return
	}
	result, err := c.ws.ReadWorkspaceFile(query.Path, query.MaxBytes)
	c.respond(protocol.Respond(result, err, protocol.Content))
}

func (c *workspaceController) Search() {
	var query SearchQuery
	if err := c.ctx.ShouldBindQuery(&query); err != nil {
		c.respondMissing(err)
		return
	}
	if err := query.Validate(); err != nil {
		c.respondMissing(err)
		return
	}
	matches, err := c.ws.Search(*query.Query, query.TopK, query.MaxBytes)
	c.respond(protocol.Respond(matches, err, protocol.Results))
}

func (c *workspaceController) ApplyEdits() {
	raw, err := io.ReadAll(http.MaxBytesReader(c.ctx.Writer, c.ctx.Request.Body, maxEditsBody))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.respond(protocol.Failure(models.KindEditsTooLarge, "").With("message", err.Error()))
		return
	}
	if err != nil {
		c.respond(protocol.Failure(models.KindEditsReadFailed, "").With("message", err.Error()))
		return
	}
	result, err := c.ws.ApplyEdits(raw)
	c.respond(protocol.Respond(result, err, protocol.Applied))
}

func (c *workspaceController) Rollback() {
	var request RollbackRequest
	if err := json.NewDecoder(c.ctx.Request.Body).Decode(&request); err != nil {
		c.respondMissing(err)
		return
	}
	if err := request.Validate(); err != nil {
		c.respondMissing(err)
		return
	}
	result, err := c.ws.Rollback(request.SnapshotID)
	c.respond(protocol.Respond(result, err, protocol.RolledBack))
}

func (c *workspaceController) ListSnapshots() {
	snapshots, err := c.ws.Snapshots()
	c.respond(protocol.Respond(snapshots, err, protocol.Snapshots))
}

func (c *workspaceController) DiffSnapshot() {
	id := c.ctx.Param("id")
	var query DiffQuery
	if err := c.ctx.ShouldBindQuery(&query); err != nil {
		c.respondMissing(err)
		return
	}
	diffs, err := c.ws.DiffSnapshot(id, query.Unified)
	c.respond(protocol.Respond(diffs, err, func(d []models.SnapshotFileDiff) protocol.Envelope {
		return protocol.SnapshotDiff(id, d)
	}))
}
