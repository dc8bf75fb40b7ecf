package mcp_server

import (
	"context"

	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace/contracts"
	"github.com/meysamhadeli/wsengine/workspace/models"
	gomcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// envelopeResult renders an envelope as the tool's text result. Failed
// envelopes are flagged as tool errors so clients see them without parsing.
func envelopeResult(env protocol.Envelope) (*gomcp.CallToolResult, error) {
	text, err := protocol.Marshal(env)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return gomcp.NewToolResultError(text), nil
	}
	return gomcp.NewToolResultText(text), nil
}

func missingParam(name string) (*gomcp.CallToolResult, error) {
	logger.Debug("mcp: missing parameter %s", name)
	return envelopeResult(protocol.Failure(models.KindMissingArgument, ""))
}

func hasArg(req gomcp.CallToolRequest, name string) bool {
	_, ok := req.GetArguments()[name]
	return ok
}

// optionalInt returns nil when the argument was not sent, so the workspace
// default applies.
func optionalInt(req gomcp.CallToolRequest, name string) *int {
	if !hasArg(req, name) {
		return nil
	}
	value := req.GetInt(name, 0)
	return &value
}

func optionalInt64(req gomcp.CallToolRequest, name string) *int64 {
	if !hasArg(req, name) {
		return nil
	}
	value := int64(req.GetInt(name, 0))
	return &value
}

func handleListFiles(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call list_files")
		return envelopeResult(protocol.Files(ws.ListFiles()))
	}
}

func handleReadFile(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call read_file")
		path := req.GetString("path", "")
		if path == "" {
			return missingParam("path")
		}
		result, err := ws.ReadWorkspaceFile(path, optionalInt64(req, "max_bytes"))
		return envelopeResult(protocol.Respond(result, err, protocol.Content))
	}
}

func handleSearchText(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call search_text")
		if !hasArg(req, "query") {
			return missingParam("query")
		}
		matches, err := ws.Search(req.GetString("query", ""), optionalInt(req, "top_k"), optionalInt64(req, "max_bytes"))
		return envelopeResult(protocol.Respond(matches, err, protocol.Results))
	}
}

func handleApplyEdits(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call apply_edits")
		raw := req.GetString("edits_json", "")
		if raw == "" {
			return missingParam("edits_json")
		}
		result, err := ws.ApplyEdits([]byte(raw))
		return envelopeResult(protocol.Respond(result, err, protocol.Applied))
	}
}

func handleRollback(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call rollback")
		id := req.GetString("snapshot_id", "")
		if id == "" {
			return missingParam("snapshot_id")
		}
		result, err := ws.Rollback(id)
		return envelopeResult(protocol.Respond(result, err, protocol.RolledBack))
	}
}

func handleListSnapshots(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call list_snapshots")
		snapshots, err := ws.Snapshots()
		return envelopeResult(protocol.Respond(snapshots, err, protocol.Snapshots))
	}
}

func handleDiffSnapshot(ws contracts.IWorkspace) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		logger.Debug("mcp: tool call diff_snapshot")
		id := req.GetString("snapshot_id", "")
		if id == "" {
			return missingParam("snapshot_id")
		}
		diffs, err := ws.DiffSnapshot(id, req.GetBool("unified", false))
		return envelopeResult(protocol.Respond(diffs, err, func(d []models.SnapshotFileDiff) protocol.Envelope {
			return protocol.SnapshotDiff(id, d)
		}))
	}
}
