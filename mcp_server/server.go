package mcp_server

import (
	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/workspace/contracts"
	gomcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const serverInstructions = "You are connected to a local workspace engine bound to one project root. " +
	"Use list_files and search_text to find code, and read_file to inspect it. " +
	"apply_edits replaces 1-based inclusive line ranges and returns a snapshot_id; " +
	"pass that id to rollback to restore every file the batch touched. " +
	"Every tool answers with a JSON object whose \"ok\" field tells success; failures carry \"error\" and, when known, \"path\"."

// WorkspaceMCPServer exposes one workspace as MCP tools.
type WorkspaceMCPServer struct {
	server    *mcpserver.MCPServer
	workspace contracts.IWorkspace
}

// NewWorkspaceMCPServer registers every workspace tool.
func NewWorkspaceMCPServer(ws contracts.IWorkspace, version string) *WorkspaceMCPServer {
	s := mcpserver.NewMCPServer(
		"wsengine",
		version,
		mcpserver.WithInstructions(serverInstructions),
	)

	h := &WorkspaceMCPServer{
		server:    s,
		workspace: ws,
	}
	h.registerReadTools()
	h.registerEditTools()

	logger.Info("mcp: server created for %s", ws.Root())
	return h
}

func (h *WorkspaceMCPServer) registerReadTools() {
	listFiles := gomcp.NewTool("list_files",
		gomcp.WithDescription("List every non-ignored regular file under the workspace root as sorted relative paths."),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
	h.server.AddTool(listFiles, handleListFiles(h.workspace))

	readFile := gomcp.NewTool("read_file",
		gomcp.WithDescription(
			"Read a file inside the workspace root. "+
				"At most max_bytes are returned; truncated is true when the limit was reached.",
		),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithString("path",
			gomcp.Required(),
			gomcp.Description("File path relative to the workspace root."),
		),
		gomcp.WithNumber("max_bytes",
			gomcp.Description("Maximum bytes to read (default 200000)."),
		),
	)
	h.server.AddTool(readFile, handleReadFile(h.workspace))

	searchText := gomcp.NewTool("search_text",
		gomcp.WithDescription(
			"Find lines containing query as a literal, case-sensitive substring. "+
				"Shorter lines rank first; ties keep path then line order.",
		),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithString("query",
			gomcp.Required(),
			gomcp.Description("Literal text to find. An empty query matches every line."),
		),
		gomcp.WithNumber("top_k",
			gomcp.Description("Maximum matches to return (default 10, minimum 1)."),
		),
		gomcp.WithNumber("max_bytes",
			gomcp.Description("Bytes read per file (default 200000)."),
		),
	)
	h.server.AddTool(searchText, handleSearchText(h.workspace))

	listSnapshots := gomcp.NewTool("list_snapshots",
		gomcp.WithDescription("List the snapshots taken by earlier apply_edits calls, oldest first."),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
	h.server.AddTool(listSnapshots, handleListSnapshots(h.workspace))

	diffSnapshot := gomcp.NewTool("diff_snapshot",
		gomcp.WithDescription("Compare each file of a snapshot with its current workspace copy."),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithString("snapshot_id",
			gomcp.Required(),
			gomcp.Description("Snapshot id returned by apply_edits."),
		),
		gomcp.WithBoolean("unified",
			gomcp.Description("Include a unified diff for modified files."),
		),
	)
	h.server.AddTool(diffSnapshot, handleDiffSnapshot(h.workspace))
}

func (h *WorkspaceMCPServer) registerEditTools() {
	applyEdits := gomcp.NewTool("apply_edits",
		gomcp.WithDescription(
			"Apply a batch of line-range edits. The original content of every touched file is "+
				"snapshotted first; the returned snapshot_id restores it with rollback. "+
				"Nothing is written if any edit is invalid.",
		),
		gomcp.WithString("edits_json",
			gomcp.Required(),
			gomcp.Description("JSON document: {\"edits\": [{\"path\": \"a.go\", \"start_line\": 1, \"end_line\": 2, \"replacement\": \"...\"}]} or a bare array of edit objects."),
		),
	)
	h.server.AddTool(applyEdits, handleApplyEdits(h.workspace))

	rollback := gomcp.NewTool("rollback",
		gomcp.WithDescription("Restore every file captured in a snapshot."),
		gomcp.WithString("snapshot_id",
			gomcp.Required(),
			gomcp.Description("Snapshot id returned by apply_edits."),
		),
	)
	h.server.AddTool(rollback, handleRollback(h.workspace))
}

// Serve starts the MCP server using stdio transport.
func (h *WorkspaceMCPServer) Serve() error {
	return mcpserver.ServeStdio(h.server)
}
