// Package mcp exposes the board engine over the Model Context Protocol.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema, and a Handle() that
// processes the request. Tools share a Service that runs the
// load-mutate-save cycle against the store; the stdio process is the
// single writer for its data directory, so no events are published.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/alfredjeanlab/tacks/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer wires every board tool into an MCP server backed by the
// given store. This is the composition root: no board logic lives
// here, only registration.
func NewServer(st store.Store) *server.MCPServer {
	svc := NewService(st)

	s := server.NewMCPServer(
		"tacks",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	boardGet := NewBoardGetTool(svc)
	s.AddTool(boardGet.Definition(), boardGet.Handle)

	boardList := NewBoardListTool(svc)
	s.AddTool(boardList.Definition(), boardList.Handle)

	cardCreate := NewCardCreateTool(svc)
	s.AddTool(cardCreate.Definition(), cardCreate.Handle)

	cardUpdate := NewCardUpdateTool(svc)
	s.AddTool(cardUpdate.Definition(), cardUpdate.Handle)

	cardMove := NewCardMoveTool(svc)
	s.AddTool(cardMove.Definition(), cardMove.Handle)

	cardDelete := NewCardDeleteTool(svc)
	s.AddTool(cardDelete.Definition(), cardDelete.Handle)

	cardSearch := NewCardSearchTool(svc)
	s.AddTool(cardSearch.Definition(), cardSearch.Handle)

	batchApply := NewBatchApplyTool(svc)
	s.AddTool(batchApply.Definition(), batchApply.Handle)

	return s
}

const serverInstructions = `tacks manages kanban board documents: columns of cards with
positions, tags, dependencies, priorities and due dates.

Use board_list to discover boards and board_get to read one. Card
positions are dense per column (0..n-1) and maintained by the server;
never compute them yourself. Moving a card into a column named "done"
stamps completed_at, "blocked" stamps blocked_at; moving it out clears
the stamp. Use batch_apply when several changes must land together:
the batch is atomic, and later operations see the effects of earlier
ones.`
