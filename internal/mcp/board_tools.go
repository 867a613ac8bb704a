package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alfredjeanlab/tacks/internal/store"
)

// BoardGetTool handles the board_get MCP tool.
type BoardGetTool struct {
	svc *Service
}

// NewBoardGetTool creates a BoardGetTool with the given service.
func NewBoardGetTool(svc *Service) *BoardGetTool {
	return &BoardGetTool{svc: svc}
}

// Definition returns the MCP tool definition for board_get.
func (t *BoardGetTool) Definition() mcp.Tool {
	return mcp.NewTool("board_get",
		mcp.WithDescription(
			"Get a full board document by id: project name, columns, all cards with positions, and next-steps.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
	)
}

// Handle processes the board_get tool call.
func (t *BoardGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	b, err := t.svc.store.GetBoard(ctx, boardID)
	if err != nil {
		return toolError(boardID, err), nil
	}
	return jsonResult(b), nil
}

// BoardListTool handles the board_list MCP tool.
type BoardListTool struct {
	svc *Service
}

// NewBoardListTool creates a BoardListTool with the given service.
func NewBoardListTool(svc *Service) *BoardListTool {
	return &BoardListTool{svc: svc}
}

// Definition returns the MCP tool definition for board_list.
func (t *BoardListTool) Definition() mcp.Tool {
	return mcp.NewTool("board_list",
		mcp.WithDescription(
			"List all boards with id, project name, column and card counts, and last update time.",
		),
	)
}

// Handle processes the board_list tool call.
func (t *BoardListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boards, err := t.svc.store.ListBoards(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if boards == nil {
		boards = []store.BoardSummary{}
	}
	return jsonResult(map[string]any{
		"boards": boards,
		"total":  len(boards),
	}), nil
}
