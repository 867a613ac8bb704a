package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/model"
)

// BatchApplyTool handles the batch_apply MCP tool.
type BatchApplyTool struct {
	svc *Service
}

// NewBatchApplyTool creates a BatchApplyTool with the given service.
func NewBatchApplyTool(svc *Service) *BatchApplyTool {
	return &BatchApplyTool{svc: svc}
}

// Definition returns the MCP tool definition for batch_apply.
func (t *BatchApplyTool) Definition() mcp.Tool {
	return mcp.NewTool("batch_apply",
		mcp.WithDescription(
			"Apply several operations to a board atomically. Each operation is "+
				`{"op":"create|update|move|delete", ...} with the same fields as the single-card tools; `+
				"later operations see the effects of earlier ones. The first failure aborts the whole "+
				"batch and the board is unchanged.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
		mcp.WithArray("operations",
			mcp.Required(),
			mcp.Description("Operation descriptors, applied in order"),
			mcp.Items(map[string]any{"type": "object"}),
		),
	)
}

// Handle processes the batch_apply tool call.
func (t *BatchApplyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	raw, ok := req.GetArguments()["operations"]
	if !ok {
		return mcp.NewToolResultError("'operations' is required"), nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid operations: %v", err)), nil
	}
	var ops []board.Operation
	if err := json.Unmarshal(encoded, &ops); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid operations: %v", err)), nil
	}

	var affected []*model.Card
	err = t.svc.mutate(ctx, boardID, func(b *model.Board) (*model.Board, error) {
		nb, cards, err := board.ApplyBatch(b, ops)
		if err != nil {
			return nil, err
		}
		affected = cards
		return nb, nil
	})
	if err != nil {
		return toolError(boardID, err), nil
	}

	// Affected cards in op order; deletes hold their slot as null.
	return jsonResult(map[string]any{
		"cards": affected,
	}), nil
}
