package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/model"
)

// CardSearchTool handles the card_search MCP tool.
type CardSearchTool struct {
	svc *Service
}

// NewCardSearchTool creates a CardSearchTool with the given service.
func NewCardSearchTool(svc *Service) *CardSearchTool {
	return &CardSearchTool{svc: svc}
}

// Definition returns the MCP tool definition for card_search.
func (t *CardSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("card_search",
		mcp.WithDescription(
			"Search a board's cards. All filters combine with AND; without any the whole board "+
				"comes back in column order. The total counts every match, not just the returned page.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring over title, content, tags, and subtasks"),
		),
		mcp.WithString("column_id",
			mcp.Description("Restrict to one column"),
		),
		mcp.WithArray("priority",
			mcp.Description("Match any of these priorities"),
			mcp.Items(map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}}),
		),
		mcp.WithArray("tags",
			mcp.Description("Card must carry all of these tags"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("completed",
			mcp.Description("true: only completed cards; false: only not-completed"),
		),
		mcp.WithBoolean("blocked",
			mcp.Description("true: only blocked cards; false: only not-blocked"),
		),
		mcp.WithString("due_before",
			mcp.Description("Only cards due before this RFC 3339 time"),
		),
		mcp.WithString("due_after",
			mcp.Description("Only cards due after this RFC 3339 time"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort key: title, created_at, updated_at, priority, dueDate; prefix \"-\" for descending"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum cards to return; 0 means all"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Cards to skip before the first result"),
		),
	)
}

// Handle processes the card_search tool call.
func (t *CardSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	filter := model.CardFilter{
		ColumnID:  req.GetString("column_id", ""),
		Search:    req.GetString("query", ""),
		Tags:      stringSliceArg(req, "tags"),
		Completed: optionalBoolArg(req, "completed"),
		Blocked:   optionalBoolArg(req, "blocked"),
		Sort:      req.GetString("sort", ""),
		Limit:     intArg(req, "limit", 0),
		Offset:    intArg(req, "offset", 0),
	}
	for _, p := range stringSliceArg(req, "priority") {
		filter.Priority = append(filter.Priority, model.Priority(p))
	}
	if v := req.GetString("due_before", ""); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_before: %v", err)), nil
		}
		filter.DueBefore = &ts
	}
	if v := req.GetString("due_after", ""); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_after: %v", err)), nil
		}
		filter.DueAfter = &ts
	}

	b, err := t.svc.store.GetBoard(ctx, boardID)
	if err != nil {
		return toolError(boardID, err), nil
	}

	cards := board.Search(b, filter)
	if cards == nil {
		cards = []*model.Card{}
	}

	unpaged := filter
	unpaged.Limit = 0
	unpaged.Offset = 0
	total := len(board.Search(b, unpaged))

	return jsonResult(map[string]any{
		"cards": cards,
		"total": total,
	}), nil
}
