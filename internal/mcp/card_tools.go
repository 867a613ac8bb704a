package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/model"
)

// positionArg parses an optional position argument: "first", "last",
// a numeric string, or a raw number. Returns nil when absent.
func positionArg(req mcp.CallToolRequest, key string) (*board.Position, error) {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		p, err := board.ParsePosition(v)
		if err != nil {
			return nil, err
		}
		return &p, nil
	case float64:
		p := board.PositionAt(int(v))
		return &p, nil
	}
	return nil, fmt.Errorf("invalid position %v: want \"first\", \"last\" or an integer", raw)
}

// CardCreateTool handles the card_create MCP tool.
type CardCreateTool struct {
	svc *Service
}

// NewCardCreateTool creates a CardCreateTool with the given service.
func NewCardCreateTool(svc *Service) *CardCreateTool {
	return &CardCreateTool{svc: svc}
}

// Definition returns the MCP tool definition for card_create.
func (t *CardCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("card_create",
		mcp.WithDescription(
			"Create a card on a board. The id and timestamps are assigned by the server; "+
				"omitting column_id targets the board's first column, omitting position appends.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
		mcp.WithString("title",
			mcp.Description("Card title; a placeholder is used when empty"),
		),
		mcp.WithString("column_id",
			mcp.Description("Target column id; defaults to the first column"),
		),
		mcp.WithString("position",
			mcp.Description("\"first\", \"last\", or a zero-based index; defaults to \"last\""),
		),
		mcp.WithString("kind",
			mcp.Description("Card kind: basic, task, or feature"),
			mcp.Enum("basic", "task", "feature"),
		),
		mcp.WithString("content",
			mcp.Description("Markdown body"),
		),
		mcp.WithArray("subtasks",
			mcp.Description("Subtask lines; completed items carry a \"✓ \" prefix"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags (feature cards)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("dependencies",
			mcp.Description("Ids of cards this card depends on (feature cards)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("priority",
			mcp.Description("Card priority (task cards)"),
			mcp.Enum("high", "medium", "low"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date, RFC 3339 (e.g. 2026-03-01T00:00:00Z)"),
		),
	)
}

// Handle processes the card_create tool call.
func (t *CardCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	data := &board.CardData{
		Kind:         model.CardKind(req.GetString("kind", "")),
		Title:        req.GetString("title", ""),
		Content:      req.GetString("content", ""),
		Subtasks:     stringSliceArg(req, "subtasks"),
		Tags:         stringSliceArg(req, "tags"),
		Dependencies: stringSliceArg(req, "dependencies"),
		Priority:     model.Priority(req.GetString("priority", "")),
	}
	if v := req.GetString("due_date", ""); v != "" {
		due, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_date: %v", err)), nil
		}
		data.DueDate = &due
	}

	pos, err := positionArg(req, "position")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	columnID := req.GetString("column_id", "")

	var created *model.Card
	err = t.svc.mutate(ctx, boardID, func(b *model.Board) (*model.Board, error) {
		nb, card, err := board.Create(b, columnID, pos, data)
		if err != nil {
			return nil, err
		}
		created = card
		return nb, nil
	})
	if err != nil {
		return toolError(boardID, err), nil
	}
	return jsonResult(created), nil
}

// CardUpdateTool handles the card_update MCP tool.
type CardUpdateTool struct {
	svc *Service
}

// NewCardUpdateTool creates a CardUpdateTool with the given service.
func NewCardUpdateTool(svc *Service) *CardUpdateTool {
	return &CardUpdateTool{svc: svc}
}

// Definition returns the MCP tool definition for card_update.
func (t *CardUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("card_update",
		mcp.WithDescription(
			"Patch a card's fields. Only keys present in the patch change; null clears a field. "+
				"Allowed keys: title, content, collapsed, subtasks, tags, dependencies, priority, dueDate. "+
				"Column and position change only via card_move.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card id (tk-...)"),
		),
		mcp.WithObject("patch",
			mcp.Required(),
			mcp.Description("Sparse patch object keyed by wire field name"),
		),
	)
}

// Handle processes the card_update tool call.
func (t *CardUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	cardID := req.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	raw, ok := req.GetArguments()["patch"]
	if !ok {
		return mcp.NewToolResultError("'patch' is required"), nil
	}
	// Round-trip through JSON so the patch decoder enforces the
	// allowed-key and presence semantics, same as the HTTP layer.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid patch: %v", err)), nil
	}
	var patch model.CardPatch
	if err := json.Unmarshal(encoded, &patch); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid patch: %v", err)), nil
	}

	var updated *model.Card
	err = t.svc.mutate(ctx, boardID, func(b *model.Board) (*model.Board, error) {
		nb, card, _, err := board.Update(b, cardID, patch)
		if err != nil {
			return nil, err
		}
		updated = card
		return nb, nil
	})
	if err != nil {
		return toolError(boardID, err), nil
	}
	return jsonResult(updated), nil
}

// CardMoveTool handles the card_move MCP tool.
type CardMoveTool struct {
	svc *Service
}

// NewCardMoveTool creates a CardMoveTool with the given service.
func NewCardMoveTool(svc *Service) *CardMoveTool {
	return &CardMoveTool{svc: svc}
}

// Definition returns the MCP tool definition for card_move.
func (t *CardMoveTool) Definition() mcp.Tool {
	return mcp.NewTool("card_move",
		mcp.WithDescription(
			"Move a card to a column and slot. Positions in both affected columns are re-derived; "+
				"moving into a \"done\" or \"blocked\" column stamps the matching timestamp.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card id (tk-...)"),
		),
		mcp.WithString("column_id",
			mcp.Required(),
			mcp.Description("Target column id"),
		),
		mcp.WithString("position",
			mcp.Description("\"first\", \"last\", or a zero-based index; defaults to \"last\""),
		),
	)
}

// Handle processes the card_move tool call.
func (t *CardMoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	cardID := req.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	columnID := req.GetString("column_id", "")
	if columnID == "" {
		return mcp.NewToolResultError("'column_id' is required"), nil
	}

	pos, err := positionArg(req, "position")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pos == nil {
		p := board.PositionLast()
		pos = &p
	}

	var moved *model.Card
	err = t.svc.mutate(ctx, boardID, func(b *model.Board) (*model.Board, error) {
		nb, card, err := board.Move(b, cardID, columnID, *pos)
		if err != nil {
			return nil, err
		}
		moved = card
		return nb, nil
	})
	if err != nil {
		return toolError(boardID, err), nil
	}
	return jsonResult(moved), nil
}

// CardDeleteTool handles the card_delete MCP tool.
type CardDeleteTool struct {
	svc *Service
}

// NewCardDeleteTool creates a CardDeleteTool with the given service.
func NewCardDeleteTool(svc *Service) *CardDeleteTool {
	return &CardDeleteTool{svc: svc}
}

// Definition returns the MCP tool definition for card_delete.
func (t *CardDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("card_delete",
		mcp.WithDescription(
			"Delete a card. Its id is stripped from every other card's dependencies.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board id (brd-...)"),
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card id (tk-...)"),
		),
	)
}

// Handle processes the card_delete tool call.
func (t *CardDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	cardID := req.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	err := t.svc.mutate(ctx, boardID, func(b *model.Board) (*model.Board, error) {
		return board.Delete(b, cardID)
	})
	if err != nil {
		return toolError(boardID, err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", cardID)), nil
}
