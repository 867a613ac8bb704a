package events

import (
	"context"

	"github.com/alfredjeanlab/tacks/internal/model"
)

// Event topic constants
const (
	TopicBoardCreated = "tacks.board.created"
	TopicBoardUpdated = "tacks.board.updated"
	TopicBoardDeleted = "tacks.board.deleted"

	TopicCardCreated = "tacks.card.created"
	TopicCardUpdated = "tacks.card.updated"
	TopicCardMoved   = "tacks.card.moved"
	TopicCardDeleted = "tacks.card.deleted"

	// Batch events carry one summary per batch call; the individual
	// card events are still emitted per operation.
	TopicBatchApplied = "tacks.batch.applied"
)

// Event types

type BoardCreated struct {
	Board *model.Board `json:"board"`
}

type BoardUpdated struct {
	BoardID string         `json:"board_id"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type BoardDeleted struct {
	BoardID string `json:"board_id"`
}

type CardCreated struct {
	BoardID string      `json:"board_id"`
	Card    *model.Card `json:"card"`
}

type CardUpdated struct {
	BoardID string         `json:"board_id"`
	CardID  string         `json:"card_id"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type CardMoved struct {
	BoardID    string `json:"board_id"`
	CardID     string `json:"card_id"`
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
	Position   int    `json:"position"`
}

type CardDeleted struct {
	BoardID string `json:"board_id"`
	CardID  string `json:"card_id"`
}

type BatchApplied struct {
	BoardID    string `json:"board_id"`
	Operations int    `json:"operations"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
