// Package client provides a transport-agnostic interface for the tacks
// service and an HTTP/JSON implementation that talks to the tacks REST API.
package client

import (
	"context"
	"encoding/json"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// BoardClient is the interface that all tk CLI commands use to
// communicate with the tacks server. It is implemented by HTTPClient
// and can be backed by any transport.
type BoardClient interface {
	// Boards
	CreateBoard(ctx context.Context, req *CreateBoardRequest) (*model.Board, error)
	GetBoard(ctx context.Context, id string) (*model.Board, error)
	ListBoards(ctx context.Context) (*ListBoardsResponse, error)
	ReplaceBoard(ctx context.Context, b *model.Board) (*model.Board, error)
	UpdateBoard(ctx context.Context, id string, req *UpdateBoardRequest) (*model.Board, error)
	DeleteBoard(ctx context.Context, id string) error

	// Cards
	CreateCard(ctx context.Context, boardID string, req *CreateCardRequest) (*model.Card, error)
	GetCard(ctx context.Context, boardID, cardID string) (*model.Card, error)
	ListCards(ctx context.Context, boardID string, filter model.CardFilter) (*ListCardsResponse, error)
	UpdateCard(ctx context.Context, boardID, cardID string, patch *model.CardPatch) (*model.Card, error)
	MoveCard(ctx context.Context, boardID, cardID, columnID string, pos board.Position) (*model.Card, error)
	DeleteCard(ctx context.Context, boardID, cardID string) error

	// Batch
	ApplyBatch(ctx context.Context, boardID string, ops []board.Operation) ([]*model.Card, error)

	// Events
	WatchEvents(ctx context.Context, req *WatchRequest, fn func(Event)) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateBoardRequest holds parameters for creating a board. Columns is
// optional; the server applies its default lanes when it is empty.
type CreateBoardRequest struct {
	ProjectName string         `json:"projectName"`
	Columns     []model.Column `json:"columns,omitempty"`
	NextSteps   []string       `json:"next-steps,omitempty"`
}

// UpdateBoardRequest holds optional board-level fields for a patch.
// Nil pointer fields mean "don't change".
type UpdateBoardRequest struct {
	ProjectName *string   `json:"projectName,omitempty"`
	NextSteps   *[]string `json:"next-steps,omitempty"`
}

// ListBoardsResponse is the response from ListBoards.
type ListBoardsResponse struct {
	Boards []store.BoardSummary `json:"boards"`
	Total  int                  `json:"total"`
}

// CreateCardRequest holds parameters for creating a card. ColumnID and
// Position are optional; absent values mean the first column and the
// bottom slot.
type CreateCardRequest struct {
	board.CardData
	ColumnID string          `json:"columnId,omitempty"`
	Position *board.Position `json:"position,omitempty"`
}

// ListCardsResponse is the response from ListCards. Total counts every
// match, not just the returned page.
type ListCardsResponse struct {
	Cards []*model.Card `json:"cards"`
	Total int           `json:"total"`
}

// WatchRequest holds parameters for the event stream. Topics are
// NATS-style glob patterns ("tacks.card.*", "tacks.>"); empty means
// all. LastEventID resumes from a previous stream position.
type WatchRequest struct {
	Topics      []string
	LastEventID string
}

// Event is a single server event delivered by WatchEvents.
type Event struct {
	ID    string
	Topic string
	Data  json.RawMessage
}
