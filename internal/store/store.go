// Package store defines the persistence contract for board documents.
// Implementations replace documents wholesale; there are no partial
// writes, matching the load-mutate-save cycle the engine assumes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjeanlab/tacks/internal/model"
)

// ErrNotFound is returned when a board document does not exist.
var ErrNotFound = errors.New("board not found")

// Store persists whole board documents.
type Store interface {
	// GetBoard loads a board document. Returns ErrNotFound if absent.
	GetBoard(ctx context.Context, id string) (*model.Board, error)

	// ListBoards returns lightweight summaries of every stored board,
	// most recently updated first.
	ListBoards(ctx context.Context) ([]BoardSummary, error)

	// PutBoard writes the document wholesale, creating or replacing it.
	PutBoard(ctx context.Context, b *model.Board) error

	// DeleteBoard removes the document. Returns ErrNotFound if absent.
	DeleteBoard(ctx context.Context, id string) error

	// Close releases underlying resources.
	Close() error
}

// BoardSummary is a listing record; it spares callers a full document
// load per board.
type BoardSummary struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	Columns     int       `json:"columns"`
	Cards       int       `json:"cards"`
	LastUpdated time.Time `json:"last_updated"`
}

// Summarize builds the listing record for a board document.
func Summarize(b *model.Board) BoardSummary {
	return BoardSummary{
		ID:          b.ID,
		ProjectName: b.ProjectName,
		Columns:     len(b.Columns),
		Cards:       len(b.Cards),
		LastUpdated: b.LastUpdated,
	}
}
