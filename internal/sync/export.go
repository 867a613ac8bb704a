// Package sync periodically exports board documents to external
// destinations (S3-compatible object storage, git repositories).
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	BoardCount int       `json:"board_count"`
	CardCount  int       `json:"card_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes every board document from the store as JSONL to w:
// one header line, then one line per board. Boards are sorted by ID so
// exports of identical state are byte-comparable (modulo the header
// timestamp).
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	summaries, err := s.ListBoards(ctx)
	if err != nil {
		return fmt.Errorf("list boards: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	boards := make([]*model.Board, 0, len(summaries))
	cardCount := 0
	for _, sum := range summaries {
		b, err := s.GetBoard(ctx, sum.ID)
		if err != nil {
			return fmt.Errorf("get board %s: %w", sum.ID, err)
		}
		boards = append(boards, b)
		cardCount += len(b.Cards)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		BoardCount: len(boards),
		CardCount:  cardCount,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, b := range boards {
		if err := enc.Encode(record{Type: "board", Data: b}); err != nil {
			return fmt.Errorf("encode board %s: %w", b.ID, err)
		}
	}

	return nil
}
