// Package model defines the board document: columns, cards, and the
// structural rules they must satisfy. The document's JSON field names
// are fixed by the on-disk board format and are preserved exactly.
package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Column is a named lane on the board. Cards reference it by id.
// Position is optional in the document; when present it overrides the
// column's order within the containing sequence.
type Column struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position *int   `json:"position,omitempty"`
}

// IsDone reports whether the column is the conventional "Done" lane.
// Cards entering it gain a completed_at timestamp.
func (c Column) IsDone() bool {
	return strings.EqualFold(c.Name, "done")
}

// IsBlocked reports whether the column is the conventional "Blocked" lane.
// Cards entering it gain a blocked_at timestamp.
func (c Column) IsBlocked() bool {
	return strings.EqualFold(c.Name, "blocked")
}

// Board is the top-level persisted document. It is loaded wholesale,
// mutated in memory, and written back wholesale.
//
// IsDragging and ScrollToColumn are UI-transient leftovers that some
// clients write into the document. They round-trip as raw JSON and are
// never read.
type Board struct {
	ProjectName string    `json:"projectName"`
	ID          string    `json:"id"`
	Columns     []Column  `json:"columns"`
	Cards       []*Card   `json:"cards"`
	NextSteps   []string  `json:"next-steps,omitempty"`
	LastUpdated time.Time `json:"last_updated"`

	IsDragging     json.RawMessage `json:"isDragging,omitempty"`
	ScrollToColumn json.RawMessage `json:"scrollToColumn,omitempty"`
}

// ColumnByID returns the column with the given id, or nil.
func (b *Board) ColumnByID(id string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i]
		}
	}
	return nil
}

// CardByID returns the card with the given id, or nil.
func (b *Board) CardByID(id string) *Card {
	for _, c := range b.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CardsInColumn returns the column's cards ordered by position.
func (b *Board) CardsInColumn(columnID string) []*Card {
	var out []*Card
	for _, c := range b.Cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := *b
	out.Columns = make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		out.Columns[i] = col
		if col.Position != nil {
			p := *col.Position
			out.Columns[i].Position = &p
		}
	}
	out.Cards = make([]*Card, len(b.Cards))
	for i, c := range b.Cards {
		out.Cards[i] = c.Clone()
	}
	out.NextSteps = append([]string(nil), b.NextSteps...)
	out.IsDragging = append(json.RawMessage(nil), b.IsDragging...)
	out.ScrollToColumn = append(json.RawMessage(nil), b.ScrollToColumn...)
	return &out
}

// Normalize repairs representation-level slack after a load: nil
// collections become empty (the document format never emits null for
// them) and columns carrying explicit position fields are reordered by
// them. It does not touch card positions; those are re-derived by
// mutations.
func (b *Board) Normalize() {
	if b.Columns == nil {
		b.Columns = []Column{}
	}
	if b.Cards == nil {
		b.Cards = []*Card{}
	}
	sort.SliceStable(b.Columns, func(i, j int) bool {
		pi, pj := b.Columns[i].Position, b.Columns[j].Position
		if pi == nil || pj == nil {
			return false
		}
		return *pi < *pj
	})
	for _, c := range b.Cards {
		if c.Subtasks == nil {
			c.Subtasks = []string{}
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		if c.Dependencies == nil {
			c.Dependencies = []string{}
		}
	}
}
