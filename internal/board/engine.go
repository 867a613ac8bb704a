// Package board implements the mutation engine. Every structural
// change to a board document flows through it, so the dense-position,
// referential-integrity and timestamp invariants hold after each
// operation. Operations never mutate their input: they work on a deep
// copy and return the new board, which keeps batches atomic by
// construction.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/alfredjeanlab/tacks/internal/model"
)

// PlaceholderTitle is assigned when a create operation supplies no title.
const PlaceholderTitle = "Untitled card"

// Create adds a card to the board. columnID defaults to the board's
// first column, pos to the end of that column, and data to an empty
// basic card with a placeholder title. Ids and timestamps are always
// generated here regardless of input.
func Create(b *model.Board, columnID string, pos *Position, data *CardData) (*model.Board, *model.Card, error) {
	nb := b.Clone()
	card, err := applyCreate(nb, columnID, pos, data)
	if err != nil {
		return nil, nil, err
	}
	return nb, card, nil
}

// Update merges a patch into an existing card and refreshes its
// updated_at. The returned map holds the changed fields by wire name.
// Column and position are not updatable here; that is Move's job.
func Update(b *model.Board, cardID string, patch model.CardPatch) (*model.Board, *model.Card, map[string]any, error) {
	nb := b.Clone()
	card, changes, err := applyUpdate(nb, cardID, patch)
	if err != nil {
		return nil, nil, nil, err
	}
	return nb, card, changes, nil
}

// Move relocates a card to a slot in a target column, closing its old
// slot and re-deriving dense positions in both affected columns. The
// done/blocked timestamp rule fires on column transitions.
func Move(b *model.Board, cardID, columnID string, pos Position) (*model.Board, *model.Card, error) {
	nb := b.Clone()
	card, err := applyMove(nb, cardID, columnID, pos)
	if err != nil {
		return nil, nil, err
	}
	return nb, card, nil
}

// Delete removes a card, re-derives its former column's positions and
// strips the id from every other card's dependencies.
func Delete(b *model.Board, cardID string) (*model.Board, error) {
	nb := b.Clone()
	if err := applyDelete(nb, cardID); err != nil {
		return nil, err
	}
	return nb, nil
}

// Apply runs a single operation descriptor against the board.
func Apply(b *model.Board, op Operation) (*model.Board, *model.Card, error) {
	nb := b.Clone()
	card, err := apply(nb, op)
	if err != nil {
		return nil, nil, err
	}
	return nb, card, nil
}

// ApplyBatch runs the operations strictly in order against a single
// evolving copy of the board, so each operation sees the effects of
// the ones before it. The first failure aborts the whole batch; the
// caller's board is never touched. On success the affected cards come
// back in operation order, with nil entries for deletes.
func ApplyBatch(b *model.Board, ops []Operation) (*model.Board, []*model.Card, error) {
	nb := b.Clone()
	affected := make([]*model.Card, 0, len(ops))
	for i, op := range ops {
		card, err := apply(nb, op)
		if err != nil {
			return nil, nil, fmt.Errorf("op %d: %w", i, err)
		}
		affected = append(affected, card)
	}
	return nb, affected, nil
}

func apply(b *model.Board, op Operation) (*model.Card, error) {
	switch op.Op {
	case OpCreate:
		return applyCreate(b, op.ColumnID, op.Position, op.Card)
	case OpUpdate:
		if op.CardID == "" {
			return nil, requiredField("cardId")
		}
		var patch model.CardPatch
		if op.Patch != nil {
			patch = *op.Patch
		}
		card, _, err := applyUpdate(b, op.CardID, patch)
		return card, err
	case OpMove:
		if op.CardID == "" {
			return nil, requiredField("cardId")
		}
		if op.ColumnID == "" {
			return nil, requiredField("columnId")
		}
		if op.Position == nil {
			return nil, requiredField("position")
		}
		return applyMove(b, op.CardID, op.ColumnID, *op.Position)
	case OpDelete:
		if op.CardID == "" {
			return nil, requiredField("cardId")
		}
		return nil, applyDelete(b, op.CardID)
	}
	return nil, &model.ValidationError{Errors: []model.FieldError{
		{Field: "op", Message: fmt.Sprintf("unknown operation %q", op.Op)},
	}}
}

func applyCreate(b *model.Board, columnID string, pos *Position, data *CardData) (*model.Card, error) {
	if data == nil {
		data = &CardData{}
	}

	// Resolve defaults into a fully-specified descriptor before the
	// factory runs: target column, placeholder title, append position.
	if columnID == "" {
		if len(b.Columns) == 0 {
			return nil, &model.ValidationError{Errors: []model.FieldError{
				{Field: "columnId", Message: "board has no columns"},
			}}
		}
		columnID = b.Columns[0].ID
	}
	col := b.ColumnByID(columnID)
	if col == nil {
		return nil, refColumn(columnID)
	}

	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = PlaceholderTitle
	}

	n := len(b.CardsInColumn(columnID))
	idx := n
	if pos != nil {
		idx = pos.Resolve(n)
	}

	now := timeNow().UTC()
	card, err := model.NewCard(data.Kind, model.CardFields{
		Title:        title,
		ColumnID:     columnID,
		Position:     idx,
		Content:      data.Content,
		Subtasks:     data.Subtasks,
		Tags:         data.Tags,
		Dependencies: data.Dependencies,
		Priority:     data.Priority,
		DueDate:      data.DueDate,
	}, now)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateCard(card); err != nil {
		return nil, err
	}

	openSlot(b, columnID, idx)
	b.Cards = append(b.Cards, card)
	normalizeColumn(b, columnID)
	transition(card, nil, col, now)
	b.LastUpdated = now
	return card, nil
}

func applyUpdate(b *model.Board, cardID string, patch model.CardPatch) (*model.Card, map[string]any, error) {
	card := b.CardByID(cardID)
	if card == nil {
		return nil, nil, refCard(cardID)
	}
	if err := patch.Validate(); err != nil {
		return nil, nil, err
	}
	changes := patch.Apply(card)
	now := timeNow().UTC()
	card.UpdatedAt = now
	b.LastUpdated = now
	return card, changes, nil
}

func applyMove(b *model.Board, cardID, columnID string, pos Position) (*model.Card, error) {
	card := b.CardByID(cardID)
	if card == nil {
		return nil, refCard(cardID)
	}
	to := b.ColumnByID(columnID)
	if to == nil {
		return nil, refColumn(columnID)
	}
	from := b.ColumnByID(card.ColumnID)
	oldColumnID := card.ColumnID

	// Close the old slot first, so a same-column move resolves its
	// index against the column as it looks without the moving card.
	card.ColumnID = ""
	normalizeColumn(b, oldColumnID)

	idx := pos.Resolve(len(b.CardsInColumn(columnID)))
	openSlot(b, columnID, idx)
	card.ColumnID = columnID
	card.Position = idx
	normalizeColumn(b, columnID)

	now := timeNow().UTC()
	transition(card, from, to, now)
	card.UpdatedAt = now
	b.LastUpdated = now
	return card, nil
}

func applyDelete(b *model.Board, cardID string) error {
	card := b.CardByID(cardID)
	if card == nil {
		return refCard(cardID)
	}
	oldColumnID := card.ColumnID

	cards := make([]*model.Card, 0, len(b.Cards)-1)
	for _, c := range b.Cards {
		if c.ID != cardID {
			cards = append(cards, c)
		}
	}
	b.Cards = cards
	normalizeColumn(b, oldColumnID)

	// Dependencies are soft references: strip the deleted id rather
	// than leaving danglers or rejecting the delete.
	now := timeNow().UTC()
	for _, c := range b.Cards {
		if !c.DependsOn(cardID) {
			continue
		}
		deps := make([]string, 0, len(c.Dependencies)-1)
		for _, d := range c.Dependencies {
			if d != cardID {
				deps = append(deps, d)
			}
		}
		c.Dependencies = deps
		c.UpdatedAt = now
	}
	b.LastUpdated = now
	return nil
}

// normalizeColumn reassigns the column's card positions to exactly
// 0..n-1, walking the cards in their current relative order. Create,
// move and delete all funnel through here; it is the only place
// positions are rewritten in bulk.
func normalizeColumn(b *model.Board, columnID string) {
	for i, c := range b.CardsInColumn(columnID) {
		c.Position = i
	}
}

// openSlot shifts every card at or below idx down by one, making room
// for an insertion at idx.
func openSlot(b *model.Board, columnID string, idx int) {
	for _, c := range b.Cards {
		if c.ColumnID == columnID && c.Position >= idx {
			c.Position++
		}
	}
}

// transition applies the done/blocked timestamp rule: completed_at and
// blocked_at are set when a card enters the conventionally named lane
// and cleared when it leaves. from is nil when the card is new.
func transition(card *model.Card, from, to *model.Column, now time.Time) {
	fromDone := from != nil && from.IsDone()
	fromBlocked := from != nil && from.IsBlocked()

	switch {
	case to.IsDone() && !fromDone:
		t := now
		card.CompletedAt = &t
	case !to.IsDone() && fromDone:
		card.CompletedAt = nil
	}
	switch {
	case to.IsBlocked() && !fromBlocked:
		t := now
		card.BlockedAt = &t
	case !to.IsBlocked() && fromBlocked:
		card.BlockedAt = nil
	}
}

func requiredField(name string) error {
	return &model.ValidationError{Errors: []model.FieldError{
		{Field: name, Message: "is required"},
	}}
}
