package model

import (
	"fmt"
	"time"

	"github.com/alfredjeanlab/tacks/internal/idgen"
)

// CardKind selects the factory variant used to mint a card.
type CardKind string

const (
	KindBasic   CardKind = "basic"
	KindTask    CardKind = "task"
	KindFeature CardKind = "feature"
)

// IsValid checks whether the kind is a known value.
func (k CardKind) IsValid() bool {
	switch k {
	case KindBasic, KindTask, KindFeature:
		return true
	}
	return false
}

// CardFields carries fully-resolved inputs for minting a card. Callers
// resolve defaults (target column, placeholder title, append position)
// before invoking the factory; the factory never consults the board.
type CardFields struct {
	Title        string
	ColumnID     string
	Position     int
	Content      string
	Subtasks     []string
	Tags         []string
	Dependencies []string
	Priority     Priority
	DueDate      *time.Time
}

// NewCard mints a fully-populated card of the given kind. The id and
// both timestamps are always generated here; callers cannot supply
// them. Kind gates which optional fields are honored: basic carries
// none, task adds subtasks and priority, feature adds subtasks, tags
// and dependencies. An empty kind means basic.
func NewCard(kind CardKind, f CardFields, now time.Time) (*Card, error) {
	if kind == "" {
		kind = KindBasic
	}
	if !kind.IsValid() {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "kind", Message: fmt.Sprintf("unknown card kind %q", kind)},
		}}
	}

	now = now.UTC()
	id, err := idgen.NewCardID()
	if err != nil {
		return nil, fmt.Errorf("generating card id: %w", err)
	}

	c := &Card{
		ID:           id,
		Title:        f.Title,
		Content:      f.Content,
		ColumnID:     f.ColumnID,
		Position:     f.Position,
		Subtasks:     []string{},
		Tags:         []string{},
		Dependencies: []string{},
		DueDate:      cloneTime(f.DueDate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch kind {
	case KindTask:
		c.Subtasks = append(c.Subtasks, f.Subtasks...)
		c.Priority = f.Priority
	case KindFeature:
		c.Subtasks = append(c.Subtasks, f.Subtasks...)
		c.Tags = dedupe(f.Tags)
		c.Dependencies = dedupe(f.Dependencies)
	}

	return c, nil
}
