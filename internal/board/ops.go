package board

import (
	"time"

	"github.com/alfredjeanlab/tacks/internal/model"
)

// OpKind names a mutation operation.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpMove   OpKind = "move"
	OpDelete OpKind = "delete"
)

// CardData is the caller-supplied payload of a create operation. There
// are deliberately no id or timestamp fields: those are regenerated
// server-side, so anything a caller sends for them is dropped during
// decoding.
type CardData struct {
	Kind         model.CardKind `json:"kind,omitempty"`
	Title        string         `json:"title,omitempty"`
	Content      string         `json:"content,omitempty"`
	Subtasks     []string       `json:"subtasks,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Priority     model.Priority `json:"priority,omitempty"`
	DueDate      *time.Time     `json:"dueDate,omitempty"`
}

// Operation is a single mutation descriptor, the unit of a batch. Op
// selects the variant; the remaining fields are read per variant:
//
//	create: columnId (optional), position (optional), card (optional)
//	update: cardId, patch
//	move:   cardId, columnId, position
//	delete: cardId
type Operation struct {
	Op       OpKind           `json:"op"`
	CardID   string           `json:"cardId,omitempty"`
	ColumnID string           `json:"columnId,omitempty"`
	Position *Position        `json:"position,omitempty"`
	Card     *CardData        `json:"card,omitempty"`
	Patch    *model.CardPatch `json:"patch,omitempty"`
}
