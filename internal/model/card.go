package model

import (
	"strings"
	"time"
)

// Priority ranks how urgent a card is. Cards may carry no priority at
// all; the empty value means "absent" and is valid.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid checks whether the priority is a known value. The empty
// string is not valid here; callers treat absence separately.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank maps the priority to a sortable weight; higher is more urgent.
// Absent priority ranks below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// SubtaskDonePrefix marks a subtask entry as completed. Subtasks are
// plain strings; the prefix convention comes from the board document
// format and must survive round-trips untouched.
const SubtaskDonePrefix = "✓ "

// SubtaskDone reports whether a subtask entry carries the completion prefix.
func SubtaskDone(s string) bool {
	return strings.HasPrefix(s, SubtaskDonePrefix)
}

// CompleteSubtask marks a subtask entry as done. Idempotent.
func CompleteSubtask(s string) string {
	if SubtaskDone(s) {
		return s
	}
	return SubtaskDonePrefix + s
}

// ReopenSubtask strips the completion prefix from a subtask entry. Idempotent.
func ReopenSubtask(s string) string {
	return strings.TrimPrefix(s, SubtaskDonePrefix)
}

// Card is a single kanban card. The JSON field names mirror the board
// document format, which mixes naming styles; they must not change.
type Card struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content,omitempty"`
	ColumnID     string     `json:"columnId"`
	Position     int        `json:"position"`
	Collapsed    bool       `json:"collapsed"`
	Subtasks     []string   `json:"subtasks"`
	Tags         []string   `json:"tags"`
	Dependencies []string   `json:"dependencies"`
	Priority     Priority   `json:"priority,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	BlockedAt    *time.Time `json:"blocked_at,omitempty"`
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	out := *c
	out.Subtasks = append([]string(nil), c.Subtasks...)
	out.Tags = append([]string(nil), c.Tags...)
	out.Dependencies = append([]string(nil), c.Dependencies...)
	out.DueDate = cloneTime(c.DueDate)
	out.CompletedAt = cloneTime(c.CompletedAt)
	out.BlockedAt = cloneTime(c.BlockedAt)
	return &out
}

// DependsOn reports whether the card lists the given id as a dependency.
func (c *Card) DependsOn(id string) bool {
	for _, d := range c.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

// dedupe removes repeated entries while preserving first-seen order.
// Tags and dependencies are sets on the wire.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
