package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// CardPatch is a partial update: a mapping from field name to new
// value, applied field-by-field against an existing card. Only the
// allow-listed mutable fields may appear; id and created_at are
// immutable, and columnId/position change only through a move.
//
// Pointer fields follow the usual convention: nil means "leave alone".
// For fields where null is itself a meaningful value (clear the
// priority, clear the due date, empty a collection) the Set flags
// record that the key was present at all.
type CardPatch struct {
	Title     *string
	Content   *string
	Collapsed *bool

	Subtasks     []string
	Tags         []string
	Dependencies []string
	Priority     Priority
	DueDate      *time.Time

	SubtasksSet     bool
	TagsSet         bool
	DependenciesSet bool
	PrioritySet     bool
	DueDateSet      bool
}

// patchFields is the allow-list of mutable card fields.
var patchFields = map[string]struct{}{
	"title":        {},
	"content":      {},
	"collapsed":    {},
	"subtasks":     {},
	"tags":         {},
	"dependencies": {},
	"priority":     {},
	"dueDate":      {},
}

// immutablePatchFields maps known-but-immutable keys to the reason a
// patch naming them is rejected.
var immutablePatchFields = map[string]string{
	"id":           "is immutable",
	"created_at":   "is immutable",
	"updated_at":   "is set by the engine",
	"completed_at": "is set by the engine",
	"blocked_at":   "is set by the engine",
	"columnId":     "cannot be changed by update; use move",
	"position":     "cannot be changed by update; use move",
}

// UnmarshalJSON decodes the patch from its wire form, a JSON object
// keyed by field name. Keys outside the allow-list fail with a
// *ValidationError so a bad patch is rejected before any field is
// applied.
func (p *CardPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var ve ValidationError
	for key := range raw {
		if _, ok := patchFields[key]; ok {
			continue
		}
		if reason, ok := immutablePatchFields[key]; ok {
			ve.Errors = append(ve.Errors, FieldError{Field: key, Message: reason})
		} else {
			ve.Errors = append(ve.Errors, FieldError{Field: key, Message: "unknown field"})
		}
	}
	if ve.HasErrors() {
		return &ve
	}

	decode := func(key string, dst any) {
		msg, ok := raw[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: key, Message: "invalid value"})
		}
	}

	decode("title", &p.Title)
	decode("content", &p.Content)
	decode("collapsed", &p.Collapsed)
	if msg, ok := raw["subtasks"]; ok {
		p.SubtasksSet = true
		if err := json.Unmarshal(msg, &p.Subtasks); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: "subtasks", Message: "invalid value"})
		}
	}
	if msg, ok := raw["tags"]; ok {
		p.TagsSet = true
		if err := json.Unmarshal(msg, &p.Tags); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: "tags", Message: "invalid value"})
		}
	}
	if msg, ok := raw["dependencies"]; ok {
		p.DependenciesSet = true
		if err := json.Unmarshal(msg, &p.Dependencies); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: "dependencies", Message: "invalid value"})
		}
	}
	if msg, ok := raw["priority"]; ok {
		p.PrioritySet = true
		if string(msg) != "null" {
			if err := json.Unmarshal(msg, &p.Priority); err != nil {
				ve.Errors = append(ve.Errors, FieldError{Field: "priority", Message: "invalid value"})
			}
		}
	}
	if msg, ok := raw["dueDate"]; ok {
		p.DueDateSet = true
		if string(msg) != "null" {
			if err := json.Unmarshal(msg, &p.DueDate); err != nil {
				ve.Errors = append(ve.Errors, FieldError{Field: "dueDate", Message: "invalid value"})
			}
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// MarshalJSON encodes the patch back to its wire form. Set flags with
// empty values emit explicit nulls so "clear this field" survives a
// round-trip.
func (p CardPatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Content != nil {
		out["content"] = *p.Content
	}
	if p.Collapsed != nil {
		out["collapsed"] = *p.Collapsed
	}
	if p.SubtasksSet {
		out["subtasks"] = p.Subtasks
	}
	if p.TagsSet {
		out["tags"] = p.Tags
	}
	if p.DependenciesSet {
		out["dependencies"] = p.Dependencies
	}
	if p.PrioritySet {
		if p.Priority == "" {
			out["priority"] = nil
		} else {
			out["priority"] = p.Priority
		}
	}
	if p.DueDateSet {
		if p.DueDate == nil {
			out["dueDate"] = nil
		} else {
			out["dueDate"] = p.DueDate
		}
	}
	return json.Marshal(out)
}

// Validate checks the patch's values without applying them.
func (p *CardPatch) Validate() error {
	var ve ValidationError
	if p.Title != nil && *p.Title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "cannot be empty"})
	}
	if p.PrioritySet && p.Priority != "" && !p.Priority.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("invalid value %q", p.Priority),
		})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// IsZero reports whether the patch changes nothing.
func (p *CardPatch) IsZero() bool {
	return p.Title == nil && p.Content == nil && p.Collapsed == nil &&
		!p.SubtasksSet && !p.TagsSet && !p.DependenciesSet &&
		!p.PrioritySet && !p.DueDateSet
}

// Changes reads the patched fields back out of c as a sparse map keyed
// by wire name. After Apply(c) it returns the same map Apply did; it
// never writes to the card.
func (p *CardPatch) Changes(c *Card) map[string]any {
	changes := make(map[string]any)
	if p.Title != nil {
		changes["title"] = c.Title
	}
	if p.Content != nil {
		changes["content"] = c.Content
	}
	if p.Collapsed != nil {
		changes["collapsed"] = c.Collapsed
	}
	if p.SubtasksSet {
		changes["subtasks"] = c.Subtasks
	}
	if p.TagsSet {
		changes["tags"] = c.Tags
	}
	if p.DependenciesSet {
		changes["dependencies"] = c.Dependencies
	}
	if p.PrioritySet {
		changes["priority"] = c.Priority
	}
	if p.DueDateSet {
		changes["dueDate"] = c.DueDate
	}
	return changes
}

// Apply merges the patch into the card and returns a sparse map of the
// fields that changed, keyed by wire name, holding the new values. The
// caller refreshes updated_at.
func (p *CardPatch) Apply(c *Card) map[string]any {
	changes := make(map[string]any)
	if p.Title != nil {
		c.Title = *p.Title
		changes["title"] = c.Title
	}
	if p.Content != nil {
		c.Content = *p.Content
		changes["content"] = c.Content
	}
	if p.Collapsed != nil {
		c.Collapsed = *p.Collapsed
		changes["collapsed"] = c.Collapsed
	}
	if p.SubtasksSet {
		c.Subtasks = append([]string{}, p.Subtasks...)
		changes["subtasks"] = c.Subtasks
	}
	if p.TagsSet {
		c.Tags = dedupe(p.Tags)
		changes["tags"] = c.Tags
	}
	if p.DependenciesSet {
		c.Dependencies = dedupe(p.Dependencies)
		changes["dependencies"] = c.Dependencies
	}
	if p.PrioritySet {
		c.Priority = p.Priority
		changes["priority"] = c.Priority
	}
	if p.DueDateSet {
		c.DueDate = cloneTime(p.DueDate)
		changes["dueDate"] = c.DueDate
	}
	return changes
}
