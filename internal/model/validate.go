package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError holds an ordered list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of
// field messages.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the violations as ordered "field: message" strings.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe.Field + ": " + fe.Message
	}
	return out
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateCard checks a single card for structural violations. It is a
// pure function over the card alone: cross-entity checks (column
// existence, dependency existence) belong to the mutation engine,
// which can see the rest of the board.
// Returns a *ValidationError listing every violation, or nil.
func ValidateCard(c *Card) error {
	var ve ValidationError

	if strings.TrimSpace(c.ID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "id", Message: "is required"})
	}
	if strings.TrimSpace(c.Title) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(c.ColumnID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "columnId", Message: "is required"})
	}
	if c.Position < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "position",
			Message: fmt.Sprintf("must be zero or positive, got %d", c.Position),
		})
	}
	if c.Priority != "" && !c.Priority.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("invalid value %q", c.Priority),
		})
	}
	if c.CreatedAt.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "created_at", Message: "is required"})
	}
	if c.UpdatedAt.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "updated_at", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateBoard checks a whole board document: column uniqueness, card
// uniqueness, per-card structure, and the referential and dense-position
// invariants. Used when a caller replaces a document wholesale.
// Returns a *ValidationError listing every violation, or nil.
func ValidateBoard(b *Board) error {
	var ve ValidationError

	if strings.TrimSpace(b.ID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "id", Message: "is required"})
	}
	if strings.TrimSpace(b.ProjectName) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "projectName", Message: "is required"})
	}

	colIDs := make(map[string]struct{}, len(b.Columns))
	for i, col := range b.Columns {
		if strings.TrimSpace(col.ID) == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("columns[%d].id", i),
				Message: "is required",
			})
			continue
		}
		if _, dup := colIDs[col.ID]; dup {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("columns[%d].id", i),
				Message: fmt.Sprintf("duplicate column id %q", col.ID),
			})
		}
		colIDs[col.ID] = struct{}{}
	}

	cardIDs := make(map[string]struct{}, len(b.Cards))
	positions := make(map[string][]int)
	for i, c := range b.Cards {
		if err := ValidateCard(c); err != nil {
			var cve *ValidationError
			if errors.As(err, &cve) {
				for _, fe := range cve.Errors {
					ve.Errors = append(ve.Errors, FieldError{
						Field:   fmt.Sprintf("cards[%d].%s", i, fe.Field),
						Message: fe.Message,
					})
				}
			}
		}
		if _, dup := cardIDs[c.ID]; dup {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("cards[%d].id", i),
				Message: fmt.Sprintf("duplicate card id %q", c.ID),
			})
		}
		cardIDs[c.ID] = struct{}{}
		if _, ok := colIDs[c.ColumnID]; !ok && c.ColumnID != "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("cards[%d].columnId", i),
				Message: fmt.Sprintf("references unknown column %q", c.ColumnID),
			})
		}
		positions[c.ColumnID] = append(positions[c.ColumnID], c.Position)
	}

	// Positions within each column must be exactly 0..n-1.
	for colID, ps := range positions {
		seen := make(map[int]struct{}, len(ps))
		dense := true
		for _, p := range ps {
			if p < 0 || p >= len(ps) {
				dense = false
				break
			}
			if _, dup := seen[p]; dup {
				dense = false
				break
			}
			seen[p] = struct{}{}
		}
		if !dense {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "cards",
				Message: fmt.Sprintf("positions in column %q are not dense", colID),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
