package board

import "fmt"

// RefError reports an operation that references a card or column the
// board does not contain. It aborts the single operation, and the
// whole batch when raised inside one.
type RefError struct {
	Kind string // "card" or "column"
	ID   string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func refCard(id string) error   { return &RefError{Kind: "card", ID: id} }
func refColumn(id string) error { return &RefError{Kind: "column", ID: id} }
