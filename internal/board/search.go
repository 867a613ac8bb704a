package board

import (
	"sort"
	"strings"

	"github.com/alfredjeanlab/tacks/internal/model"
)

// Search returns the cards matching the filter. Results come back in
// board order (columns as laid out, cards by position) unless the
// filter names an explicit sort key; offset and limit are applied
// after ordering. Search never mutates the board; the returned slice
// shares card pointers with it.
func Search(b *model.Board, f model.CardFilter) []*model.Card {
	var ordered []*model.Card
	if f.ColumnID != "" {
		ordered = b.CardsInColumn(f.ColumnID)
	} else {
		for _, col := range b.Columns {
			ordered = append(ordered, b.CardsInColumn(col.ID)...)
		}
	}

	out := make([]*model.Card, 0, len(ordered))
	for _, c := range ordered {
		if matches(c, f) {
			out = append(out, c)
		}
	}
	if f.Sort != "" {
		sortCards(out, f.Sort)
	}
	return paginate(out, f.Offset, f.Limit)
}

// ListColumn returns one column's cards in position order. Unlike a
// filtered search, asking for a column that does not exist is an error.
func ListColumn(b *model.Board, columnID string) ([]*model.Card, error) {
	if b.ColumnByID(columnID) == nil {
		return nil, refColumn(columnID)
	}
	return b.CardsInColumn(columnID), nil
}

func matches(c *model.Card, f model.CardFilter) bool {
	if len(f.Priority) > 0 {
		found := false
		for _, p := range f.Priority {
			if c.Priority == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !hasString(c.Tags, tag) {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Content), q) {
			return false
		}
	}
	if f.DueBefore != nil && (c.DueDate == nil || !c.DueDate.Before(*f.DueBefore)) {
		return false
	}
	if f.DueAfter != nil && (c.DueDate == nil || !c.DueDate.After(*f.DueAfter)) {
		return false
	}
	if f.Completed != nil && (c.CompletedAt != nil) != *f.Completed {
		return false
	}
	if f.Blocked != nil && (c.BlockedAt != nil) != *f.Blocked {
		return false
	}
	return true
}

// sortCards orders cards by the given key, descending when the key has
// a "-" prefix. Unknown keys leave the board order untouched.
func sortCards(cards []*model.Card, key string) {
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	if key == "dueDate" {
		// Cards without a due date sort last in either direction, so
		// the nil check sits outside the direction flip.
		sort.SliceStable(cards, func(i, j int) bool {
			a, b := cards[i].DueDate, cards[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			case desc:
				return b.Before(*a)
			}
			return a.Before(*b)
		})
		return
	}

	var less func(a, b *model.Card) bool
	switch key {
	case "title":
		less = func(a, b *model.Card) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "created_at":
		less = func(a, b *model.Card) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b *model.Card) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "priority":
		less = func(a, b *model.Card) bool { return a.Priority.Rank() < b.Priority.Rank() }
	default:
		return
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if desc {
			return less(cards[j], cards[i])
		}
		return less(cards[i], cards[j])
	})
}

func paginate(cards []*model.Card, offset, limit int) []*model.Card {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(cards) {
		return []*model.Card{}
	}
	cards = cards[offset:]
	if limit > 0 && limit < len(cards) {
		cards = cards[:limit]
	}
	return cards
}

func hasString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
