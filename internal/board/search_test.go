package board

import (
	"errors"
	"testing"
	"time"

	"github.com/alfredjeanlab/tacks/internal/model"
)

// searchBoard builds a board with a spread of priorities, tags and due
// dates across two columns.
func searchBoard() *model.Board {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	due := func(day int) *time.Time {
		t := time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC)
		return &t
	}
	mk := func(id, title, content, col string, pos int, prio model.Priority, tags []string, d *time.Time) *model.Card {
		return &model.Card{
			ID: id, Title: title, Content: content, ColumnID: col, Position: pos,
			Priority: prio, Tags: tags, Subtasks: []string{}, Dependencies: []string{},
			DueDate: d, CreatedAt: created, UpdatedAt: created,
		}
	}
	return &model.Board{
		ProjectName: "Search",
		ID:          "brd-search",
		Columns: []model.Column{
			{ID: "todo", Name: "To Do"},
			{ID: "done", Name: "Done"},
		},
		Cards: []*model.Card{
			mk("tk-1", "Fix login bug", "auth token expiry", "todo", 0, model.PriorityHigh, []string{"bug", "auth"}, due(3)),
			mk("tk-2", "Write docs", "user guide", "todo", 1, model.PriorityLow, []string{"docs"}, due(20)),
			mk("tk-3", "Refactor auth", "", "todo", 2, "", []string{"auth"}, nil),
			mk("tk-4", "Release v1", "login page shipped", "done", 0, model.PriorityMedium, []string{"bug"}, due(10)),
		},
		LastUpdated: created,
	}
}

func ids(cards []*model.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestSearch_EmptyFilterReturnsBoardOrder(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{}))
	want := []string{"tk-1", "tk-2", "tk-3", "tk-4"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want column order then position %v", got, want)
		}
	}
}

func TestSearch_FreeTextOverTitleAndContent(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{Search: "LOGIN"}))
	// Matches tk-1 (title) and tk-4 (content), case-insensitively.
	if len(got) != 2 || got[0] != "tk-1" || got[1] != "tk-4" {
		t.Errorf("got %v, want [tk-1 tk-4]", got)
	}
}

func TestSearch_PriorityAnyOf(t *testing.T) {
	f := model.CardFilter{Priority: []model.Priority{model.PriorityHigh, model.PriorityMedium}}
	got := ids(Search(searchBoard(), f))
	if len(got) != 2 || got[0] != "tk-1" || got[1] != "tk-4" {
		t.Errorf("got %v, want [tk-1 tk-4]", got)
	}
}

func TestSearch_TagsRequireAll(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{Tags: []string{"bug", "auth"}}))
	if len(got) != 1 || got[0] != "tk-1" {
		t.Errorf("got %v, want only the card carrying both tags", got)
	}
}

func TestSearch_DueDateRange(t *testing.T) {
	before := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	after := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	got := ids(Search(searchBoard(), model.CardFilter{DueBefore: &before, DueAfter: &after}))
	// Only tk-4 (due July 10) falls in the window; undated cards never match.
	if len(got) != 1 || got[0] != "tk-4" {
		t.Errorf("got %v, want [tk-4]", got)
	}
}

func TestSearch_ColumnFilter(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{ColumnID: "todo"}))
	if len(got) != 3 {
		t.Errorf("got %v, want the three todo cards", got)
	}
}

func TestSearch_CompletedFilter(t *testing.T) {
	b := searchBoard()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b.CardByID("tk-4").CompletedAt = &now
	yes := true
	got := ids(Search(b, model.CardFilter{Completed: &yes}))
	if len(got) != 1 || got[0] != "tk-4" {
		t.Errorf("got %v, want [tk-4]", got)
	}
}

func TestSearch_PaginationAfterOrdering(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{Offset: 1, Limit: 2}))
	if len(got) != 2 || got[0] != "tk-2" || got[1] != "tk-3" {
		t.Errorf("got %v, want [tk-2 tk-3]", got)
	}
}

func TestSearch_OffsetPastEnd(t *testing.T) {
	got := Search(searchBoard(), model.CardFilter{Offset: 99})
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSearch_SortPriorityDescending(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{Sort: "-priority"}))
	want := []string{"tk-1", "tk-4", "tk-2", "tk-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSearch_SortDueDatePutsUndatedLast(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{Sort: "dueDate"}))
	if got[len(got)-1] != "tk-3" {
		t.Errorf("order = %v, want undated card last", got)
	}
	if got[0] != "tk-1" {
		t.Errorf("order = %v, want earliest due first", got)
	}

	got = ids(Search(searchBoard(), model.CardFilter{Sort: "-dueDate"}))
	if got[len(got)-1] != "tk-3" {
		t.Errorf("order = %v, want undated card last even descending", got)
	}
	if got[0] != "tk-2" {
		t.Errorf("order = %v, want latest due first", got)
	}
}

func TestSearch_UnknownSortKeyKeepsBoardOrder(t *testing.T) {
	got := ids(Search(searchBoard(), model.CardFilter{Sort: "flavor"}))
	if got[0] != "tk-1" || got[3] != "tk-4" {
		t.Errorf("order = %v, want board order", got)
	}
}

func TestListColumn_OrderedByPosition(t *testing.T) {
	cards, err := ListColumn(searchBoard(), "todo")
	if err != nil {
		t.Fatalf("ListColumn: %v", err)
	}
	if len(cards) != 3 || cards[0].ID != "tk-1" || cards[2].ID != "tk-3" {
		t.Errorf("got %v", ids(cards))
	}
}

func TestListColumn_UnknownColumn(t *testing.T) {
	_, err := ListColumn(searchBoard(), "nope")
	var re *RefError
	if !errors.As(err, &re) || re.Kind != "column" {
		t.Errorf("expected column RefError, got %v", err)
	}
}
