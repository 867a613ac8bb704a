package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/tacks/internal/model"
)

func exportBoard(id, project string, updated time.Time, cards ...*model.Card) *model.Board {
	return &model.Board{
		ProjectName: project,
		ID:          id,
		Columns: []model.Column{
			{ID: "todo", Name: "To Do"},
			{ID: "done", Name: "Done"},
		},
		Cards:       cards,
		LastUpdated: updated,
	}
}

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.BoardCount != 0 || h.CardCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_SortsByBoardID(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Store out of ID order; zzz was updated most recently so the
	// store's own listing order (recency) differs from export order.
	ms.boards["brd-zzz"] = exportBoard("brd-zzz", "Second", now,
		&model.Card{ID: "tk-1", Title: "One", ColumnID: "todo", CreatedAt: now, UpdatedAt: now},
		&model.Card{ID: "tk-2", Title: "Two", ColumnID: "todo", Position: 1, CreatedAt: now, UpdatedAt: now},
	)
	ms.boards["brd-aaa"] = exportBoard("brd-aaa", "First", now.Add(-time.Hour),
		&model.Card{ID: "tk-3", Title: "Three", ColumnID: "done", CreatedAt: now, UpdatedAt: now},
	)

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 boards = 3 lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.BoardCount != 2 || h.CardCount != 3 {
		t.Fatalf("header counts: boards=%d cards=%d", h.BoardCount, h.CardCount)
	}

	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "board" || rec2.Type != "board" {
		t.Fatalf("expected board types, got %q and %q", rec1.Type, rec2.Type)
	}

	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var b1, b2 model.Board
	if err := json.Unmarshal(data1, &b1); err != nil {
		t.Fatalf("unmarshal b1: %v", err)
	}
	if err := json.Unmarshal(data2, &b2); err != nil {
		t.Fatalf("unmarshal b2: %v", err)
	}

	if b1.ID != "brd-aaa" || b2.ID != "brd-zzz" {
		t.Fatalf("boards not sorted: got %q, %q", b1.ID, b2.ID)
	}
	if b1.ProjectName != "First" {
		t.Fatalf("expected project name to round-trip, got %q", b1.ProjectName)
	}
	if len(b2.Cards) != 2 {
		t.Fatalf("expected 2 cards embedded in brd-zzz, got %d", len(b2.Cards))
	}
}

func TestExportJSONL_PreservesCardFields(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC().Truncate(time.Second)
	due := now.Add(48 * time.Hour)

	ms.boards["brd-one"] = exportBoard("brd-one", "Tasks", now, &model.Card{
		ID:           "tk-full",
		Title:        "Ship it",
		Content:      "With <notes> & details",
		ColumnID:     "todo",
		Subtasks:     []string{"✓ design", "build"},
		Tags:         []string{"release"},
		Dependencies: []string{"tk-other"},
		Priority:     model.PriorityHigh,
		DueDate:      &due,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	// HTML escaping is off; raw angle brackets survive.
	if !strings.Contains(lines[1], "With <notes> & details") {
		t.Fatalf("expected unescaped content, got %s", lines[1])
	}

	var rec record
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	data, _ := json.Marshal(rec.Data)
	var b model.Board
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("unmarshal board: %v", err)
	}

	c := b.CardByID("tk-full")
	if c == nil {
		t.Fatal("expected card tk-full in export")
	}
	if c.Priority != model.PriorityHigh {
		t.Fatalf("priority: got %q", c.Priority)
	}
	if len(c.Subtasks) != 2 || c.Subtasks[0] != "✓ design" {
		t.Fatalf("subtasks: got %v", c.Subtasks)
	}
	if c.DueDate == nil || !c.DueDate.Equal(due) {
		t.Fatalf("due date: got %v", c.DueDate)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
