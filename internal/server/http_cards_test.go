package server

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alfredjeanlab/tacks/internal/model"
)

func TestHandleCreateCard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards", map[string]any{
		"kind":     "task",
		"title":    "Review PR",
		"columnId": "doing",
		"subtasks": []string{"read diff", "✓ checkout branch"},
		"priority": "high",
	})
	requireStatus(t, rec, 201)

	var card model.Card
	decodeJSON(t, rec, &card)
	if !strings.HasPrefix(card.ID, "tk-") {
		t.Fatalf("expected tk- prefixed id, got %q", card.ID)
	}
	if card.Title != "Review PR" || card.ColumnID != "doing" {
		t.Fatalf("got title=%q column=%q", card.Title, card.ColumnID)
	}
	if card.Position != 1 {
		t.Fatalf("expected append to position 1, got %d", card.Position)
	}
	if card.Priority != model.PriorityHigh || len(card.Subtasks) != 2 {
		t.Fatalf("task fields lost: %+v", card)
	}

	stored := ms.boards["brd-test1"]
	if stored.CardByID(card.ID) == nil {
		t.Fatal("card not persisted")
	}
	if stored.LastUpdated.Equal(seedBoard().LastUpdated) {
		t.Fatal("expected last_updated to advance")
	}
}

func TestHandleCreateCard_Defaults(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards", map[string]any{})
	requireStatus(t, rec, 201)

	var card model.Card
	decodeJSON(t, rec, &card)
	if card.Title != "Untitled card" {
		t.Fatalf("expected placeholder title, got %q", card.Title)
	}
	if card.ColumnID != "todo" {
		t.Fatalf("expected first column, got %q", card.ColumnID)
	}
	if card.Position != 2 {
		t.Fatalf("expected append after existing cards, got %d", card.Position)
	}
}

func TestHandleCreateCard_UnknownColumn(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards", map[string]any{"columnId": "archive"})
	requireStatus(t, rec, 404)
}

func TestHandleCreateCard_InvalidKind(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards", map[string]any{"kind": "epic"})
	requireStatus(t, rec, 400)

	var body struct {
		Violations []string `json:"violations"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Violations) == 0 {
		t.Fatal("expected violations")
	}
}

func TestHandleGetCard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards/tk-a", nil)
	requireStatus(t, rec, 200)
	var card model.Card
	decodeJSON(t, rec, &card)
	if card.ID != "tk-a" || card.Title != "Write docs" {
		t.Fatalf("got %+v", card)
	}
}

func TestHandleGetCard_NotFound(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards/tk-zzz", nil)
	requireStatus(t, rec, 404)
}

func TestHandleUpdateCard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1/cards/tk-a", map[string]any{
		"title": "Write better docs",
		"tags":  []string{"docs", "docs", "writing"},
	})
	requireStatus(t, rec, 200)

	var card model.Card
	decodeJSON(t, rec, &card)
	if card.Title != "Write better docs" {
		t.Fatalf("title = %q", card.Title)
	}
	if len(card.Tags) != 2 {
		t.Fatalf("expected deduped tags, got %v", card.Tags)
	}
	if !card.UpdatedAt.After(card.CreatedAt) {
		t.Fatal("expected updated_at to advance")
	}

	stored := ms.boards["brd-test1"].CardByID("tk-a")
	if stored.Title != "Write better docs" {
		t.Fatal("update not persisted")
	}
}

func TestHandleUpdateCard_ClearsPriorityWithNull(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1/cards/tk-a", json.RawMessage(`{"priority": null}`))
	requireStatus(t, rec, 200)

	stored := ms.boards["brd-test1"].CardByID("tk-a")
	if stored.Priority != "" {
		t.Fatalf("expected priority cleared, got %q", stored.Priority)
	}
}

func TestHandleUpdateCard_ImmutableField(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1/cards/tk-a", map[string]any{"id": "tk-evil"})
	requireStatus(t, rec, 400)

	var body struct {
		Violations []string `json:"violations"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Violations) != 1 || body.Violations[0] != "id: is immutable" {
		t.Fatalf("violations = %v", body.Violations)
	}
	if ms.boards["brd-test1"].CardByID("tk-a").ID != "tk-a" {
		t.Fatal("card mutated despite rejection")
	}
}

func TestHandleUpdateCard_MovesRejected(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1/cards/tk-a", map[string]any{"columnId": "done"})
	requireStatus(t, rec, 400)

	var body struct {
		Violations []string `json:"violations"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Violations) != 1 || !strings.Contains(body.Violations[0], "use move") {
		t.Fatalf("violations = %v", body.Violations)
	}
}

func TestHandleUpdateCard_NotFound(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1/cards/tk-zzz", map[string]any{"title": "x"})
	requireStatus(t, rec, 404)
}

func TestHandleMoveCard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards/tk-a/move", map[string]any{
		"columnId": "done",
		"position": "first",
	})
	requireStatus(t, rec, 200)

	var card model.Card
	decodeJSON(t, rec, &card)
	if card.ColumnID != "done" || card.Position != 0 {
		t.Fatalf("got column=%q position=%d", card.ColumnID, card.Position)
	}
	if card.CompletedAt == nil {
		t.Fatal("expected completed_at set on entering done")
	}

	stored := ms.boards["brd-test1"]
	if got := stored.CardByID("tk-b").Position; got != 0 {
		t.Fatalf("old column not renumbered, tk-b at %d", got)
	}
}

func TestHandleMoveCard_IntegerPosition(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards/tk-c/move", map[string]any{
		"columnId": "todo",
		"position": 1,
	})
	requireStatus(t, rec, 200)

	var card model.Card
	decodeJSON(t, rec, &card)
	if card.ColumnID != "todo" || card.Position != 1 {
		t.Fatalf("got column=%q position=%d", card.ColumnID, card.Position)
	}
}

func TestHandleMoveCard_UnknownColumn(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/cards/tk-a/move", map[string]any{
		"columnId": "archive",
		"position": "last",
	})
	requireStatus(t, rec, 404)
}

func TestHandleDeleteCard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "DELETE", "/v1/boards/brd-test1/cards/tk-a", nil)
	requireStatus(t, rec, 204)

	stored := ms.boards["brd-test1"]
	if stored.CardByID("tk-a") != nil {
		t.Fatal("card still present")
	}
	if deps := stored.CardByID("tk-b").Dependencies; len(deps) != 0 {
		t.Fatalf("expected dependency on deleted card stripped, got %v", deps)
	}
	if got := stored.CardByID("tk-b").Position; got != 0 {
		t.Fatalf("column not renumbered, tk-b at %d", got)
	}
}

func TestHandleDeleteCard_NotFound(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "DELETE", "/v1/boards/brd-test1/cards/tk-zzz", nil)
	requireStatus(t, rec, 404)
}

func TestHandleBatch(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/batch", map[string]any{
		"operations": []map[string]any{
			{"op": "create", "columnId": "todo", "card": map[string]any{"title": "Batch card"}},
			{"op": "move", "cardId": "tk-c", "columnId": "done", "position": "last"},
			{"op": "delete", "cardId": "tk-b"},
		},
	})
	requireStatus(t, rec, 200)

	var result struct {
		Cards []*model.Card `json:"cards"`
	}
	decodeJSON(t, rec, &result)
	if len(result.Cards) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Cards))
	}
	if result.Cards[0] == nil || result.Cards[0].Title != "Batch card" {
		t.Fatalf("create entry = %+v", result.Cards[0])
	}
	if result.Cards[1] == nil || result.Cards[1].ColumnID != "done" {
		t.Fatalf("move entry = %+v", result.Cards[1])
	}
	if result.Cards[2] != nil {
		t.Fatalf("delete entry should be null, got %+v", result.Cards[2])
	}

	stored := ms.boards["brd-test1"]
	if stored.CardByID("tk-b") != nil {
		t.Fatal("deleted card still present")
	}
	if stored.CardByID("tk-c").CompletedAt == nil {
		t.Fatal("moved card not completed")
	}
}

func TestHandleBatch_Atomic(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()
	before, _ := json.Marshal(ms.boards["brd-test1"])

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/batch", map[string]any{
		"operations": []map[string]any{
			{"op": "create", "columnId": "todo", "card": map[string]any{"title": "Will roll back"}},
			{"op": "move", "cardId": "tk-zzz", "columnId": "done", "position": "last"},
		},
	})
	requireStatus(t, rec, 404)

	var body map[string]string
	decodeJSON(t, rec, &body)
	if !strings.HasPrefix(body["error"], "op 1:") {
		t.Fatalf("expected op index prefix, got %q", body["error"])
	}

	after, _ := json.Marshal(ms.boards["brd-test1"])
	if string(before) != string(after) {
		t.Fatal("board changed despite failed batch")
	}
}

func TestHandleBatch_UnknownOp(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "POST", "/v1/boards/brd-test1/batch", map[string]any{
		"operations": []map[string]any{{"op": "archive", "cardId": "tk-a"}},
	})
	requireStatus(t, rec, 400)
}

func TestHandleListCards(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Cards []*model.Card `json:"cards"`
		Total int           `json:"total"`
	}
	decodeJSON(t, rec, &result)
	if result.Total != 3 || len(result.Cards) != 3 {
		t.Fatalf("total = %d, cards = %d", result.Total, len(result.Cards))
	}
	// Board order: column order, then position.
	if result.Cards[0].ID != "tk-a" || result.Cards[2].ID != "tk-c" {
		t.Fatalf("unexpected order: %s, %s, %s", result.Cards[0].ID, result.Cards[1].ID, result.Cards[2].ID)
	}
}

func TestHandleListCards_Filtered(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards?priority=high", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Cards []*model.Card `json:"cards"`
		Total int           `json:"total"`
	}
	decodeJSON(t, rec, &result)
	if result.Total != 1 || result.Cards[0].ID != "tk-a" {
		t.Fatalf("got total=%d cards=%v", result.Total, result.Cards)
	}
}

func TestHandleListCards_PaginationKeepsTotal(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards?limit=1&offset=1", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Cards []*model.Card `json:"cards"`
		Total int           `json:"total"`
	}
	decodeJSON(t, rec, &result)
	if len(result.Cards) != 1 || result.Cards[0].ID != "tk-b" {
		t.Fatalf("page = %v", result.Cards)
	}
	if result.Total != 3 {
		t.Fatalf("total = %d, want 3 (all matches)", result.Total)
	}
}

func TestHandleListCards_BadDueFilter(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards?due_before=tomorrow", nil)
	requireStatus(t, rec, 400)
}

func TestHandleListCards_SearchText(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1/cards?search=login", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Cards []*model.Card `json:"cards"`
	}
	decodeJSON(t, rec, &result)
	if len(result.Cards) != 1 || result.Cards[0].ID != "tk-b" {
		t.Fatalf("got %v", result.Cards)
	}
}
