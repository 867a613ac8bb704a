package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/tacks/internal/events"
	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

type mockStore struct {
	mu     sync.Mutex
	boards map[string]*model.Board

	// putErr, when non-nil, is returned by PutBoard (for testing save failures).
	putErr error
}

func newMockStore() *mockStore {
	return &mockStore{boards: make(map[string]*model.Board)}
}

func (m *mockStore) GetBoard(_ context.Context, id string) (*model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	// Clone so callers never share memory with the stored document,
	// mirroring a real store's decode-per-read behavior.
	return b.Clone(), nil
}

func (m *mockStore) ListBoards(_ context.Context) ([]store.BoardSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var summaries []store.BoardSummary
	for _, b := range m.boards {
		summaries = append(summaries, store.Summarize(b))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastUpdated.After(summaries[j].LastUpdated)
	})
	return summaries, nil
}

func (m *mockStore) PutBoard(_ context.Context, b *model.Board) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[b.ID] = b.Clone()
	return nil
}

func (m *mockStore) DeleteBoard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.boards, id)
	return nil
}

func (m *mockStore) Close() error { return nil }

// seedBoard returns a board with four columns and three cards at dense
// positions, the shape most handler tests start from.
func seedBoard() *model.Board {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	card := func(id, title, columnID string, pos int) *model.Card {
		return &model.Card{
			ID:        id,
			Title:     title,
			ColumnID:  columnID,
			Position:  pos,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	a := card("tk-a", "Write docs", "todo", 0)
	a.Priority = model.PriorityHigh
	b := card("tk-b", "Fix login bug", "todo", 1)
	b.Dependencies = []string{"tk-a"}
	c := card("tk-c", "Ship release", "doing", 0)
	return &model.Board{
		ID:          "brd-test1",
		ProjectName: "Demo",
		Columns: []model.Column{
			{ID: "todo", Name: "To Do"},
			{ID: "doing", Name: "Doing"},
			{ID: "done", Name: "Done"},
			{ID: "blocked", Name: "Blocked"},
		},
		Cards:       []*model.Card{a, b, c},
		LastUpdated: created,
	}
}

// newTestServer returns a fresh server, its mock store, and an HTTP handler.
func newTestServer() (*BoardServer, *mockStore, http.Handler) {
	ms := newMockStore()
	s := NewBoardServer(ms, &events.NoopPublisher{})
	return s, ms, s.NewHTTPHandler("")
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestHandleCreateBoard(t *testing.T) {
	_, ms, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/boards", map[string]any{"projectName": "New Project"})
	requireStatus(t, rec, 201)

	var b model.Board
	decodeJSON(t, rec, &b)
	if !strings.HasPrefix(b.ID, "brd-") {
		t.Fatalf("expected brd- prefixed id, got %q", b.ID)
	}
	if b.ProjectName != "New Project" {
		t.Fatalf("projectName = %q", b.ProjectName)
	}
	if len(b.Columns) != 3 || b.Columns[0].ID != "todo" || b.Columns[2].ID != "done" {
		t.Fatalf("expected default columns, got %v", b.Columns)
	}
	if b.LastUpdated.IsZero() {
		t.Fatal("expected last_updated to be set")
	}
	if _, ok := ms.boards[b.ID]; !ok {
		t.Fatal("board not persisted")
	}
}

func TestHandleCreateBoard_CustomColumns(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/boards", map[string]any{
		"projectName": "Custom",
		"columns": []map[string]string{
			{"name": "Ideas"},
			{"id": "wip", "name": "In Flight"},
			{"name": "Done & Dusted"},
		},
	})
	requireStatus(t, rec, 201)

	var b model.Board
	decodeJSON(t, rec, &b)
	if len(b.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(b.Columns))
	}
	if b.Columns[0].ID != "ideas" {
		t.Errorf("expected slug id ideas, got %q", b.Columns[0].ID)
	}
	if b.Columns[1].ID != "wip" {
		t.Errorf("explicit id overridden: %q", b.Columns[1].ID)
	}
	if b.Columns[2].ID != "done--dusted" {
		t.Errorf("slug = %q", b.Columns[2].ID)
	}
}

func TestHandleCreateBoard_MissingProjectName(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/boards", map[string]any{})
	requireStatus(t, rec, 400)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["error"] != "projectName is required" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestHandleListBoards(t *testing.T) {
	_, ms, h := newTestServer()
	b1 := seedBoard()
	b2 := seedBoard()
	b2.ID = "brd-test2"
	b2.ProjectName = "Second"
	b2.LastUpdated = b1.LastUpdated.Add(time.Hour)
	ms.boards[b1.ID] = b1
	ms.boards[b2.ID] = b2

	rec := doJSON(t, h, "GET", "/v1/boards", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Boards []store.BoardSummary `json:"boards"`
		Total  int                  `json:"total"`
	}
	decodeJSON(t, rec, &result)
	if result.Total != 2 || len(result.Boards) != 2 {
		t.Fatalf("total = %d, boards = %d", result.Total, len(result.Boards))
	}
	if result.Boards[0].ID != "brd-test2" {
		t.Fatalf("expected most recently updated first, got %q", result.Boards[0].ID)
	}
	if result.Boards[1].Cards != 3 || result.Boards[1].Columns != 4 {
		t.Fatalf("summary counts wrong: %+v", result.Boards[1])
	}
}

func TestHandleListBoards_EmptyIsArray(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/boards", nil)
	requireStatus(t, rec, 200)
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"boards":[]`)) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandleGetBoard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "GET", "/v1/boards/brd-test1", nil)
	requireStatus(t, rec, 200)
	var b model.Board
	decodeJSON(t, rec, &b)
	if b.ID != "brd-test1" || len(b.Cards) != 3 {
		t.Fatalf("got id=%q cards=%d", b.ID, len(b.Cards))
	}
}

func TestHandleGetBoard_NotFound(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/boards/nonexistent", nil)
	requireStatus(t, rec, 404)
}

func TestHandleReplaceBoard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	doc := seedBoard()
	doc.ProjectName = "Renamed"
	doc.Cards = doc.Cards[:1]
	rec := doJSON(t, h, "PUT", "/v1/boards/brd-test1", doc)
	requireStatus(t, rec, 200)

	stored := ms.boards["brd-test1"]
	if stored.ProjectName != "Renamed" || len(stored.Cards) != 1 {
		t.Fatalf("replace not persisted: %q, %d cards", stored.ProjectName, len(stored.Cards))
	}
	if !stored.LastUpdated.After(seedBoard().LastUpdated) {
		t.Fatal("expected last_updated to be refreshed on save")
	}
}

func TestHandleReplaceBoard_NotFound(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "PUT", "/v1/boards/brd-nope", seedBoard())
	requireStatus(t, rec, 400) // body id brd-test1 mismatches path

	doc := seedBoard()
	doc.ID = ""
	rec = doJSON(t, h, "PUT", "/v1/boards/brd-nope", doc)
	requireStatus(t, rec, 404)
}

func TestHandleReplaceBoard_InvalidDocument(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	doc := seedBoard()
	doc.Columns = append(doc.Columns, model.Column{ID: "todo", Name: "Duplicate"})
	rec := doJSON(t, h, "PUT", "/v1/boards/brd-test1", doc)
	requireStatus(t, rec, 400)

	var body struct {
		Violations []string `json:"violations"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Violations) == 0 {
		t.Fatal("expected violations in response")
	}
}

func TestHandlePatchBoard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1", map[string]any{
		"projectName": "Patched",
		"next-steps":  []string{"triage inbox"},
	})
	requireStatus(t, rec, 200)

	stored := ms.boards["brd-test1"]
	if stored.ProjectName != "Patched" {
		t.Fatalf("projectName = %q", stored.ProjectName)
	}
	if len(stored.NextSteps) != 1 || stored.NextSteps[0] != "triage inbox" {
		t.Fatalf("next-steps = %v", stored.NextSteps)
	}
	if len(stored.Cards) != 3 {
		t.Fatal("patch must not touch cards")
	}
}

func TestHandlePatchBoard_EmptyProjectName(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "PATCH", "/v1/boards/brd-test1", map[string]any{"projectName": "  "})
	requireStatus(t, rec, 400)
}

func TestHandleDeleteBoard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.boards["brd-test1"] = seedBoard()

	rec := doJSON(t, h, "DELETE", "/v1/boards/brd-test1", nil)
	requireStatus(t, rec, 204)
	if _, ok := ms.boards["brd-test1"]; ok {
		t.Fatal("board still present after delete")
	}
}

func TestHandleHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		name      string
		method    string
		path      string
		body      any
		code      int
		wantError string
	}{
		{"CreateBoard/MissingProjectName", "POST", "/v1/boards", map[string]any{}, 400, "projectName is required"},
		{"GetBoard/NotFound", "GET", "/v1/boards/nonexistent", nil, 404, "board not found"},
		{"DeleteBoard/NotFound", "DELETE", "/v1/boards/nonexistent", nil, 404, "board not found"},
		{"GetCard/BoardNotFound", "GET", "/v1/boards/nonexistent/cards/tk-a", nil, 404, "board not found"},
		{"CreateCard/BoardNotFound", "POST", "/v1/boards/nonexistent/cards", map[string]any{"title": "x"}, 404, "board not found"},
		{"MoveCard/MissingColumn", "POST", "/v1/boards/brd-test1/cards/tk-a/move", map[string]any{"position": "last"}, 400, "columnId is required"},
		{"MoveCard/MissingPosition", "POST", "/v1/boards/brd-test1/cards/tk-a/move", map[string]any{"columnId": "done"}, 400, "position is required"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, ms, h := newTestServer()
			ms.boards["brd-test1"] = seedBoard()
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
			if tc.wantError != "" {
				var body map[string]string
				decodeJSON(t, rec, &body)
				if body["error"] != tc.wantError {
					t.Fatalf("expected error=%q, got %q", tc.wantError, body["error"])
				}
			}
		})
	}
}
