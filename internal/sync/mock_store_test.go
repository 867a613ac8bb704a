package sync

import (
	"context"
	"sort"

	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	boards map[string]*model.Board
}

func newMockStore() *mockStore {
	return &mockStore{boards: make(map[string]*model.Board)}
}

func (m *mockStore) GetBoard(_ context.Context, id string) (*model.Board, error) {
	b, ok := m.boards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return b.Clone(), nil
}

func (m *mockStore) ListBoards(_ context.Context) ([]store.BoardSummary, error) {
	var out []store.BoardSummary
	for _, b := range m.boards {
		out = append(out, store.Summarize(b))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

func (m *mockStore) PutBoard(_ context.Context, b *model.Board) error {
	m.boards[b.ID] = b.Clone()
	return nil
}

func (m *mockStore) DeleteBoard(_ context.Context, id string) error {
	if _, ok := m.boards[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.boards, id)
	return nil
}

func (m *mockStore) Close() error { return nil }
