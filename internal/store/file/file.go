// Package file implements the board store as one pretty-printed JSON
// document per board under a data directory. Writes go through a
// temporary file and an atomic rename, so a crash mid-save can never
// leave a truncated document behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// Store persists board documents as <dir>/<id>.json files.
type Store struct {
	dir string
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New creates the data directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validID rejects ids that could escape the data directory.
func validID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid board id %q", id)
	}
	return nil
}

func (s *Store) GetBoard(_ context.Context, id string) (*model.Board, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading board %s: %w", id, err)
	}
	var b model.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing board %s: %w", id, err)
	}
	b.Normalize()
	return &b, nil
}

func (s *Store) ListBoards(ctx context.Context) ([]store.BoardSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}
	summaries := make([]store.BoardSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		b, err := s.GetBoard(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, store.Summarize(b))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastUpdated.After(summaries[j].LastUpdated)
	})
	return summaries, nil
}

func (s *Store) PutBoard(_ context.Context, b *model.Board) error {
	if err := validID(b.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding board %s: %w", b.ID, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, b.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing board %s: %w", b.ID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing board %s: %w", b.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing board %s: %w", b.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(b.ID)); err != nil {
		return fmt.Errorf("writing board %s: %w", b.ID, err)
	}
	return nil
}

func (s *Store) DeleteBoard(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting board %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
