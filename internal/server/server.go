// Package server exposes the board engine over HTTP. All writes run
// through a per-board lock so each board has a single writer; readers
// see whichever document was saved last.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/tacks/internal/events"
	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// BoardServer serves board documents and runs mutations through the engine.
type BoardServer struct {
	store     store.Store
	publisher events.Publisher
	sseHub    *sseHub

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // board id -> write lock
}

// NewBoardServer returns a new BoardServer backed by the given store and publisher.
func NewBoardServer(s store.Store, p events.Publisher) *BoardServer {
	return &BoardServer{
		store:     s,
		publisher: p,
		sseHub:    newSSEHub(),
		locks:     make(map[string]*sync.Mutex),
	}
}

// boardLock returns the write lock for a board id, creating it on first use.
func (s *BoardServer) boardLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// mutateBoard runs fn inside the board's load-mutate-save cycle. The
// write lock serializes concurrent mutations of the same board, so a
// whole cycle wins or loses against other writers as a unit. fn gets
// the freshly loaded document and returns the document to persist.
func (s *BoardServer) mutateBoard(ctx context.Context, id string, fn func(*model.Board) (*model.Board, error)) (*model.Board, error) {
	lock := s.boardLock(id)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	nb, err := fn(b)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutBoard(ctx, nb); err != nil {
		return nil, err
	}
	return nb, nil
}

// publish sends an event to NATS and fans it out to SSE clients. Both
// are best-effort; failures are logged but do not fail the mutation,
// which is already persisted by the time events go out.
func (s *BoardServer) publish(ctx context.Context, topic, boardID string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "board_id", boardID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// broadcastEvent fans an event out to connected SSE clients.
func (s *BoardServer) broadcastEvent(topic string, event any) {
	if s.sseHub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}

// inputError indicates invalid user input. The HTTP layer maps it to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
