package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// Service runs the load-mutate-save cycle shared by all tools. A
// per-board mutex serializes writers, mirroring the HTTP server's
// locking; tool calls for different boards proceed in parallel.
type Service struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a Service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st, locks: make(map[string]*sync.Mutex)}
}

func (s *Service) boardLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// mutate loads the board, applies fn, and persists the result. fn
// must return a new board (engine operations never mutate their
// input), so a failed save leaves the stored document untouched.
func (s *Service) mutate(ctx context.Context, boardID string, fn func(*model.Board) (*model.Board, error)) error {
	lock := s.boardLock(boardID)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	nb, err := fn(b)
	if err != nil {
		return err
	}
	if err := s.store.PutBoard(ctx, nb); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

// --- argument helpers ---

// intArg extracts an integer argument, returning defaultVal if the key
// is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// stringSliceArg extracts a string-array argument. Missing keys and
// non-string elements are skipped.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// optionalBoolArg returns the boolean argument as a pointer, nil when
// the key is absent. Filters distinguish "unset" from "false".
func optionalBoolArg(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// --- result helpers ---

// jsonResult marshals v as indented JSON into a text result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// toolError renders a handler error as a tool error result. Engine
// errors already name the missing card or column; only the
// board-missing sentinel needs the id spelled out.
func toolError(boardID string, err error) *mcp.CallToolResult {
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("board %q not found", boardID))
	}
	return mcp.NewToolResultError(err.Error())
}
