package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *BoardServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/boards", s.handleCreateBoard)
	mux.HandleFunc("GET /v1/boards", s.handleListBoards)
	mux.HandleFunc("GET /v1/boards/{id}", s.handleGetBoard)
	mux.HandleFunc("PUT /v1/boards/{id}", s.handleReplaceBoard)
	mux.HandleFunc("PATCH /v1/boards/{id}", s.handlePatchBoard)
	mux.HandleFunc("DELETE /v1/boards/{id}", s.handleDeleteBoard)
	mux.HandleFunc("POST /v1/boards/{id}/cards", s.handleCreateCard)
	mux.HandleFunc("GET /v1/boards/{id}/cards", s.handleListCards)
	mux.HandleFunc("GET /v1/boards/{id}/cards/{cardId}", s.handleGetCard)
	mux.HandleFunc("PATCH /v1/boards/{id}/cards/{cardId}", s.handleUpdateCard)
	mux.HandleFunc("POST /v1/boards/{id}/cards/{cardId}/move", s.handleMoveCard)
	mux.HandleFunc("DELETE /v1/boards/{id}/cards/{cardId}", s.handleDeleteCard)
	mux.HandleFunc("POST /v1/boards/{id}/batch", s.handleBatch)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *BoardServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps a mutation error onto the HTTP taxonomy:
// invalid input is 400, a missing board/column/card is 404, anything
// else (storage, encoding) is 500. The error type picks the status;
// the message keeps the full chain, so batch failures retain their
// "op N:" prefix. Validation failures additionally carry the
// per-field messages in a "violations" array.
func writeEngineError(w http.ResponseWriter, err error) {
	var ie inputError
	var ve *model.ValidationError
	var re *board.RefError
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      err.Error(),
			"violations": ve.Messages(),
		})
	case errors.As(err, &re):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "board not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
