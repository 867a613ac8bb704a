package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/tacks/internal/events"
	"github.com/alfredjeanlab/tacks/internal/idgen"
	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
)

// defaultColumns is the column set a new board gets when the caller
// does not supply one.
func defaultColumns() []model.Column {
	return []model.Column{
		{ID: "todo", Name: "To Do"},
		{ID: "in-progress", Name: "In Progress"},
		{ID: "done", Name: "Done"},
	}
}

type createBoardInput struct {
	ProjectName string         `json:"projectName"`
	Columns     []model.Column `json:"columns,omitempty"`
	NextSteps   []string       `json:"next-steps,omitempty"`
}

// handleCreateBoard handles POST /v1/boards.
func (s *BoardServer) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var in createBoardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(in.ProjectName) == "" {
		writeError(w, http.StatusBadRequest, "projectName is required")
		return
	}

	id, err := idgen.NewBoardID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	columns := in.Columns
	if len(columns) == 0 {
		columns = defaultColumns()
	}
	for i := range columns {
		if columns[i].ID == "" {
			columns[i].ID = slugify(columns[i].Name)
		}
	}

	b := &model.Board{
		ID:          id,
		ProjectName: in.ProjectName,
		Columns:     columns,
		Cards:       []*model.Card{},
		NextSteps:   in.NextSteps,
		LastUpdated: time.Now().UTC(),
	}
	b.Normalize()
	if err := model.ValidateBoard(b); err != nil {
		writeEngineError(w, err)
		return
	}

	if err := s.store.PutBoard(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store board")
		return
	}

	s.publish(r.Context(), events.TopicBoardCreated, b.ID, events.BoardCreated{Board: b})

	writeJSON(w, http.StatusCreated, b)
}

// handleListBoards handles GET /v1/boards.
func (s *BoardServer) handleListBoards(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListBoards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list boards")
		return
	}

	// Ensure boards is never null in JSON output.
	if summaries == nil {
		summaries = []store.BoardSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"boards": summaries,
		"total":  len(summaries),
	})
}

// handleGetBoard handles GET /v1/boards/{id}.
func (s *BoardServer) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b, err := s.store.GetBoard(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get board")
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// handleReplaceBoard handles PUT /v1/boards/{id}. The body is a whole
// board document; it replaces the stored one after validation. The
// board must already exist, creation goes through POST /v1/boards.
func (s *BoardServer) handleReplaceBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in model.Board
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.ID != "" && in.ID != id {
		writeError(w, http.StatusBadRequest, "body id does not match path")
		return
	}
	in.ID = id
	in.Normalize()
	if err := model.ValidateBoard(&in); err != nil {
		writeEngineError(w, err)
		return
	}

	nb, err := s.mutateBoard(r.Context(), id, func(*model.Board) (*model.Board, error) {
		in.LastUpdated = time.Now().UTC()
		return &in, nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicBoardUpdated, id, events.BoardUpdated{
		BoardID: id,
		Changes: map[string]any{"replaced": true},
	})

	writeJSON(w, http.StatusOK, nb)
}

type patchBoardInput struct {
	ProjectName *string   `json:"projectName"`
	NextSteps   *[]string `json:"next-steps"`
}

// handlePatchBoard handles PATCH /v1/boards/{id}. Only the board's own
// fields are patchable here; cards change through the card endpoints.
func (s *BoardServer) handlePatchBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in patchBoardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.ProjectName != nil && strings.TrimSpace(*in.ProjectName) == "" {
		writeError(w, http.StatusBadRequest, "projectName cannot be empty")
		return
	}

	changes := make(map[string]any)
	nb, err := s.mutateBoard(r.Context(), id, func(b *model.Board) (*model.Board, error) {
		nb := b.Clone()
		if in.ProjectName != nil {
			nb.ProjectName = *in.ProjectName
			changes["projectName"] = nb.ProjectName
		}
		if in.NextSteps != nil {
			nb.NextSteps = append([]string{}, (*in.NextSteps)...)
			changes["next-steps"] = nb.NextSteps
		}
		nb.LastUpdated = time.Now().UTC()
		return nb, nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicBoardUpdated, id, events.BoardUpdated{
		BoardID: id,
		Changes: changes,
	})

	writeJSON(w, http.StatusOK, nb)
}

// handleDeleteBoard handles DELETE /v1/boards/{id}.
func (s *BoardServer) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteBoard(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete board")
		return
	}

	s.publish(r.Context(), events.TopicBoardDeleted, id, events.BoardDeleted{BoardID: id})

	w.WriteHeader(http.StatusNoContent)
}

// slugify derives a column id from its display name: lowercase, spaces
// to hyphens, everything else outside [a-z0-9-] dropped.
func slugify(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		case r == ' ' || r == '_':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
