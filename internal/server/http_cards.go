package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/events"
	"github.com/alfredjeanlab/tacks/internal/model"
)

type createCardInput struct {
	board.CardData
	ColumnID string          `json:"columnId,omitempty"`
	Position *board.Position `json:"position,omitempty"`
}

// handleCreateCard handles POST /v1/boards/{id}/cards.
func (s *BoardServer) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")

	var in createCardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var card *model.Card
	_, err := s.mutateBoard(r.Context(), boardID, func(b *model.Board) (*model.Board, error) {
		nb, c, err := board.Create(b, in.ColumnID, in.Position, &in.CardData)
		if err != nil {
			return nil, err
		}
		card = c
		return nb, nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCardCreated, boardID, events.CardCreated{
		BoardID: boardID,
		Card:    card,
	})

	writeJSON(w, http.StatusCreated, card)
}

// handleGetCard handles GET /v1/boards/{id}/cards/{cardId}.
func (s *BoardServer) handleGetCard(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	cardID := r.PathValue("cardId")

	b, err := s.store.GetBoard(r.Context(), boardID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	card := b.CardByID(cardID)
	if card == nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// handleUpdateCard handles PATCH /v1/boards/{id}/cards/{cardId}.
func (s *BoardServer) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	cardID := r.PathValue("cardId")

	var patch model.CardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeEngineError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var card *model.Card
	var changes map[string]any
	_, err := s.mutateBoard(r.Context(), boardID, func(b *model.Board) (*model.Board, error) {
		nb, c, ch, err := board.Update(b, cardID, patch)
		if err != nil {
			return nil, err
		}
		card, changes = c, ch
		return nb, nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCardUpdated, boardID, events.CardUpdated{
		BoardID: boardID,
		CardID:  cardID,
		Changes: changes,
	})

	writeJSON(w, http.StatusOK, card)
}

type moveCardInput struct {
	ColumnID string          `json:"columnId"`
	Position *board.Position `json:"position"`
}

// handleMoveCard handles POST /v1/boards/{id}/cards/{cardId}/move.
func (s *BoardServer) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	cardID := r.PathValue("cardId")

	var in moveCardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.ColumnID == "" {
		writeError(w, http.StatusBadRequest, "columnId is required")
		return
	}
	if in.Position == nil {
		writeError(w, http.StatusBadRequest, "position is required")
		return
	}

	var card *model.Card
	var fromColumn string
	_, err := s.mutateBoard(r.Context(), boardID, func(b *model.Board) (*model.Board, error) {
		if prev := b.CardByID(cardID); prev != nil {
			fromColumn = prev.ColumnID
		}
		nb, c, err := board.Move(b, cardID, in.ColumnID, *in.Position)
		if err != nil {
			return nil, err
		}
		card = c
		return nb, nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCardMoved, boardID, events.CardMoved{
		BoardID:    boardID,
		CardID:     cardID,
		FromColumn: fromColumn,
		ToColumn:   card.ColumnID,
		Position:   card.Position,
	})

	writeJSON(w, http.StatusOK, card)
}

// handleDeleteCard handles DELETE /v1/boards/{id}/cards/{cardId}.
func (s *BoardServer) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	cardID := r.PathValue("cardId")

	_, err := s.mutateBoard(r.Context(), boardID, func(b *model.Board) (*model.Board, error) {
		return board.Delete(b, cardID)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCardDeleted, boardID, events.CardDeleted{
		BoardID: boardID,
		CardID:  cardID,
	})

	w.WriteHeader(http.StatusNoContent)
}

type batchInput struct {
	Operations []board.Operation `json:"operations"`
}

// handleBatch handles POST /v1/boards/{id}/batch. The operations run
// in order against one evolving copy of the board; the first failure
// rolls the whole request back.
func (s *BoardServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")

	var in batchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeEngineError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var affected []*model.Card
	_, err := s.mutateBoard(r.Context(), boardID, func(b *model.Board) (*model.Board, error) {
		nb, cards, err := board.ApplyBatch(b, in.Operations)
		if err != nil {
			return nil, err
		}
		affected = cards
		return nb, nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.publishBatchEvents(r, boardID, in.Operations, affected)

	writeJSON(w, http.StatusOK, map[string]any{"cards": affected})
}

// publishBatchEvents emits the per-operation events for a successful
// batch, then a single batch summary event.
func (s *BoardServer) publishBatchEvents(r *http.Request, boardID string, ops []board.Operation, affected []*model.Card) {
	ctx := r.Context()
	for i, op := range ops {
		switch op.Op {
		case board.OpCreate:
			s.publish(ctx, events.TopicCardCreated, boardID, events.CardCreated{
				BoardID: boardID,
				Card:    affected[i],
			})
		case board.OpUpdate:
			var changes map[string]any
			if op.Patch != nil {
				changes = op.Patch.Changes(affected[i])
			}
			s.publish(ctx, events.TopicCardUpdated, boardID, events.CardUpdated{
				BoardID: boardID,
				CardID:  op.CardID,
				Changes: changes,
			})
		case board.OpMove:
			s.publish(ctx, events.TopicCardMoved, boardID, events.CardMoved{
				BoardID:  boardID,
				CardID:   op.CardID,
				ToColumn: affected[i].ColumnID,
				Position: affected[i].Position,
			})
		case board.OpDelete:
			s.publish(ctx, events.TopicCardDeleted, boardID, events.CardDeleted{
				BoardID: boardID,
				CardID:  op.CardID,
			})
		}
	}
	s.publish(ctx, events.TopicBatchApplied, boardID, events.BatchApplied{
		BoardID:    boardID,
		Operations: len(ops),
	})
}

// handleListCards handles GET /v1/boards/{id}/cards. Query parameters
// select and order a subset of the board's cards; with none the whole
// board's cards come back in board order.
func (s *BoardServer) handleListCards(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")

	filter, err := cardFilterFromQuery(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	b, getErr := s.store.GetBoard(r.Context(), boardID)
	if getErr != nil {
		writeEngineError(w, getErr)
		return
	}

	cards := board.Search(b, filter)
	if cards == nil {
		cards = []*model.Card{}
	}

	// Total counts every match, not just the returned page.
	unpaged := filter
	unpaged.Limit = 0
	unpaged.Offset = 0
	total := len(board.Search(b, unpaged))

	writeJSON(w, http.StatusOK, map[string]any{
		"cards": cards,
		"total": total,
	})
}

// cardFilterFromQuery builds a CardFilter from URL query parameters.
func cardFilterFromQuery(r *http.Request) (model.CardFilter, error) {
	q := r.URL.Query()
	filter := model.CardFilter{
		ColumnID: q.Get("column"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}

	if v := q.Get("priority"); v != "" {
		for _, p := range strings.Split(v, ",") {
			filter.Priority = append(filter.Priority, model.Priority(p))
		}
	}
	if v := q.Get("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}
	if v := q.Get("due_before"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, inputError("due_before must be RFC 3339")
		}
		filter.DueBefore = &ts
	}
	if v := q.Get("due_after"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, inputError("due_after must be RFC 3339")
		}
		filter.DueAfter = &ts
	}
	if v := q.Get("completed"); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return filter, inputError("completed must be a boolean")
		}
		filter.Completed = &val
	}
	if v := q.Get("blocked"); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return filter, inputError("blocked must be a boolean")
		}
		filter.Blocked = &val
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	return filter, nil
}
