package board

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alfredjeanlab/tacks/internal/model"
)

func TestApplyBatch_AllOrNothing(t *testing.T) {
	stubClock(t)
	b := testBoard()
	before, _ := json.Marshal(b)

	last := PositionLast()
	ops := []Operation{
		{Op: OpCreate, ColumnID: "todo", Card: &CardData{Title: "New"}},
		{Op: OpMove, CardID: "tk-a", ColumnID: "missing-column", Position: &last},
		{Op: OpDelete, CardID: "tk-b"},
	}
	_, _, err := ApplyBatch(b, ops)
	var re *RefError
	if !errors.As(err, &re) {
		t.Fatalf("expected RefError through the batch, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "op 1:") {
		t.Errorf("error = %q, want op index prefix", err)
	}

	after, _ := json.Marshal(b)
	if string(before) != string(after) {
		t.Error("failed batch left effects on the original board")
	}
}

func TestApplyBatch_EachOpSeesPriorEffects(t *testing.T) {
	stubClock(t)
	b := testBoard()
	ops := []Operation{
		{Op: OpCreate, ColumnID: "todo", Card: &CardData{Title: "D"}},
		{Op: OpCreate, ColumnID: "todo", Card: &CardData{Title: "E"}},
	}
	nb, affected, err := ApplyBatch(b, ops)
	if err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if affected[0].Position != 2 || affected[1].Position != 3 {
		t.Errorf("positions = %d,%d, want 2,3 (second create sees the first)",
			affected[0].Position, affected[1].Position)
	}
	requireDense(t, nb)
}

func TestApplyBatch_MixedOperations(t *testing.T) {
	stubClock(t)
	b := testBoard()
	first := PositionFirst()
	var patch model.CardPatch
	if err := json.Unmarshal([]byte(`{"title":"Beta v2"}`), &patch); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	ops := []Operation{
		{Op: OpUpdate, CardID: "tk-b", Patch: &patch},
		{Op: OpMove, CardID: "tk-b", ColumnID: "done", Position: &first},
		{Op: OpDelete, CardID: "tk-c"},
	}
	nb, affected, err := ApplyBatch(b, ops)
	if err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if len(affected) != 3 {
		t.Fatalf("affected = %d entries, want 3", len(affected))
	}
	if affected[2] != nil {
		t.Error("delete must contribute a nil affected entry")
	}
	moved := nb.CardByID("tk-b")
	if moved.Title != "Beta v2" || moved.ColumnID != "done" || moved.CompletedAt == nil {
		t.Errorf("batch effects incomplete: %+v", moved)
	}
	if nb.CardByID("tk-c") != nil {
		t.Error("tk-c must be deleted")
	}
	requireDense(t, nb)
}

func TestApplyBatch_FirstErrorStopsExecution(t *testing.T) {
	stubClock(t)
	b := testBoard()
	ops := []Operation{
		{Op: OpDelete, CardID: "tk-zz"}, // fails
		{Op: OpDelete, CardID: "tk-a"},  // must not run
	}
	_, _, err := ApplyBatch(b, ops)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "op 0:") {
		t.Errorf("error = %q, want failure at op 0", err)
	}
	if b.CardByID("tk-a") == nil {
		t.Error("later op ran despite earlier failure")
	}
}

func TestApplyBatch_ValidationErrorSurfaces(t *testing.T) {
	b := testBoard()
	ops := []Operation{{Op: "rename"}}
	_, _, err := ApplyBatch(b, ops)
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for unknown op, got %v", err)
	}
}

func TestApplyBatch_Empty(t *testing.T) {
	b := testBoard()
	nb, affected, err := ApplyBatch(b, nil)
	if err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if len(affected) != 0 {
		t.Errorf("affected = %v, want empty", affected)
	}
	if nb == nil {
		t.Fatal("empty batch must still return a board")
	}
}

func TestApplyBatch_WireDecoding(t *testing.T) {
	stubClock(t)
	raw := `[
		{"op": "create", "columnId": "todo", "card": {"kind": "task", "title": "Wire", "subtasks": ["a"], "priority": "high"}},
		{"op": "move", "cardId": "tk-a", "columnId": "done", "position": "last"},
		{"op": "update", "cardId": "tk-b", "patch": {"collapsed": true}},
		{"op": "delete", "cardId": "tk-c"}
	]`
	var ops []Operation
	if err := json.Unmarshal([]byte(raw), &ops); err != nil {
		t.Fatalf("decode ops: %v", err)
	}
	nb, affected, err := ApplyBatch(testBoard(), ops)
	if err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if affected[0].Priority != model.PriorityHigh || len(affected[0].Subtasks) != 1 {
		t.Errorf("task create lost fields: %+v", affected[0])
	}
	if nb.CardByID("tk-a").CompletedAt == nil {
		t.Error("moved card must be completed")
	}
	if !nb.CardByID("tk-b").Collapsed {
		t.Error("patch not applied")
	}
	requireDense(t, nb)
}
