package main

import (
	"testing"

	"github.com/alfredjeanlab/tacks/internal/board"
)

func TestParseOperations(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{
			name:    "bare array",
			input:   `[{"op":"delete","cardId":"tk-a"},{"op":"move","cardId":"tk-b","columnId":"done"}]`,
			wantLen: 2,
		},
		{
			name:    "envelope",
			input:   `{"operations":[{"op":"create","card":{"title":"New"}}]}`,
			wantLen: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantLen: 0,
		},
		{
			name:    "envelope with empty operations",
			input:   `{"operations":[]}`,
			wantLen: 0,
		},
		{
			name:    "object without operations key",
			input:   `{"ops":[]}`,
			wantErr: true,
		},
		{
			name:    "not JSON",
			input:   `a csv,line`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ops, err := parseOperations([]byte(tc.input))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(ops) != tc.wantLen {
				t.Errorf("len(ops) = %d, want %d", len(ops), tc.wantLen)
			}
		})
	}
}

func TestParseOperations_FieldsDecoded(t *testing.T) {
	input := `[{"op":"move","cardId":"tk-a","columnId":"done","position":"first"}]`
	ops, err := parseOperations([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("len(ops) = %d, want 1", len(ops))
	}
	op := ops[0]
	if op.Op != board.OpMove {
		t.Errorf("Op = %q, want %q", op.Op, board.OpMove)
	}
	if op.CardID != "tk-a" || op.ColumnID != "done" {
		t.Errorf("ids = (%q, %q), want (tk-a, done)", op.CardID, op.ColumnID)
	}
	if op.Position == nil {
		t.Fatal("Position should be decoded")
	}
}
