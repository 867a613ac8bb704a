package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/board"
)

// parseOperations accepts either a bare JSON array of operations or the
// HTTP endpoint's envelope form {"operations": [...]}.
func parseOperations(data []byte) ([]board.Operation, error) {
	var envelope struct {
		Operations []board.Operation `json:"operations"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Operations != nil {
		return envelope.Operations, nil
	}

	var ops []board.Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("expected a JSON array of operations or {\"operations\": [...]}: %w", err)
	}
	return ops, nil
}

var batchCmd = &cobra.Command{
	Use:     "batch [<file>]",
	Short:   "Apply a batch of operations from a JSON file or stdin",
	GroupID: "cards",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var data []byte
		if len(args) == 1 && args[0] != "-" {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ops, err := parseOperations(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(ops) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no operations to apply")
			os.Exit(1)
		}

		results, err := tkClient.ApplyBatch(context.Background(), brd, ops)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(map[string]any{"cards": results})
			return nil
		}
		for i, op := range ops {
			switch {
			case i < len(results) && results[i] != nil:
				fmt.Printf("%d. %s %s\n", i+1, op.Op, results[i].ID)
			default:
				fmt.Printf("%d. %s %s\n", i+1, op.Op, op.CardID)
			}
		}
		fmt.Printf("\nApplied %d operations\n", len(ops))
		return nil
	},
}
