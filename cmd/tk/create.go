package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/client"
	"github.com/alfredjeanlab/tacks/internal/model"
)

// parseDueDate accepts RFC3339 timestamps or bare dates (2006-01-02).
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return &t, nil
}

var createCmd = &cobra.Command{
	Use:     "create [<title>]",
	Short:   "Create a new card",
	GroupID: "cards",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var title string
		if len(args) == 1 {
			title = args[0]
		}

		column, _ := cmd.Flags().GetString("column")
		position, _ := cmd.Flags().GetString("position")
		kind, _ := cmd.Flags().GetString("kind")
		content, _ := cmd.Flags().GetString("content")
		subtasks, _ := cmd.Flags().GetStringArray("subtask")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		deps, _ := cmd.Flags().GetStringArray("dep")
		priority, _ := cmd.Flags().GetString("priority")
		due, _ := cmd.Flags().GetString("due")

		dueDate, err := parseDueDate(due)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var pos *board.Position
		if cmd.Flags().Changed("position") {
			p, err := board.ParsePosition(position)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			pos = &p
		}

		req := &client.CreateCardRequest{
			CardData: board.CardData{
				Kind:         model.CardKind(kind),
				Title:        title,
				Content:      content,
				Subtasks:     subtasks,
				Tags:         tags,
				Dependencies: deps,
				Priority:     model.Priority(priority),
				DueDate:      dueDate,
			},
			ColumnID: column,
			Position: pos,
		}

		card, err := tkClient.CreateCard(context.Background(), brd, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(card)
		} else {
			printCardTable(card)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("column", "c", "", "column id (defaults to the first column)")
	createCmd.Flags().String("position", "last", `position in column: "first", "last", or an index`)
	createCmd.Flags().StringP("kind", "k", "", "card kind: basic, task, or feature")
	createCmd.Flags().StringP("content", "d", "", "card content (markdown)")
	createCmd.Flags().StringArray("subtask", nil, "subtask title (repeatable)")
	createCmd.Flags().StringSliceP("tag", "t", nil, "tags (repeatable)")
	createCmd.Flags().StringArray("dep", nil, "dependency card id (repeatable)")
	createCmd.Flags().StringP("priority", "p", "", "priority: high, medium, or low")
	createCmd.Flags().String("due", "", "due date (RFC3339 or YYYY-MM-DD)")
}
