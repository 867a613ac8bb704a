package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/board"
)

var moveCmd = &cobra.Command{
	Use:     "move <card-id> <column-id>",
	Short:   "Move a card to a column",
	GroupID: "cards",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		position, _ := cmd.Flags().GetString("position")
		pos, err := board.ParsePosition(position)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		card, err := tkClient.MoveCard(context.Background(), brd, args[0], args[1], pos)
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
	moveCmd.Flags().String("position", "last", `position in target column: "first", "last", or an index`)
}
