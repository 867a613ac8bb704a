package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <card-id>...",
	Aliases: []string{"delete"},
	Short:   "Delete one or more cards",
	GroupID: "cards",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, id := range args {
			if err := tkClient.DeleteCard(context.Background(), brd, id); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}
