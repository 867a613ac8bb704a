package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/model"
)

var updateCmd = &cobra.Command{
	Use:     "update <card-id>",
	Short:   "Update a card",
	GroupID: "cards",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		patch := &model.CardPatch{}

		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			patch.Title = &v
		}
		if cmd.Flags().Changed("content") {
			v, _ := cmd.Flags().GetString("content")
			patch.Content = &v
		}
		if cmd.Flags().Changed("collapsed") {
			v, _ := cmd.Flags().GetBool("collapsed")
			patch.Collapsed = &v
		}
		if cmd.Flags().Changed("subtask") {
			v, _ := cmd.Flags().GetStringArray("subtask")
			patch.Subtasks = v
			patch.SubtasksSet = true
		}
		if cmd.Flags().Changed("tag") {
			v, _ := cmd.Flags().GetStringSlice("tag")
			patch.Tags = v
			patch.TagsSet = true
		}
		if cmd.Flags().Changed("dep") {
			v, _ := cmd.Flags().GetStringArray("dep")
			patch.Dependencies = v
			patch.DependenciesSet = true
		}
		// Empty --priority or --due clears the field.
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			patch.Priority = model.Priority(v)
			patch.PrioritySet = true
		}
		if cmd.Flags().Changed("due") {
			v, _ := cmd.Flags().GetString("due")
			due, err := parseDueDate(v)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			patch.DueDate = due
			patch.DueDateSet = true
		}

		card, err := tkClient.UpdateCard(context.Background(), brd, args[0], patch)
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
	updateCmd.Flags().String("title", "", "card title")
	updateCmd.Flags().StringP("content", "d", "", "card content (markdown)")
	updateCmd.Flags().Bool("collapsed", false, "collapse the card in UI clients")
	updateCmd.Flags().StringArray("subtask", nil, "replacement subtask list (repeatable)")
	updateCmd.Flags().StringSliceP("tag", "t", nil, "replacement tags (repeatable)")
	updateCmd.Flags().StringArray("dep", nil, "replacement dependency ids (repeatable)")
	updateCmd.Flags().StringP("priority", "p", "", "priority: high, medium, low, or empty to clear")
	updateCmd.Flags().String("due", "", "due date (RFC3339 or YYYY-MM-DD, empty to clear)")
}
