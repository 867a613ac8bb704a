package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List cards",
	GroupID: "cards",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		column, _ := cmd.Flags().GetString("column")
		priorities, _ := cmd.Flags().GetStringSlice("priority")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		dueBefore, _ := cmd.Flags().GetString("due-before")
		dueAfter, _ := cmd.Flags().GetString("due-after")
		sortKey, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		filter := model.CardFilter{
			ColumnID: column,
			Tags:     tags,
			Sort:     sortKey,
			Limit:    limit,
			Offset:   offset,
		}
		for _, p := range priorities {
			filter.Priority = append(filter.Priority, model.Priority(p))
		}
		if filter.DueBefore, err = parseDueDate(dueBefore); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if filter.DueAfter, err = parseDueDate(dueAfter); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// --completed / --blocked are tri-state: absent means no filter.
		if cmd.Flags().Changed("completed") {
			v, _ := cmd.Flags().GetBool("completed")
			filter.Completed = &v
		}
		if cmd.Flags().Changed("blocked") {
			v, _ := cmd.Flags().GetBool("blocked")
			filter.Blocked = &v
		}

		resp, err := tkClient.ListCards(context.Background(), brd, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printCardListTable(resp.Cards, resp.Total)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("column", "c", "", "filter by column id")
	listCmd.Flags().StringSliceP("priority", "p", nil, "filter by priority (repeatable)")
	listCmd.Flags().StringSliceP("tag", "t", nil, "filter by tag (repeatable, all must match)")
	listCmd.Flags().String("due-before", "", "cards due before this date")
	listCmd.Flags().String("due-after", "", "cards due after this date")
	listCmd.Flags().Bool("completed", false, "filter by completion state")
	listCmd.Flags().Bool("blocked", false, "filter by blocked state")
	listCmd.Flags().String("sort", "", "sort key: title, created_at, updated_at, priority, dueDate (prefix - for descending)")
	listCmd.Flags().Int("limit", 50, "maximum number of cards to return (0 = all)")
	listCmd.Flags().Int("offset", 0, "offset for pagination")
}
