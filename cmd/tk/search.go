package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/model"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search cards by text query",
	GroupID: "cards",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		column, _ := cmd.Flags().GetString("column")
		priorities, _ := cmd.Flags().GetStringSlice("priority")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		sortKey, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := model.CardFilter{
			Search:   strings.Join(args, " "),
			ColumnID: column,
			Tags:     tags,
			Sort:     sortKey,
			Limit:    limit,
		}
		for _, p := range priorities {
			filter.Priority = append(filter.Priority, model.Priority(p))
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
	searchCmd.Flags().StringP("column", "c", "", "filter by column id")
	searchCmd.Flags().StringSliceP("priority", "p", nil, "filter by priority (repeatable)")
	searchCmd.Flags().StringSliceP("tag", "t", nil, "filter by tag (repeatable)")
	searchCmd.Flags().String("sort", "", "sort key (see 'tk list --help')")
	searchCmd.Flags().Int("limit", 50, "maximum number of results")
}
