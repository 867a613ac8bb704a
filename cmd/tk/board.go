package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/client"
	"github.com/alfredjeanlab/tacks/internal/model"
)

// requireBoard resolves the board for card commands: --board flag,
// TACKS_BOARD, or the active remote's default board.
func requireBoard() (string, error) {
	if boardID != "" {
		return boardID, nil
	}
	return "", fmt.Errorf("no board specified; use --board, TACKS_BOARD, or set a default on the active remote")
}

// boardArgOrDefault resolves an optional positional board id, falling
// back to the same chain as requireBoard.
func boardArgOrDefault(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return requireBoard()
}

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Manage boards",
	GroupID: "boards",
}

var boardCreateCmd = &cobra.Command{
	Use:   "create <project-name>",
	Short: "Create a new board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		columnNames, _ := cmd.Flags().GetStringArray("column")
		nextSteps, _ := cmd.Flags().GetStringArray("next-step")

		var columns []model.Column
		for _, name := range columnNames {
			columns = append(columns, model.Column{Name: name})
		}

		req := &client.CreateBoardRequest{
			ProjectName: args[0],
			Columns:     columns,
			NextSteps:   nextSteps,
		}
		b, err := tkClient.CreateBoard(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(b)
		} else {
			printBoardTable(b)
		}
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := tkClient.ListBoards(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printBoardListTable(resp.Boards, resp.Total)
		}
		return nil
	},
}

var boardShowCmd = &cobra.Command{
	Use:   "show [<board-id>]",
	Short: "Show a board as a kanban view",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := boardArgOrDefault(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		b, err := tkClient.GetBoard(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(b)
		} else {
			printBoardTable(b)
		}
		return nil
	},
}

var boardUpdateCmd = &cobra.Command{
	Use:   "update [<board-id>]",
	Short: "Update board name or next steps",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := boardArgOrDefault(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		req := &client.UpdateBoardRequest{}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.ProjectName = &name
		}
		if cmd.Flags().Changed("next-step") {
			steps, _ := cmd.Flags().GetStringArray("next-step")
			req.NextSteps = &steps
		}
		if cmd.Flags().Changed("clear-next-steps") {
			empty := []string{}
			req.NextSteps = &empty
		}
		if req.ProjectName == nil && req.NextSteps == nil {
			fmt.Fprintln(os.Stderr, "Error: nothing to update; pass --name or --next-step")
			os.Exit(1)
		}

		b, err := tkClient.UpdateBoard(context.Background(), id, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(b)
		} else {
			printBoardTable(b)
		}
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <board-id>",
	Short: "Delete a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tkClient.DeleteBoard(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	boardCreateCmd.Flags().StringArrayP("column", "c", nil, "column name (repeatable; defaults to To Do/In Progress/Done)")
	boardCreateCmd.Flags().StringArray("next-step", nil, "next-step note (repeatable)")

	boardUpdateCmd.Flags().String("name", "", "new project name")
	boardUpdateCmd.Flags().StringArray("next-step", nil, "replacement next-step note (repeatable)")
	boardUpdateCmd.Flags().Bool("clear-next-steps", false, "remove all next-step notes")

	boardCmd.AddCommand(boardCreateCmd, boardListCmd, boardShowCmd, boardUpdateCmd, boardDeleteCmd)
}
