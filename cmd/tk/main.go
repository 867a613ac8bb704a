package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/client"
)

var (
	serverURL  string
	authToken  string
	boardID    string
	jsonOutput bool

	tkClient client.BoardClient
)

func defaultServer() string {
	if s := os.Getenv("TACKS_SERVER"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("TACKS_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

func defaultBoard() string {
	if b := os.Getenv("TACKS_BOARD"); b != "" {
		return b
	}
	return activeRemoteBoard()
}

var rootCmd = &cobra.Command{
	Use:   "tk <command>",
	Short: "CLI client for the tacks board service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		tkClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tkClient != nil {
			tkClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().StringVar(&boardID, "board", defaultBoard(), "board id for card commands")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "boards", Title: "Boards:"},
		&cobra.Group{ID: "cards", Title: "Cards:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Boards
	rootCmd.AddCommand(boardCmd)

	// Cards
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(batchCmd)

	// Views
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
