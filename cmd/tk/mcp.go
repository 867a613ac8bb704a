package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/config"
	"github.com/alfredjeanlab/tacks/internal/mcp"
	"github.com/alfredjeanlab/tacks/internal/store"
	"github.com/alfredjeanlab/tacks/internal/store/file"
	"github.com/alfredjeanlab/tacks/internal/store/postgres"
)

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the MCP server on stdio",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the MCP protocol; everything else goes to stderr.
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var st store.Store
		if cfg.DatabaseURL != "" {
			st, err = postgres.New(context.Background(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
		} else {
			st, err = file.New(cfg.DataDir)
			if err != nil {
				return err
			}
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Error("error closing store", "err", err)
			}
		}()

		logger.Info("MCP server starting on stdio")
		if err := mcpserver.ServeStdio(mcp.NewServer(st)); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}
