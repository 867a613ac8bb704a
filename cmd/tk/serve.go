package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/config"
	"github.com/alfredjeanlab/tacks/internal/events"
	"github.com/alfredjeanlab/tacks/internal/server"
	"github.com/alfredjeanlab/tacks/internal/store"
	"github.com/alfredjeanlab/tacks/internal/store/file"
	"github.com/alfredjeanlab/tacks/internal/store/postgres"
	tacksync "github.com/alfredjeanlab/tacks/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the tacks HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Postgres when configured, otherwise the file store.
		var st store.Store
		if cfg.DatabaseURL != "" {
			st, err = postgres.New(context.Background(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			logger.Info("using postgres store")
		} else {
			st, err = file.New(cfg.DataDir)
			if err != nil {
				return err
			}
			logger.Info("using file store", "dir", cfg.DataDir)
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (TACKS_NATS_URL not set)")
		}

		boardServer := server.NewBoardServer(st, publisher)
		handler := server.LoggingMiddleware(server.RecoveryMiddleware(boardServer.NewHTTPHandler(cfg.AuthToken)))
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: handler,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start sync scheduler if any destinations are configured.
		var scheduler *tacksync.Scheduler
		if cfg.SyncInterval > 0 {
			var dests []tacksync.Destination

			if cfg.SyncS3Bucket != "" {
				s3Dest, err := tacksync.NewS3Destination(context.Background(), tacksync.S3Config{
					Bucket:   cfg.SyncS3Bucket,
					Key:      cfg.SyncS3Key,
					Region:   cfg.SyncS3Region,
					Endpoint: cfg.SyncS3Endpoint,
				})
				if err != nil {
					logger.Error("failed to create S3 sync destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
				}
			}

			if cfg.SyncGitRepo != "" {
				gitDest := tacksync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
				dests = append(dests, gitDest)
				logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
			}

			if len(dests) > 0 {
				scheduler = tacksync.NewScheduler(st, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		logger.Info("tacks server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
