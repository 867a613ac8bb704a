package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	HTTPAddr    string // TACKS_HTTP_ADDR (default ":8080")
	DataDir     string // TACKS_DATA_DIR (default "data"; file store root)
	DatabaseURL string // TACKS_DATABASE_URL (optional; PostgreSQL store when set)
	NATSURL     string // TACKS_NATS_URL (optional, empty = no events)
	AuthToken   string // TACKS_AUTH_TOKEN (optional, empty = auth disabled)

	// Sync settings
	SyncInterval   time.Duration // TACKS_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // TACKS_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // TACKS_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // TACKS_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // TACKS_SYNC_S3_KEY (default "tacks/boards.jsonl")
	SyncGitRepo    string        // TACKS_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // TACKS_SYNC_GIT_FILE (default "boards.jsonl")
	SyncGitBranch  string        // TACKS_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:       envOrDefault("TACKS_HTTP_ADDR", ":8080"),
		DataDir:        envOrDefault("TACKS_DATA_DIR", "data"),
		DatabaseURL:    os.Getenv("TACKS_DATABASE_URL"),
		NATSURL:        os.Getenv("TACKS_NATS_URL"),
		AuthToken:      os.Getenv("TACKS_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("TACKS_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("TACKS_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("TACKS_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("TACKS_SYNC_S3_KEY", "tacks/boards.jsonl"),
		SyncGitRepo:    os.Getenv("TACKS_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("TACKS_SYNC_GIT_FILE", "boards.jsonl"),
		SyncGitBranch:  envOrDefault("TACKS_SYNC_GIT_BRANCH", "main"),
	}

	intervalStr := envOrDefault("TACKS_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("TACKS_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
