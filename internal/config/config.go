package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // RELAY_DATABASE_URL (postgres backend)
	MongoURL    string // RELAY_MONGO_URL (mongo backend)
	MongoDB     string // RELAY_MONGO_DB (default "relay")
	HTTPAddr    string // RELAY_HTTP_ADDR (default ":4000")
	NATSURL     string // RELAY_NATS_URL (optional, empty = no events)
	AuthToken   string // RELAY_AUTH_TOKEN (optional, empty = auth disabled)

	// Sync settings
	SyncInterval   time.Duration // RELAY_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // RELAY_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // RELAY_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // RELAY_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // RELAY_SYNC_S3_KEY (default "relay/backup.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("RELAY_DATABASE_URL"),
		MongoURL:       os.Getenv("RELAY_MONGO_URL"),
		MongoDB:        envOrDefault("RELAY_MONGO_DB", "relay"),
		HTTPAddr:       envOrDefault("RELAY_HTTP_ADDR", ":4000"),
		NATSURL:        os.Getenv("RELAY_NATS_URL"),
		AuthToken:      os.Getenv("RELAY_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("RELAY_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("RELAY_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("RELAY_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("RELAY_SYNC_S3_KEY", "relay/backup.jsonl"),
	}
	if c.DatabaseURL == "" && c.MongoURL == "" {
		return nil, fmt.Errorf("one of RELAY_DATABASE_URL or RELAY_MONGO_URL is required")
	}
	if c.DatabaseURL != "" && c.MongoURL != "" {
		return nil, fmt.Errorf("RELAY_DATABASE_URL and RELAY_MONGO_URL are mutually exclusive")
	}

	// A set-but-empty interval disables sync explicitly; unset means the
	// default cadence.
	intervalStr, ok := os.LookupEnv("RELAY_SYNC_INTERVAL")
	if !ok {
		intervalStr = "3m"
	}
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("RELAY_SYNC_INTERVAL: %w", err)
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
