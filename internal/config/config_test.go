package config

import (
	"os"
	"testing"
	"time"
)

// allEnvVars lists every env var Load reads, so tests can clear them.
var allEnvVars = []string{
	"RELAY_DATABASE_URL", "RELAY_MONGO_URL", "RELAY_MONGO_DB",
	"RELAY_HTTP_ADDR", "RELAY_NATS_URL", "RELAY_AUTH_TOKEN",
	"RELAY_SYNC_INTERVAL", "RELAY_SYNC_S3_BUCKET", "RELAY_SYNC_S3_ENDPOINT",
	"RELAY_SYNC_S3_REGION", "RELAY_SYNC_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		// t.Setenv registers the restore; unset so Load sees absence, not
		// an empty value.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
		wantMongoDB  string
	}{
		{
			name:    "MissingBackend",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:    "BothBackends",
			env:     map[string]string{"RELAY_DATABASE_URL": "postgres://localhost/relay", "RELAY_MONGO_URL": "mongodb://localhost"},
			wantErr: true,
		},
		{
			name:         "PostgresDefaults",
			env:          map[string]string{"RELAY_DATABASE_URL": "postgres://localhost/relay"},
			wantHTTPAddr: ":4000",
			wantMongoDB:  "relay",
		},
		{
			name: "MongoBackend",
			env: map[string]string{
				"RELAY_MONGO_URL": "mongodb://localhost:27017",
				"RELAY_MONGO_DB":  "chat",
			},
			wantHTTPAddr: ":4000",
			wantMongoDB:  "chat",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"RELAY_DATABASE_URL": "postgres://db:5432/relay",
				"RELAY_HTTP_ADDR":    ":3000",
				"RELAY_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
			wantMongoDB:  "relay",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["RELAY_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["RELAY_DATABASE_URL"])
			}
			if cfg.MongoURL != tc.env["RELAY_MONGO_URL"] {
				t.Errorf("MongoURL = %q, want %q", cfg.MongoURL, tc.env["RELAY_MONGO_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
			if cfg.MongoDB != tc.wantMongoDB {
				t.Errorf("MongoDB = %q, want %q", cfg.MongoDB, tc.wantMongoDB)
			}
		})
	}
}

func TestLoadSyncDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncS3Region != "us-east-1" {
		t.Errorf("SyncS3Region = %q, want %q", cfg.SyncS3Region, "us-east-1")
	}
	if cfg.SyncS3Key != "relay/backup.jsonl" {
		t.Errorf("SyncS3Key = %q, want %q", cfg.SyncS3Key, "relay/backup.jsonl")
	}
}

func TestLoadSyncCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_SYNC_INTERVAL", "10m")
	t.Setenv("RELAY_SYNC_S3_BUCKET", "my-bucket")
	t.Setenv("RELAY_SYNC_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("RELAY_SYNC_S3_REGION", "eu-west-1")
	t.Setenv("RELAY_SYNC_S3_KEY", "custom/key.jsonl")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 10*time.Minute {
		t.Errorf("SyncInterval = %v, want 10m", cfg.SyncInterval)
	}
	if cfg.SyncS3Bucket != "my-bucket" {
		t.Errorf("SyncS3Bucket = %q", cfg.SyncS3Bucket)
	}
	if cfg.SyncS3Endpoint != "http://minio:9000" {
		t.Errorf("SyncS3Endpoint = %q", cfg.SyncS3Endpoint)
	}
	if cfg.SyncS3Region != "eu-west-1" {
		t.Errorf("SyncS3Region = %q", cfg.SyncS3Region)
	}
	if cfg.SyncS3Key != "custom/key.jsonl" {
		t.Errorf("SyncS3Key = %q", cfg.SyncS3Key)
	}
}

func TestLoadSyncInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_SYNC_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid RELAY_SYNC_INTERVAL")
	}
}

func TestLoadSyncDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_SYNC_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0 (disabled)", cfg.SyncInterval)
	}
}

func TestLoadSyncDisabledByEmptyInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_SYNC_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0 for a set-but-empty interval", cfg.SyncInterval)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
