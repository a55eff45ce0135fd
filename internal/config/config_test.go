package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "unknown store driver",
			config: Config{
				Store: StoreConfig{Driver: "postgres"},
			},
			wantErr: true,
		},
		{
			name: "redis without address",
			config: Config{
				Store: StoreConfig{Driver: "redis"},
			},
			wantErr: true,
		},
		{
			name: "inbox without api key",
			config: Config{
				Inbox: InboxConfig{Enabled: true, Dir: "data/inbox"},
			},
			wantErr: true,
		},
		{
			name: "inbox without dir",
			config: Config{
				Inbox: InboxConfig{Enabled: true, APIKey: "k"},
			},
			wantErr: true,
		},
		{
			name: "negative concurrency",
			config: Config{
				Performance: PerformanceConfig{MaxConcurrent: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Store.Driver != "file" {
		t.Errorf("Store.Driver = %q, want file", cfg.Store.Driver)
	}
	if cfg.Gemini.TranscriptionModel != "gemini-1.5-flash" {
		t.Errorf("TranscriptionModel = %q", cfg.Gemini.TranscriptionModel)
	}
	if cfg.Gemini.SummaryModel != "gemini-1.5-pro" {
		t.Errorf("SummaryModel = %q", cfg.Gemini.SummaryModel)
	}
	if cfg.Gemini.RequestTimeout != 1800*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Gemini.RequestTimeout)
	}
	if cfg.Server.ReadTimeout != 30*time.Minute || cfg.Server.WriteTimeout != 30*time.Minute {
		t.Errorf("ReadTimeout/WriteTimeout = %v/%v, want 30m/30m", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Gemini.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %v", cfg.Gemini.PollInterval)
	}
	if cfg.Audio.MinOutputBytes != 1024 {
		t.Errorf("MinOutputBytes = %d", cfg.Audio.MinOutputBytes)
	}
	if cfg.Performance.MaxConcurrent != 0 {
		t.Errorf("MaxConcurrent = %d, want unlimited", cfg.Performance.MaxConcurrent)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
server:
  addr: ":9090"
  shutdown_timeout: 45s
  cors_origins:
    - "https://app.example.com"

store:
  driver: "sqlite"
  sqlite_path: "data/test.db"

gemini:
  transcription_model: "gemini-2.5-flash"
  poll_interval: 2s

performance:
  max_concurrent: 3

logging:
  level: "debug"
  format: "text"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %v, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 45*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 45s", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.SQLitePath != "data/test.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Gemini.TranscriptionModel != "gemini-2.5-flash" {
		t.Errorf("TranscriptionModel = %v", cfg.Gemini.TranscriptionModel)
	}
	if cfg.Gemini.SummaryModel != "gemini-1.5-pro" {
		t.Errorf("SummaryModel default not applied: %v", cfg.Gemini.SummaryModel)
	}
	if cfg.Gemini.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.Gemini.PollInterval)
	}
	if cfg.Performance.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", cfg.Performance.MaxConcurrent)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("MAX_CONCURRENT_JOBS", "4")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Server.Addr)
	}
	if cfg.Store.Driver != "redis" || cfg.Store.RedisAddr != "127.0.0.1:6379" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Performance.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %d, want 4", cfg.Performance.MaxConcurrent)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
