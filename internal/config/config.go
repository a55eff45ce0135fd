package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Store       StoreConfig       `yaml:"store"`
	Paths       PathsConfig       `yaml:"paths"`
	Audio       AudioConfig       `yaml:"audio"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Performance PerformanceConfig `yaml:"performance"`
	Inbox       InboxConfig       `yaml:"inbox"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type StoreConfig struct {
	// Driver selects the job store: file, redis, sqlite or memory.
	Driver        string `yaml:"driver"`
	Dir           string `yaml:"dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
	SQLitePath    string `yaml:"sqlite_path"`
}

type PathsConfig struct {
	Temp string `yaml:"temp"`
}

type AudioConfig struct {
	FFmpegPath     string `yaml:"ffmpeg_path"`
	FFprobePath    string `yaml:"ffprobe_path"`
	Bitrate        string `yaml:"bitrate"`
	MinOutputBytes int64  `yaml:"min_output_bytes"`
}

type GeminiConfig struct {
	BaseURL            string        `yaml:"base_url"`
	TranscriptionModel string        `yaml:"transcription_model"`
	SummaryModel       string        `yaml:"summary_model"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	PollInterval       time.Duration `yaml:"poll_interval"`
}

type PerformanceConfig struct {
	// MaxConcurrent caps running pipelines; 0 means unlimited.
	MaxConcurrent int `yaml:"max_concurrent"`
}

type InboxConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	APIKey  string `yaml:"api_key"`
	Subject string `yaml:"subject"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path starts from defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Dir = getEnv("JOBS_DIR", c.Store.Dir)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvInt("REDIS_DB", c.Store.RedisDB)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)
	c.Paths.Temp = getEnv("TEMP_DIR", c.Paths.Temp)
	c.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", c.Gemini.BaseURL)
	c.Performance.MaxConcurrent = getEnvInt("MAX_CONCURRENT_JOBS", c.Performance.MaxConcurrent)
	c.Inbox.APIKey = getEnv("INBOX_API_KEY", c.Inbox.APIKey)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "":
		c.Store.Driver = "file"
	case "file", "redis", "sqlite", "memory":
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}
	if c.Store.Driver == "redis" && c.Store.RedisAddr == "" {
		return fmt.Errorf("store.redis_addr is required for the redis driver")
	}
	if c.Inbox.Enabled {
		if c.Inbox.Dir == "" {
			return fmt.Errorf("inbox.dir is required when inbox is enabled")
		}
		if c.Inbox.APIKey == "" {
			return fmt.Errorf("inbox.api_key is required when inbox is enabled")
		}
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must not be negative")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	// Both timeouts span the upload body, so they must cover a max_upload_mb
	// lecture on a slow link.
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Minute
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 1024
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "data/jobs"
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = "diario:jobs"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/jobs.db"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Audio.FFmpegPath == "" {
		c.Audio.FFmpegPath = "ffmpeg"
	}
	if c.Audio.FFprobePath == "" {
		c.Audio.FFprobePath = "ffprobe"
	}
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = "192k"
	}
	if c.Audio.MinOutputBytes == 0 {
		c.Audio.MinOutputBytes = 1024
	}
	if c.Gemini.TranscriptionModel == "" {
		c.Gemini.TranscriptionModel = "gemini-1.5-flash"
	}
	if c.Gemini.SummaryModel == "" {
		c.Gemini.SummaryModel = "gemini-1.5-pro"
	}
	if c.Gemini.RequestTimeout == 0 {
		c.Gemini.RequestTimeout = 1800 * time.Second
	}
	if c.Gemini.PollInterval == 0 {
		c.Gemini.PollInterval = 10 * time.Second
	}
	if c.Inbox.Subject == "" {
		c.Inbox.Subject = "N/A"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
