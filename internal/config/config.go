package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Analyzer AnalyzerConfig
	Archive  ArchiveConfig
	S3       S3Config
	LogLevel string
}

type ServerConfig struct {
	Host         string
	Port         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AppConfig struct {
	UploadDir           string
	MaxUploadSize       int64
	KeepImageData       bool
	HistoryEnabled      bool
	PreviewMaxDimension int
}

type AnalyzerConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

type ArchiveConfig struct {
	Enabled bool
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetString("SERVER_PORT"),
			CORSOrigins:  splitList(v.GetString("SERVER_CORS_ORIGINS")),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		App: AppConfig{
			UploadDir:           v.GetString("APP_UPLOAD_DIR"),
			MaxUploadSize:       v.GetInt64("APP_MAX_UPLOAD_SIZE"),
			KeepImageData:       v.GetBool("APP_KEEP_IMAGE_DATA"),
			HistoryEnabled:      v.GetBool("APP_HISTORY_ENABLED"),
			PreviewMaxDimension: v.GetInt("APP_PREVIEW_MAX_DIMENSION"),
		},
		Analyzer: AnalyzerConfig{
			MinDelay: v.GetDuration("ANALYZER_MIN_DELAY"),
			MaxDelay: v.GetDuration("ANALYZER_MAX_DELAY"),
		},
		Archive: ArchiveConfig{
			Enabled: v.GetBool("ARCHIVE_ENABLED"),
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := createDirs(cfg); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_CORS_ORIGINS", "*")
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("APP_UPLOAD_DIR", "./uploads")
	v.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("APP_KEEP_IMAGE_DATA", true)
	v.SetDefault("APP_HISTORY_ENABLED", true)
	v.SetDefault("APP_PREVIEW_MAX_DIMENSION", 0)
	v.SetDefault("ANALYZER_MIN_DELAY", time.Second)
	v.SetDefault("ANALYZER_MAX_DELAY", 3*time.Second)
	v.SetDefault("ARCHIVE_ENABLED", false)
	v.SetDefault("S3_ENDPOINT", "localhost:9000")
	v.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	v.SetDefault("S3_USE_SSL", false)
	v.SetDefault("S3_BUCKET_NAME", "uploads")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("SERVER_PORT must not be empty")
	}
	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive, got %d", c.App.MaxUploadSize)
	}
	if c.App.PreviewMaxDimension < 0 {
		return fmt.Errorf("APP_PREVIEW_MAX_DIMENSION must not be negative, got %d", c.App.PreviewMaxDimension)
	}
	if c.Analyzer.MinDelay < 0 {
		return fmt.Errorf("ANALYZER_MIN_DELAY must not be negative, got %s", c.Analyzer.MinDelay)
	}
	if c.Analyzer.MaxDelay < c.Analyzer.MinDelay {
		return fmt.Errorf("ANALYZER_MAX_DELAY (%s) is below ANALYZER_MIN_DELAY (%s)",
			c.Analyzer.MaxDelay, c.Analyzer.MinDelay)
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("SERVER_CORS_ORIGINS entry %q must be * or an http(s) origin", origin)
		}
	}
	if c.Archive.Enabled && c.S3.BucketName == "" {
		return errors.New("S3_BUCKET_NAME is required when ARCHIVE_ENABLED is set")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func createDirs(cfg *Config) error {
	if err := os.MkdirAll(cfg.App.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", cfg.App.UploadDir, err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
