package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	t.Setenv("APP_UPLOAD_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxUploadSize)
	assert.True(t, cfg.App.KeepImageData)
	assert.True(t, cfg.App.HistoryEnabled)
	assert.Equal(t, 0, cfg.App.PreviewMaxDimension)
	assert.Equal(t, time.Second, cfg.Analyzer.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.Analyzer.MaxDelay)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.DirExists(t, dir)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_UPLOAD_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("APP_KEEP_IMAGE_DATA", "false")
	t.Setenv("APP_HISTORY_ENABLED", "false")
	t.Setenv("ANALYZER_MIN_DELAY", "0s")
	t.Setenv("ANALYZER_MAX_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.App.KeepImageData)
	assert.False(t, cfg.App.HistoryEnabled)
	assert.Equal(t, time.Duration(0), cfg.Analyzer.MinDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Analyzer.MaxDelay)
}

func TestLoadRejectsInvertedDelay(t *testing.T) {
	t.Setenv("APP_UPLOAD_DIR", t.TempDir())
	t.Setenv("ANALYZER_MIN_DELAY", "5s")
	t.Setenv("ANALYZER_MAX_DELAY", "1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYZER_MAX_DELAY")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			App:      AppConfig{MaxUploadSize: 1},
			Analyzer: AnalyzerConfig{MinDelay: time.Second, MaxDelay: time.Second},
			S3:       S3Config{BucketName: "uploads"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "zero upload size", mutate: func(c *Config) { c.App.MaxUploadSize = 0 }, wantErr: true},
		{name: "negative preview", mutate: func(c *Config) { c.App.PreviewMaxDimension = -1 }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.Analyzer.MinDelay = -time.Second }, wantErr: true},
		{name: "bad cors origin", mutate: func(c *Config) { c.Server.CORSOrigins = []string{"ui.example"} }, wantErr: true},
		{name: "archive without bucket", mutate: func(c *Config) {
			c.Archive.Enabled = true
			c.S3.BucketName = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
