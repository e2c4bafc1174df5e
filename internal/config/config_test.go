package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Crawler.Workers)
	assert.Equal(t, 0, cfg.Crawler.MaxPages)
	assert.Equal(t, 10*time.Second, cfg.Crawler.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Crawler.MaxElapsed)
	assert.Equal(t, "linkmapper/1.0", cfg.Crawler.UserAgent)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
crawler:
  workers: 3
  max_pages: 50
  timeout: 2s
output:
  format: csv
  dir: /tmp/out
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Crawler.Workers)
	assert.Equal(t, 50, cfg.Crawler.MaxPages)
	assert.Equal(t, 2*time.Second, cfg.Crawler.Timeout)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)

	// Unset keys keep their defaults.
	assert.Equal(t, "linkmapper/1.0", cfg.Crawler.UserAgent)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.Crawler.Workers = 0 }, wantErr: true},
		{name: "negative max pages", mutate: func(c *Config) { c.Crawler.MaxPages = -1 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Crawler.Timeout = 0 }, wantErr: true},
		{name: "negative rps", mutate: func(c *Config) { c.Crawler.RequestsPerSecond = -1 }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "yaml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
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
