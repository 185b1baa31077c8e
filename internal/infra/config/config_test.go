package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inEmptyDir runs the test from a directory without config.yaml or .env.
func inEmptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	inEmptyDir(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "./train.csv", cfg.Dataset.Path)
	assert.False(t, cfg.Dataset.DropFamilySources)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := inEmptyDir(t)

	yaml := "dataset:\n  path: from-yaml.csv\n  drop_family_sources: true\nserver:\n  port: 7000\n  host: 127.0.0.1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7100\nLOG_LEVEL=debug\n"), 0o644))

	t.Setenv("PORT", "7200")
	// godotenv writes into the process environment; clear what the test introduces
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--dataset.path=from-flag.csv"}))

	cfg, err := LoadConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.csv", cfg.Dataset.Path)
	assert.True(t, cfg.Dataset.DropFamilySources)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 7200, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigDatasetPathFromEnv(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("DATASET_PATH", "https://example.com/train.csv")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/train.csv", cfg.Dataset.Path)
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("PORT", "70000")

	_, err := LoadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Dataset: DatasetConfig{Path: "train.csv", FetchTimeout: 30, MaxRetries: 3},
		Server:  ServerConfig{Host: "0.0.0.0", Port: 5000, RateLimit: 10, RateBurst: 20},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty path", mutate: func(c *Config) { c.Dataset.Path = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Dataset.FetchTimeout = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.Dataset.MaxRetries = -1 }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "no rate limit", mutate: func(c *Config) { c.Server.RateLimit = 0 }, wantErr: true},
		{name: "no burst", mutate: func(c *Config) { c.Server.RateBurst = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := validateConfig(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
