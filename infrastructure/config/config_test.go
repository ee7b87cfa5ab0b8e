package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.True(t, cfg.IsDevelopment())
	assert.EqualValues(t, 25<<20, cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 400.0, cfg.Layout.CenterX)
	assert.Equal(t, 300.0, cfg.Layout.CenterY)
	assert.Equal(t, 200.0, cfg.Layout.Radius)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
	assert.False(t, cfg.UseSupabase())
	assert.False(t, cfg.UseObjectStorage())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "docspace.yaml", `
server:
  address: ":9000"
  cors_origins: ["https://app.example.com"]
cache:
  ttl: 1m
  lru_size: 32
layout:
  center_x: 500
  center_y: 400
  radius: 250
log_level: debug
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("LAYOUT_RADIUS", "100")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address, "environment wins over file")
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 32, cfg.Cache.LRUSize)
	assert.Equal(t, 500.0, cfg.Layout.CenterX)
	assert.Equal(t, 100.0, cfg.Layout.Radius)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "TAG_SERVICE_URL=http://localhost:5000\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n")
	t.Cleanup(func() {
		os.Unsetenv("TAG_SERVICE_URL")
		os.Unsetenv("CORS_ALLOWED_ORIGINS")
	})

	cfg, err := load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.Tags.ServiceURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown environment", map[string]string{"ENVIRONMENT": "qa"}},
		{"unknown log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bad supabase url", map[string]string{"SUPABASE_URL": "not a url"}},
		{"negative radius", map[string]string{"LAYOUT_RADIUS": "-1"}},
		{"production without supabase", map[string]string{"ENVIRONMENT": "production"}},
		{"production without key", map[string]string{"ENVIRONMENT": "production", "SUPABASE_URL": "https://x.supabase.co"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Production(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SUPABASE_URL", "https://x.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UseSupabase())
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", writeFile(t, dir, "bad.yaml", "server: [unclosed"))

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.yaml"))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestReadLogLevel(t *testing.T) {
	dir := t.TempDir()

	level, err := ReadLogLevel(writeFile(t, dir, "a.yaml", "log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = ReadLogLevel(writeFile(t, dir, "b.yaml", "server: {}\n"))
	assert.Error(t, err)
}

func TestLogLevelWatcher_AppliesChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "docspace.yaml", "log_level: info\n")
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	w, err := NewLogLevelWatcher(path, level, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))
	assert.Eventually(t, func() bool {
		return level.Level() == zapcore.DebugLevel
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("log_level: [broken\n"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, zapcore.DebugLevel, level.Level(), "bad files are ignored")
}
