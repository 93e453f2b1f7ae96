package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"*"}, cfg.Origins())
	assert.Empty(t, cfg.Database.Replicas())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "host=localhost dbname=blog")
	t.Setenv("DATABASE_REPLICA_URLS", "host=r1, host=r2")
	t.Setenv("ACCEPTED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_ROTATION_MAX_SIZE", "64")
	t.Setenv("READ_TIMEOUT_SECONDS", "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=blog", cfg.Database.URL)
	assert.Equal(t, []string{"host=r1", "host=r2"}, cfg.Database.Replicas())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.Equal(t, 64, cfg.Log.Rotation.MaxSize)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	content := []byte("port: 7070\ndatabase:\n  driver: sqlite\n  url: ':memory:'\nlog:\n  level: debug\n  json: true\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, ":memory:", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.raw))
		})
	}
}
