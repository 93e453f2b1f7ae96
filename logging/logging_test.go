package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", JSON: true}, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("handlerName", "postHandler").Msg("hello")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "postHandler", entry["handlerName"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_ConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "debug", NoColor: true}, &buf)

	logger.Warn().Msg("careful")

	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "WRN")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.log")
	logger := New(config.LogConfig{
		Level: "info",
		File:  path,
		Rotation: config.RotationConfig{
			MaxSize:    1,
			MaxBackups: 1,
		},
	}, nil)

	logger.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}
