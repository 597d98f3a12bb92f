package logging_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ppimap/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppimap.log")
	cfg := logging.DefaultConfig()
	cfg.Format = "json"
	cfg.Output = path

	logger, closeLog := logging.New(cfg)
	logger.Info().Int("self_interactions", 3).Msg("mapped")
	logger.Debug().Msg("hidden")
	require.NoError(t, closeLog())
	assert.ErrorIs(t, closeLog(), os.ErrClosed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"self_interactions":3`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_UnopenableFileFallsBackToStderr(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stderr := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = stderr })

	cfg := logging.DefaultConfig()
	cfg.Format = "json"
	cfg.Output = filepath.Join(t.TempDir(), "missing", "ppimap.log")

	logger, closeLog := logging.New(cfg)
	logger.Info().Msg("still logged")
	assert.NoError(t, closeLog())
	require.NoError(t, w.Close())

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	out := string(data)
	assert.Equal(t, 1, strings.Count(out, "cannot open log file"))
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "still logged")
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "warn")
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWriter(&buf, "info"))

	l := logging.FromContext(ctx)
	l.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	nop := logging.FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, nop.GetLevel())
}
