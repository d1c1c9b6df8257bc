package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCtxAddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("run", "a"))
	ctx = AppendCtx(ctx, slog.Group("rasterctl", slog.String("git", "abc")))
	logger.With(slog.Int("n", 1)).InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "a", rec["run"])
	assert.EqualValues(t, 1, rec["n"])
	assert.Equal(t, map[string]any{"git": "abc"}, rec["rasterctl"])
}

func TestLoggerLevelAndText(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, false, slog.LevelWarn)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.WithGroup("g").Warn("kept", slog.String("k", "v"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "g.k=v")
}

func TestAppendCtxDoesNotShareSlices(t *testing.T) {
	base := AppendCtx(context.Background(), slog.String("a", "1"))
	left := AppendCtx(base, slog.String("b", "2"))
	right := AppendCtx(base, slog.String("c", "3"))

	assert.Len(t, left.Value(ctxKey{}), 2)
	assert.Equal(t, "c", right.Value(ctxKey{}).([]slog.Attr)[1].Key)
	assert.Equal(t, "b", left.Value(ctxKey{}).([]slog.Attr)[1].Key)
}

func TestRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rasterctl.log")
	w := RotatingWriter(path, 1, 2)
	logger := Logger(w, true, slog.LevelDebug)
	logger.Debug("to file")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}
