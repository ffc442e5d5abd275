package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerTextLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelWarn)

	log.Info("should not appear")
	assert.Empty(t, buf.String())

	log.Warn("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)
	log.Info("hello", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestAppendCtxMergesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.Int("pictureNumber", 7))
	log.InfoContext(ctx, "decoded picture")

	assert.Contains(t, buf.String(), `"pictureNumber":7`)
}

func TestAppendCtxNoAttrsReturnsSameContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, AppendCtx(ctx))
}
