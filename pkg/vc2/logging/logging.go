// Package logging builds the slog.Logger used across pkg/vc2/codec and
// cmd/vc2ctl, following the same SetDefault-at-startup, context-carried
// attribute pattern as the teacher's cmd/ctl.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger builds a slog.Logger writing to w, either as JSON or as
// human-readable text, at the given level. Source info is attached only
// when level is Debug or lower, matching how verbose runs want
// call-site detail and quiet ones don't want the noise.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(&ctxHandler{Handler: h})
}

// RotatingWriter wraps path in a lumberjack.Logger so long decode/encode
// runs don't grow an unbounded trace file.
func RotatingWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// AppendCtx returns a context carrying extra attrs that ctxHandler
// merges into every record logged through it, so a picture's
// diagnostic trail ("resynchronising", "field format mismatch") can
// carry a run-scoped attribute like pictureNumber without every call
// site re-stating it.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	existing, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// ctxHandler adds any attrs stashed via AppendCtx to each record before
// delegating to the wrapped handler.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithGroup(name)}
}
