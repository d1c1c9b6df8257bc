package rasterkit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package-wide logger. Accessed atomically so that
// SetLogger can be called while engines are running.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by engines and sessions that were
// not given one explicitly. By default rasterkit produces no log output.
// Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-step timings and dimensions
//   - [slog.LevelWarn]: rejected steps
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
