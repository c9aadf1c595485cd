package aurora

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/aurora/internal/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip record construction entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. Accessed atomically so SetLogger
// may race with frame callbacks running on the host's render thread.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by aurora widgets that were not
// given their own logger through [WithLogger], and by the GPU pipeline. By default aurora is silent.
// Pass nil to restore the silent default.
//
// Log levels used by aurora:
//   - [slog.LevelDebug]: resize and program diagnostics
//   - [slog.LevelInfo]: lifecycle events (initialized, destroyed)
//   - [slog.LevelWarn]: invalid color stops replaced by the default color
//   - [slog.LevelError]: missing container, no graphics, frame failures
//
// Example:
//
//	aurora.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current package logger. Sub-packages (config,
// host/window) call this to share the configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
