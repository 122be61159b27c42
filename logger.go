// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pacer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely; a render loop
// logging at Debug every step costs nothing when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. The render worker, the input goroutine
// and the lifecycle callbacks all log, so access is atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for pacer and its sub-packages.
// By default pacer produces no log output. Pass nil to restore that.
//
// Log levels used by pacer:
//   - [slog.LevelDebug]: per-step diagnostics (step delta, pointer snapshot)
//   - [slog.LevelInfo]: lifecycle (loop start/stop, renderer init/shutdown)
//   - [slog.LevelWarn]: dropped catch-up steps, stop timeouts, ignored input,
//     resource-release errors
//   - [slog.LevelError]: renderer failures that stopped the loop
//
// Example:
//
//	pacer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by pacer.
// Sub-packages (render/, config/) call this to share the configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
