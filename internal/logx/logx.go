// Package logx wires this module's structured logging onto logiface, the
// same facade the rest of the teaching corpus standardizes on, instead of
// inventing another ad-hoc Logger interface.
package logx

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// Event is the concrete event type produced by the slog backend.
type Event = islog.Event

// Logger is the type every constructor in this module accepts via
// WithLogger options.
type Logger = logiface.Logger[*Event]

var global atomic.Pointer[Logger]

func init() {
	global.Store(New(slog.NewTextHandler(io.Discard, nil)))
}

// New builds a Logger backed by the given slog.Handler.
func New(h slog.Handler, opts ...logiface.Option[*Event]) *Logger {
	all := append([]logiface.Option[*Event]{islog.L.WithSlogHandler(h)}, opts...)
	return islog.L.New(all...)
}

// SetDefault replaces the package-wide fallback logger used by components
// constructed without an explicit WithLogger option.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	global.Store(l)
}

// Default returns the current package-wide fallback logger.
func Default() *Logger {
	return global.Load()
}
