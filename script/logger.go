package script

import "go.uber.org/zap"

// Logger is an optional interface for observability during execution.
// Implementations receive one line per pipeline step of every submission.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
// - Ownership: format/args are read-only.
type Logger interface {
	// Logf logs a formatted message.
	Logf(format string, args ...any)
}

// ZapLogger adapts a zap logger to Logger. Messages are logged at debug
// level.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l yields a no-op logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

// Logf logs at debug level.
func (z *ZapLogger) Logf(format string, args ...any) {
	z.sugar.Debugf(format, args...)
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...any) {}

// syncer is implemented by loggers that buffer output.
type syncer interface {
	Sync() error
}
