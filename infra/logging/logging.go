// Package logging builds the process logger. Logs go to stderr so they
// never interleave with result lines on stdout.
package logging

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at the given level ("debug", "info", ...).
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build(zap.AddCaller())
}

// ErrorSink records rejected input. Each entry names the source location
// where the error was raised, falling back to the caller of Report.
type ErrorSink struct {
	log *zap.Logger
}

func NewErrorSink(log *zap.Logger) *ErrorSink {
	return &ErrorSink{log: log.WithOptions(zap.AddCallerSkip(1))}
}

// Report logs msg together with err's origin.
func (s *ErrorSink) Report(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if source, ok := Source(err); ok {
		fields = append(fields, zap.String("source", source))
	}
	s.log.Error(msg, fields...)
}

// Source returns file:line of the innermost frame recorded in err.
func Source(err error) (string, bool) {
	file, line, _, ok := errors.GetOneLineSource(err)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s:%d", file, line), true
}
