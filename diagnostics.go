package docmap

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagnosticSink receives recoverable issues, such as unknown properties
// under UnknownWarn. Implementations must be safe for concurrent use.
type DiagnosticSink interface {
	Warn(Issue)
}

// SinkFunc adapts a function to DiagnosticSink.
type SinkFunc func(Issue)

func (f SinkFunc) Warn(is Issue) { f(is) }

// NopSink discards every issue.
var NopSink DiagnosticSink = SinkFunc(func(Issue) {})

// ZapSink logs issues at warn level. A nil logger resolves zap.L() on every
// call so later zap.ReplaceGlobals take effect; while the global logger is
// still zap's no-op, issues go to stderr instead.
func ZapSink(l *zap.Logger) DiagnosticSink { return zapSink{log: l} }

type zapSink struct{ log *zap.Logger }

func (s zapSink) Warn(is Issue) {
	l := s.log
	if l == nil {
		l = defaultLogger()
	}
	fields := []zap.Field{zap.String("code", is.Code), zap.String("path", is.Path)}
	if is.Hint != "" {
		fields = append(fields, zap.String("hint", is.Hint))
	}
	if len(is.Params) > 0 {
		fields = append(fields, zap.Any("params", is.Params))
	}
	l.Warn(is.Message, fields...)
}

func defaultLogger() *zap.Logger {
	if g := zap.L(); g.Core().Enabled(zap.WarnLevel) {
		return g
	}
	return stderrLogger()
}

var stderrLogger = sync.OnceValue(func() *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zap.WarnLevel)
	return zap.New(core).Named("docmap")
})
