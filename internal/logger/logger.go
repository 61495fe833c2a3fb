// Package logger is a small encapsulation of go.uber.org/zap, in the style
// of the retrieved corpus's own logger packages. The parser core never
// imports this package; only cmd/gta3scfront and the diag.Reporter it wires
// up call into it.
package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/amykhaylyshyn/gta3sc/internal/config"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
)

// Logger is the process-wide structured logger, set by Init.
var Logger *zap.Logger

// SugarLogger is Logger's sugared counterpart, convenient for printf-style
// call sites.
var SugarLogger *zap.SugaredLogger

// Init builds Logger/SugarLogger from cfg. It must be called once at
// process start before any of the package-level helpers below are used.
func Init(cfg *config.LoggingConfig) error {
	level := new(zapcore.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		log.Panic(err)
		return err
	}

	encoder := newEncoder()
	writer := newWriteSyncer(cfg)
	core := zapcore.NewCore(encoder, writer, level)

	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	SugarLogger = Logger.Sugar()
	return nil
}

func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.SecondsDurationEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func newWriteSyncer(cfg *config.LoggingConfig) zapcore.WriteSyncer {
	rotator := &lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(rotator))
}

// Debug logs at DebugLevel.
func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }

// Info logs at InfoLevel.
func Info(msg string, fields ...zap.Field) { Logger.Info(msg, fields...) }

// Warn logs at WarnLevel.
func Warn(msg string, fields ...zap.Field) { Logger.Warn(msg, fields...) }

// Error logs at ErrorLevel.
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// With returns a child logger carrying the given structured fields.
func With(fields ...zap.Field) *zap.Logger { return Logger.With(fields...) }

// DiagReporter mirrors every diagnostic into the structured logger at a
// level matching its severity, then forwards it to Next (typically a
// diag.WriterReporter printing to stderr). This lets a batch run over many
// files produce both the caret-pointing text output and a greppable,
// aggregable structured log stream, without the parser core knowing
// logging exists.
type DiagReporter struct {
	Next diag.Reporter
}

func (r *DiagReporter) Report(d diag.Diagnostic) {
	fields := []zap.Field{
		zap.String("kind", d.Kind.String()),
		zap.Int("span_begin", d.Span.Begin),
		zap.Int("span_end", d.Span.End),
	}
	switch d.Severity {
	case diag.Warning:
		Warn(d.Message, fields...)
	default:
		Error(d.Message, fields...)
	}
	if r.Next != nil {
		r.Next.Report(d)
	}
}
