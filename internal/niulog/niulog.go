// Package niulog is this module's diagnostics surface: structured logging
// for parse failures and pass-level decisions, grounded on the teacher's
// logger.Msg/MsgLocation shape but built on zap (SPEC_FULL.md §2.2) rather
// than the teacher's own hand-rolled terminal-color logger, since
// dphaener-conduit's use of zap is the stack this module follows for
// structured logging (see DESIGN.md).
package niulog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Location mirrors the teacher's logger.MsgLocation: enough to point a
// reader at the offending byte range without re-deriving it from the AST.
type Location struct {
	Line   int
	Column int
	Length int
	Text   string
}

// Logger wraps a *zap.Logger with the handful of call sites this module's
// pipeline needs, so internal/minify and cmd/niu never import zap directly.
type Logger struct {
	z *zap.Logger
}

// New builds a production-style console logger. verbose raises the level
// to debug, which surfaces per-pass hoist/mangle decisions; otherwise only
// warnings and errors are emitted, matching the teacher's default quietness
// for a CLI tool invoked in a build pipeline.
func New(verbose bool) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := cfg.Build()
	if err != nil {
		// zap.Config.Build only fails on a malformed encoder/output
		// configuration, never at runtime on real input; the config above is
		// fixed and known-good, so this can only mean a programmer error.
		panic("niulog: " + err.Error())
	}
	return &Logger{z: z}
}

// Sync flushes any buffered log entries; callers should defer this from
// main after New.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}

func (l *Logger) ParseError(loc Location, msg string) {
	l.z.Error("parse error",
		zap.Int("line", loc.Line),
		zap.Int("column", loc.Column),
		zap.String("near", loc.Text),
		zap.String("reason", msg),
	)
}

func (l *Logger) PassDecision(pass string, detail string, fields ...zap.Field) {
	l.z.Debug(detail, append([]zap.Field{zap.String("pass", pass)}, fields...)...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.z.Warn(msg, fields...)
}
