// Package logging builds the zap logger the filter reports through.
// Output goes to standard error in pandoc's filter convention: one line per
// message, prefixed with the program name, no timestamps.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Name prefixes every message.
const Name = "pandoc-eqnos"

// LevelFor maps a warning level (0 none, 1 some, 2 all) to the lowest zap
// level that is written. ok is false when nothing should be written.
func LevelFor(warningLevel int) (zapcore.Level, bool) {
	switch {
	case warningLevel <= 0:
		return zapcore.InvalidLevel, false
	case warningLevel == 1:
		return zapcore.WarnLevel, true
	default:
		return zapcore.InfoLevel, true
	}
}

// New returns a logger writing to w at the given warning level. Level 2
// adds informational notes to the warnings written at level 1; level 0
// returns a no-op logger.
func New(w io.Writer, warningLevel int) *zap.Logger {
	level, ok := LevelFor(warningLevel)
	if !ok {
		return zap.NewNop()
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Named(Name)
}
