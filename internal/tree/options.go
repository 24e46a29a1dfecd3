package gtree

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// HardDepthCeiling is the absolute maximum traversal depth. It bounds the
// frame stack and the per-frame ancestry bitmap regardless of what the
// caller asks for.
const HardDepthCeiling = 1024

// MinDepth is the smallest usable depth limit.
const MinDepth = 2

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Options configures a tree walk.
type Options struct {
	// MaxDepth is the deepest level a frame may be created at. Values are
	// clamped to [MinDepth, HardDepthCeiling]; zero means HardDepthCeiling.
	MaxDepth int

	FollowLinks bool // descend into symlinked directories
	ShowHidden  bool // include dot-prefixed entries
	ShowFiles   bool // list individual files
	ShowStats   bool // per-directory [Files: N] [Size: H] suffix
	Color       bool // colorize file names (implies ShowFiles)

	Filter FilterOptions

	Logger   *zap.Logger
	LogLevel LogLevel
}

// normalize clamps the depth bound and resolves implied flags.
func (o Options) normalize() Options {
	if o.MaxDepth == 0 {
		o.MaxDepth = HardDepthCeiling
	}
	if o.MaxDepth < MinDepth {
		o.MaxDepth = MinDepth
	}
	if o.MaxDepth > HardDepthCeiling {
		o.MaxDepth = HardDepthCeiling
	}
	if o.Color {
		o.ShowFiles = true
	}
	return o
}

// createLogger creates a zap logger with the specified log level.
func createLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelError:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case LogLevelWarn:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelDebug:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, _ := config.Build()
	return logger
}
