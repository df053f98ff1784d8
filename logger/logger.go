package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It is a no-op until Initialize is called.
	Logger *zap.SugaredLogger
	// JSONOutput is set when Initialize selected the JSON encoder.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Options configures Initialize.
type Options struct {
	JSON      bool
	Verbosity int
	// Theme selects the console palette: "everforest" (default) or "gruvbox".
	Theme string
	// Writer receives log output; nil means stderr so stdout stays free for generated code.
	Writer io.Writer
}

// Initialize replaces the global logger.
func Initialize(opts Options) error {
	JSONOutput = opts.JSON
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	} else if theme := os.Getenv("FAKED_LOG_THEME"); theme != "" {
		SetTheme(theme)
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := VerbosityToLevel(opts.Verbosity)

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = newMinimalEncoder()
	}

	Logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)).Sugar()
	return nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}
