package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// InitLogger sets up the console logger. User-facing progress lines go to
// stdout via plain prints; this logger carries diagnostics on stderr.
// Debug mode lowers the level so per-attempt request detail shows up.
func InitLogger(debug bool) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	Logger = zap.New(core)
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger(false)
	}
	return Logger
}
