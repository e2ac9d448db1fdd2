package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv names the environment variable consulted when no level is given.
const LevelEnv = "CSVLEDGER_LOG_LEVEL"

// DefaultLevel keeps normal runs quiet: only warnings and errors.
const DefaultLevel = "warn"

// New builds a console logger writing to w. An empty level falls back to
// $CSVLEDGER_LOG_LEVEL and then DefaultLevel.
func New(w io.Writer, level string) (*zap.Logger, error) {
	if level == "" {
		level = os.Getenv(LevelEnv)
	}
	if level == "" {
		level = DefaultLevel
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}
