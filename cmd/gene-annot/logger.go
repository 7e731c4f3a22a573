package main

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the stderr console logger. Warnings only by default,
// info with --verbose, debug with --debug.
func newLogger() (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case viper.GetBool("debug"):
		level = zapcore.DebugLevel
	case viper.GetBool("verbose"):
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = level != zapcore.DebugLevel
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg.Build()
}
