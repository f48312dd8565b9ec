package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type loggerKey struct{}

// Options control where and how fixbin logs.
type Options struct {
	Level       zapcore.LevelEnabler
	File        string // optional, rotated by lumberjack
	MaxFileSize int    // megabytes
	MaxFiles    int
	JSON        bool
}

func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// New builds a logger writing to stderr and, if opts.File is set, to a rotated file.
// The file always receives debug logs.
func New(opts Options) *zap.Logger {
	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	level := opts.Level
	if level == nil {
		level = zap.InfoLevel
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)}

	if opts.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxFileSize,
			MaxBackups: opts.MaxFiles,
			MaxAge:     28,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileLogger), zap.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}
