package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Zap struct {
	*zap.Logger
}

type options struct {
	file       string
	maxSizeMB  int
	maxBackups int
	console    zapcore.WriteSyncer
}

type Option func(*options)

// WithFile tees JSON output into a rotating file.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithConsole replaces stderr as the console sink.
func WithConsole(w zapcore.WriteSyncer) Option {
	return func(o *options) {
		o.console = w
	}
}

func New(env, level string, opts ...Option) (*Zap, error) {
	o := options{
		maxSizeMB:  50,
		maxBackups: 3,
		console:    zapcore.Lock(os.Stderr),
	}
	for _, opt := range opts {
		opt(&o)
	}

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var encCfg zapcore.EncoderConfig
	var consoleEnc zapcore.Encoder
	if env == "prod" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{zapcore.NewCore(consoleEnc, o.console, lvl)}

	if o.file != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), fileWriter, lvl))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return &Zap{Logger: l}, nil
}

// Nop is used by tests and by components constructed without a logger.
func Nop() *Zap {
	return &Zap{Logger: zap.NewNop()}
}
