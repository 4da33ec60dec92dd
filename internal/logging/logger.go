package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the process-wide sugared logger. Init must run before anything logs;
// until then L discards everything.
var L = zap.NewNop().Sugar()

// Init routes logs to stdout and to a rolling file. filePath may be empty
// to log to stdout only.
func Init(filePath string) error {
	return initLogger(filePath, true)
}

// InitFileOnly routes logs to a rolling file and nothing else, for
// programs that own the terminal.
func InitFileOnly(filePath string) error {
	return initLogger(filePath, false)
}

func initLogger(filePath string, stdout bool) error {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	var sinks []zapcore.WriteSyncer
	if stdout {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}
	if filePath != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}))
	}

	if len(sinks) == 0 {
		L = zap.NewNop().Sugar()
		return nil
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), zapcore.InfoLevel)
	L = zap.New(core, zap.AddCaller()).Sugar()
	return nil
}

// Sync flushes buffered log entries. Call it on shutdown.
func Sync() {
	_ = L.Sync()
}
