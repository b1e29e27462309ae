package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. Console lines below Warn go to stdout,
// Warn and above to stderr; everything is also written as JSON to a
// rotated file under logDir. Each line carries appName as the logger name.
func New(appName, logDir, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, appName+".log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.TimeKey = "ts"
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := zap.NewProductionEncoderConfig()
	consoleCfg.TimeKey = "ts"
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("<" + name + ">")
	}

	return newLogger(appName, lvl,
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), file, lvl),
		zapcore.NewConsoleEncoder(consoleCfg),
		zapcore.Lock(os.Stdout),
		zapcore.Lock(os.Stderr),
	), nil
}

func newLogger(appName string, lvl zapcore.Level, file zapcore.Core, enc zapcore.Encoder, out, errOut zapcore.WriteSyncer) *zap.Logger {
	normal := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= lvl && l < zapcore.WarnLevel
	})
	failures := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= lvl && l >= zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		file,
		zapcore.NewCore(enc, out, normal),
		zapcore.NewCore(enc.Clone(), errOut, failures),
	)
	return zap.New(core).Named(appName)
}
