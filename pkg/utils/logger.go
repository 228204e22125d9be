package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string // debug, info, warn, error
	OutputPath string // stdout, stderr, or file path
	Format     string // json or console
}

// NewLogger creates a new structured logger
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var writeSyncer zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "stdout", "":
		writeSyncer = zapcore.AddSync(os.Stdout)
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	default:
		dir := filepath.Dir(cfg.OutputPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		file, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		writeSyncer = zapcore.AddSync(file)
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewCLILogger logs warnings and above to stderr so command output stays clean
func NewCLILogger(verbose bool) (*zap.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return NewLogger(LoggerConfig{
		Level:      level,
		OutputPath: "stderr",
		Format:     "console",
	})
}

// KVLogger adapts a zap.Logger to the minimal Info/Error(msg, keysAndValues...)
// interface the application packages depend on.
type KVLogger struct {
	logger *zap.Logger
}

// NewKVLogger wraps logger; a nil logger discards everything
func NewKVLogger(logger *zap.Logger) *KVLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVLogger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (l *KVLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toZapFields(keysAndValues...)...)
}

func (l *KVLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toZapFields(keysAndValues...)...)
}

func (l *KVLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toZapFields(keysAndValues...)...)
}

// toZapFields converts key-value pairs to zap fields, skipping non-string keys
func toZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
