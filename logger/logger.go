package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const FormatPretty = "pretty"

// Logger wraps zerolog.Logger with a service name.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// Init initializes the global logger from config.
func Init(cfg Config, serviceName string) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, serviceName)
	log.Logger = globalLogger.logger
}

// New creates a new logger writing to the configured output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w instead of the configured output.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = zerolog.New(consoleWriter(cfg, w))
	} else {
		zl = zerolog.New(w).With().Str("service", serviceName).Logger()
	}
	zl = zl.Level(level)

	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}

	return &Logger{logger: zl, service: serviceName}
}

// NewDefault creates a console logger at info level.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// NewFromEnv creates a logger configured from LOG_* environment variables.
func NewFromEnv(serviceName string) *Logger {
	cfg := &Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Output:  os.Getenv("LOG_OUTPUT"),
		NoColor: os.Getenv("LOG_NO_COLOR") == "true",
	}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

type contextKey string

// RequestIDKey is the context key the control server stores request ids under.
const RequestIDKey contextKey = "request_id"

// WithContext returns a logger enriched with the request id carried by ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		return &Logger{logger: l.logger.With().Str(FieldRequestID, v).Logger(), service: l.service}
	}
	return l
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]any) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]any) {
	emit(l.logger.Error(), msg, fields)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, fields ...map[string]any) {
	emit(l.logger.Fatal(), msg, fields)
}

// --- Global logger ---

var globalLogger *Logger

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("voicenotes")
	}
	return globalLogger
}

// Package-level convenience functions delegate to the global logger.

func Debug(msg string, fields ...map[string]any) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { GetGlobalLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...map[string]any) { GetGlobalLogger().Fatal(msg, fields...) }

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// --- internal helpers ---

func emit(event *zerolog.Event, msg string, fields []map[string]any) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == "console" || f == FormatPretty
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

var levelTags = map[string]struct{ tag, color string }{
	"TRACE": {"[TRC]", "\033[90m"},
	"DEBUG": {"[DBG]", "\033[36m"},
	"INFO":  {"[INF]", "\033[32m"},
	"WARN":  {"[WRN]", "\033[33m"},
	"ERROR": {"[ERR]", "\033[31m"},
	"FATAL": {"[FTL]", "\033[35m"},
}

func consoleWriter(cfg *Config, w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i any) string {
			lvl := strings.ToUpper(fmt.Sprintf("%s", i))
			t, ok := levelTags[lvl]
			if !ok {
				return fmt.Sprintf("[%s]", lvl)
			}
			if cfg.NoColor {
				return t.tag
			}
			return t.color + t.tag + "\033[0m"
		},
		FormatFieldName: func(i any) string {
			return fmt.Sprintf("%s:", i)
		},
		FormatFieldValue: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
	}
}
