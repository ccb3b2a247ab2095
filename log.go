package tablewriter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type contextKey string

const (
	// WriterIDKey carries the writer id. It is logged as writer_id.
	WriterIDKey contextKey = "writer_id"
	// TableKey carries the target table. It is logged as table.
	TableKey contextKey = "table"

	// debugKey marks the context of a writer opened with Config.Debug. Such a
	// writer logs at debug level whatever the package level is.
	debugKey contextKey = "debug"
)

var logKeys = [...]contextKey{WriterIDKey, TableKey}

// ContextLogger is a logger bound to one writer.
type ContextLogger interface {
	Debugf(format string, args ...interface{})
	Infoln(args ...interface{})
	Errorln(args ...interface{})
}

// Logger is the package logger. Every writer takes a ContextLogger from it
// when it is created.
type Logger interface {
	SetLogLevel(level string) error
	SetOutput(output io.Writer)
	WithContext(ctx context.Context) ContextLogger
}

type slogLogger struct {
	mu    sync.RWMutex
	level *slog.LevelVar
	out   io.Writer
}

// CreateDefaultLogger returns a text logger writing to stderr at info level.
func CreateDefaultLogger() Logger {
	return &slogLogger{level: &slog.LevelVar{}, out: os.Stderr}
}

// SetLogLevel sets the level of writers not opened in debug mode.
func (l *slogLogger) SetLogLevel(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	l.level.Set(lvl)
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
}

// SetOutput redirects loggers created afterwards.
func (l *slogLogger) SetOutput(output io.Writer) {
	if output == nil {
		return
	}
	l.mu.Lock()
	l.out = output
	l.mu.Unlock()
}

// WithContext returns a logger tagged with the writer id and table in ctx.
func (l *slogLogger) WithContext(ctx context.Context) ContextLogger {
	var level slog.Leveler = l.level
	if debug, _ := contextValue(ctx, debugKey).(bool); debug {
		level = slog.LevelDebug
	}
	l.mu.RLock()
	out := l.out
	l.mu.RUnlock()

	inner := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		inner = inner.With(attrs...)
	}
	return &contextLogger{inner: inner}
}

func contextValue(ctx context.Context, key contextKey) interface{} {
	if ctx == nil {
		return nil
	}
	return ctx.Value(key)
}

func contextAttrs(ctx context.Context) []interface{} {
	var attrs []interface{}
	for _, key := range logKeys {
		if v := contextValue(ctx, key); v != nil {
			attrs = append(attrs, slog.Any(string(key), v))
		}
	}
	return attrs
}

// SetLogger replaces the package logger. Writers already open keep theirs.
func SetLogger(inLogger Logger) {
	if inLogger == nil {
		return
	}
	logger = inLogger
}

// GetLogger returns the package logger
func GetLogger() Logger {
	return logger
}

var logger = CreateDefaultLogger()

func init() {
	_ = logger.SetLogLevel("error")
}

type contextLogger struct {
	inner *slog.Logger
}

func (c *contextLogger) Debugf(format string, args ...interface{}) {
	c.inner.Debug(fmt.Sprintf(format, args...))
}

func (c *contextLogger) Infoln(args ...interface{}) {
	c.inner.Info(sprintln(args...))
}

func (c *contextLogger) Errorln(args ...interface{}) {
	c.inner.Error(sprintln(args...))
}

func sprintln(args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
