// Package logger is the structured logger shared by the fit-zones packages
// and binaries. Records go through log/slog and carry the caller's file and
// line as "source".
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Logger is the logging surface handed to packages.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// Named returns a child logger tagged with component=name.
	Named(name string) Logger
}

// Field is one key/value attribute of a record.
type Field struct {
	Key   string
	Value any
}

func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Any(key string, val any) Field         { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }

type handlerLogger struct {
	h slog.Handler
}

func (l *handlerLogger) Named(name string) Logger {
	return &handlerLogger{h: l.h.WithAttrs([]slog.Attr{slog.String("component", name)})}
}

func (l *handlerLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelDebug, msg, fields)
}

func (l *handlerLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelInfo, msg, fields)
}

func (l *handlerLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelWarn, msg, fields)
}

func (l *handlerLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelError, msg, fields)
}

// emit must be called directly from a level method: the source pc is taken
// three frames up (runtime.Callers, emit, level method).
func (l *handlerLogger) emit(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.h.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	for _, f := range fields {
		r.AddAttrs(slog.Any(f.Key, f.Value))
	}
	_ = l.h.Handle(ctx, r)
}

var (
	mu     sync.RWMutex
	global Logger
	level  slog.LevelVar

	workDir, _ = os.Getwd()
)

// Init points the global logger at stdout.
func Init() error {
	return InitWriter(os.Stdout)
}

// InitWriter points the global logger at w and resets the level to info.
func InitWriter(w io.Writer) error {
	if w == nil {
		return errors.New("logger: nil writer")
	}
	level.Set(slog.LevelInfo)
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       &level,
		ReplaceAttr: relativeSource,
	})
	mu.Lock()
	global = &handlerLogger{h: h}
	mu.Unlock()
	return nil
}

// relativeSource renders the source attribute as path:line relative to the
// working directory.
func relativeSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}
	file := filepath.Base(src.File)
	if workDir != "" {
		if rel, err := filepath.Rel(workDir, src.File); err == nil {
			file = rel
		}
	}
	return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", file, src.Line))
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return &handlerLogger{h: slog.DiscardHandler}
}

// Get returns the global logger. Before Init it discards.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return Discard()
	}
	return global
}

// Named is Get().Named(name).
func Named(name string) Logger {
	return Get().Named(name)
}

// ParseLevel maps debug, info, warn/warning and error (any case) to a level.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

// SetLevelString sets the global level; the level is left unchanged on error.
func SetLevelString(s string) error {
	lv, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(lv)
	return nil
}
