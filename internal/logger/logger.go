package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	base    = zerolog.New(os.Stderr).With().Timestamp().Logger()
	logFile *os.File
)

type requestIDKey struct{}

// InitLogging sends logs to stderr and, when path is set, appends them as
// JSON to the file at path.
func InitLogging(path string) {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}
	var openErr error

	mu.Lock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			openErr = err
		} else {
			logFile = f
			out = zerolog.MultiLevelWriter(out, f)
		}
	}
	base = zerolog.New(out).With().Timestamp().Logger()
	mu.Unlock()

	if openErr != nil {
		WarnLog(context.Background(), "cannot open log file %s, logging to stderr only: %v", path, openErr)
	}
}

// SetOutput replaces the log destination.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names leave the level unchanged.
func SetLevel(level string) {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return
	}
	zerolog.SetGlobalLevel(l)
}

// Logger returns the logger for ctx, carrying its request id if any.
func Logger(ctx context.Context) zerolog.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()
	if id := RequestID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return l
}

// WithRequestID returns a context whose log lines carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Info().Msg(fmt.Sprintf(format, args...))
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Error().Msg(fmt.Sprintf(format, args...))
}
