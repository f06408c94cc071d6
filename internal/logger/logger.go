package logger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelInfo))
}

func SetLevel(l Level) {
	level.Store(int32(l))
}

func ParseLevel(v string) Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l Level) bool {
	return l >= Level(level.Load())
}

func Debug(ctx context.Context, msg string, kv ...any) {
	write(ctx, LevelDebug, "DEBUG", msg, kv)
}

func Info(ctx context.Context, msg string, kv ...any) {
	write(ctx, LevelInfo, "INFO", msg, kv)
}

func Warn(ctx context.Context, msg string, kv ...any) {
	write(ctx, LevelWarn, "WARN", msg, kv)
}

// Error logs msg followed by err, when err is non-nil.
func Error(ctx context.Context, err error, msg string, kv ...any) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	write(ctx, LevelError, "ERROR", msg, kv)
}

func write(_ context.Context, l Level, tag, msg string, kv []any) {
	if !enabled(l) {
		return
	}
	log.Printf("[%s] %s%s", tag, msg, fields(kv))
}

func fields(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v=?", kv[i])
		}
	}
	return b.String()
}
