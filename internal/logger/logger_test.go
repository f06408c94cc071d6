package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(old)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLogger(t *testing.T) {
	buf := captureLog(t)
	ctx := context.Background()

	t.Run("Info", func(t *testing.T) {
		buf.Reset()
		Info(ctx, "task added", "id", 7, "category", "work")
		assert.Contains(t, buf.String(), "[INFO] task added id=7 category=work")
	})

	t.Run("Error with error", func(t *testing.T) {
		buf.Reset()
		Error(ctx, errors.New("disk full"), "save failed")
		assert.Contains(t, buf.String(), "[ERROR] save failed: disk full")
	})

	t.Run("Error without error", func(t *testing.T) {
		buf.Reset()
		Error(ctx, nil, "nothing to report")
		assert.Contains(t, buf.String(), "[ERROR] nothing to report")
	})

	t.Run("Odd fields", func(t *testing.T) {
		buf.Reset()
		Warn(ctx, "dangling", "key")
		assert.Contains(t, buf.String(), "[WARN] dangling key=?")
	})

	t.Run("Debug suppressed at info", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelInfo)
		Debug(ctx, "hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("Debug at debug level", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelDebug)
		defer SetLevel(LevelInfo)
		Debug(ctx, "shown")
		assert.Contains(t, buf.String(), "[DEBUG] shown")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}
