package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/larex/internal/config"
)

func TestSetupLoggerConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := SetupLogger(config.LogConfig{Level: "warn"}, &buf)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", "channel", "load0")

	out := buf.String()
	assert.Assert(t, !strings.Contains(out, "hidden"), out)
	assert.Assert(t, strings.Contains(out, "shown"), out)
	assert.Assert(t, strings.Contains(out, "channel=load0"), out)
}

func TestSetupLoggerFallsBackOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := SetupLogger(config.LogConfig{Level: "loud"}, &buf)
	defer closeFn()

	logger.Debug("debug")
	logger.Info("info")

	assert.Assert(t, !strings.Contains(buf.String(), "msg=debug"))
	assert.Assert(t, strings.Contains(buf.String(), "msg=info"))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	multi := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	assert.Assert(t, multi.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(multi).With("run_id", "r1").WithGroup("eq")
	logger.Info("computed", "output", "c")
	logger.Error("failed", "output", "d")

	assert.Assert(t, strings.Contains(debugBuf.String(), "computed"))
	assert.Assert(t, strings.Contains(debugBuf.String(), "eq.output=c"))
	assert.Assert(t, strings.Contains(debugBuf.String(), "run_id=r1"))
	assert.Assert(t, !strings.Contains(errorBuf.String(), "computed"))
	assert.Assert(t, strings.Contains(errorBuf.String(), "failed"))
}
