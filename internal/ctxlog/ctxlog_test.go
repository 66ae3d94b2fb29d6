package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Same(t, slog.Default(), logger)
}

func TestWith_AddsAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := With(WithLogger(context.Background(), base), "target", "clang-tidy")
	FromContext(ctx).Debug("checked")

	assert.Contains(t, buf.String(), "target=clang-tidy")
	assert.Contains(t, buf.String(), "msg=checked")
}
