package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithBuildIDAndStage(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-1")
	ctx = WithStage(ctx, "discover")

	lc := GetContext(ctx)
	assert.Equal(t, "build-1", lc.BuildID)
	assert.Equal(t, "discover", lc.Stage)

	ctx = WithStage(ctx, "write")
	assert.Equal(t, "build-1", GetContext(ctx).BuildID)
	assert.Equal(t, "write", GetContext(ctx).Stage)
}

func TestGetContext_Empty(t *testing.T) {
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	assert.Same(t, base, Logger(context.Background(), base))

	ctx := WithStage(WithBuildID(context.Background(), "build-1"), "write")
	Logger(ctx, base).Info("Sitemap written")

	out := buf.String()
	assert.Contains(t, out, "build_id=build-1")
	assert.Contains(t, out, "stage=write")
	assert.Contains(t, out, `msg="Sitemap written"`)
}

func TestLogger_NilBaseUsesDefault(t *testing.T) {
	assert.Same(t, slog.Default(), Logger(context.Background(), nil))
}
