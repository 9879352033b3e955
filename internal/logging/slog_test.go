package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextHandlerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "development", "warn")
	ctx := context.Background()

	log.Info(ctx, "quiet", "a", 1)
	log.Warn(ctx, "loud", "b", 2)

	out := buf.String()
	assert.NotContains(t, out, "msg=quiet")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=loud")
	assert.Contains(t, out, "b=2")
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "debug")

	log.Debug(context.Background(), "hello", "user_id", "u1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "development", "info")

	log.With("req_id", "123").Error(context.Background(), "boom", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=ERROR", "msg=boom", "req_id=123", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Info(ctx, "ok")
	log.With("a", 1).Error(ctx, "ok")
}
