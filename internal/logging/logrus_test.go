package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogrusTestLogger(t *testing.T) (*LogrusLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return NewLogrusLogger(l), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogrusLogger_Levels(t *testing.T) {
	log, buf := newLogrusTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err", "d", true)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "dbg", lines[0]["msg"])
	assert.EqualValues(t, 1, lines[0]["a"])
	assert.Equal(t, "info", lines[1]["level"])
	assert.Equal(t, "two", lines[1]["b"])
	assert.Equal(t, "warning", lines[2]["level"])
	assert.Equal(t, "error", lines[3]["level"])
	assert.Equal(t, true, lines[3]["d"])
}

func TestLogrusLogger_With(t *testing.T) {
	log, buf := newLogrusTestLogger(t)

	log.With("req_id", "123").Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "123", lines[0]["req_id"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestFields_OddAndNonStringKeys(t *testing.T) {
	f := fields([]any{"a", 1, 2, "b", "dangling"})
	assert.Equal(t, 1, f["a"])
	assert.Equal(t, "b", f["2"])
	assert.Equal(t, "dangling", f["!BADKEY"])
}
