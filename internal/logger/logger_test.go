package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeJSON(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar(); JSONOutput = false })

	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{JSON: true, Output: &buf}))
	assert.True(t, JSONOutput)

	Infow("unit generated", FieldUnit, "lib", FieldDecls, 2)
	Debugw("hidden at info level")
	Cleanup()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "unit generated", rec["msg"])
	assert.Equal(t, "lib", rec[FieldUnit])
	assert.EqualValues(t, 2, rec[FieldDecls])
	assert.Equal(t, "info", rec["level"])
}

func TestInitializeConsoleVerbose(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar(); JSONOutput = false })

	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{Verbose: true, Output: &buf}))
	With(FieldRunID, "r1").Debugw("cache miss", FieldUnit, "lib")
	Warnw("slow", FieldDurationMS, 12)

	out := buf.String()
	assert.Contains(t, out, "debug")
	assert.Contains(t, out, "cache miss")
	assert.Contains(t, out, `"run_id": "r1"`)
	assert.Contains(t, out, "warn")
}

func TestNopByDefault(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Infow("x")
		Errorw("y", FieldError, "boom")
	})
}
