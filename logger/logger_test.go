package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	require.NotNil(t, Logger)
	Infow("no output expected", FieldDecl, "Thing")
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))

	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.True(t, ShouldLogTrace(3))
	assert.False(t, ShouldLogTrace(2))
}

func TestInitializeConsole(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	var buf bytes.Buffer
	require.NoError(t, Initialize(Options{Verbosity: VerbosityInfo, Writer: &buf}))
	defer func() { require.NoError(t, Initialize(Options{Writer: &bytes.Buffer{}})) }()

	ComponentLogger("host.pipeline").Infow("expanded", FieldDecl, "Thing", FieldCount, 3, FieldDurationMS, 12, FieldRunID, "abc", "extra", true)
	Debugw("hidden at -v")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "h.pipeline  expanded  Thing  3  12ms  extra=true")
	assert.NotContains(t, out, "abc")
}

func TestInitializeWarnLevel(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	var buf bytes.Buffer
	require.NoError(t, Initialize(Options{Writer: &buf}))

	Infow("quiet")
	Warnw("skip entry matches no member", FieldDecl, "Thing")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "WARN  skip entry matches no member  Thing")
}

func TestInitializeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Initialize(Options{JSON: true, Verbosity: VerbosityDebug, Writer: &buf}))
	defer func() { JSONOutput = false }()
	assert.True(t, JSONOutput)

	FromContext(WithRunID(context.Background(), "run-1")).Debugw("expanding", FieldFile, "Thing.yaml")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "expanding", entry["msg"])
	assert.Equal(t, "run-1", entry[FieldRunID])
	assert.Equal(t, "Thing.yaml", entry[FieldFile])
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RunID(ctx))
	assert.Same(t, Logger, FromContext(ctx))
	assert.Equal(t, "x", RunID(WithRunID(ctx, "x")))
}

func TestTheme(t *testing.T) {
	defer SetTheme("everforest")
	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)
	SetTheme("solarized")
	assert.Equal(t, "gruvbox", currentTheme)
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "h.pipeline", abbreviateName("host.pipeline"))
	assert.Equal(t, "watch", abbreviateName("watch"))
}
