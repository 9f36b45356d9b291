package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: VerbosityUser},
		{name: "Console output mode", jsonOutput: false, verbosity: VerbosityDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger.Sync()
			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(false, VerbosityUser, &buf))
	defer func() { Logger = zap.NewNop().Sugar() }()

	Debugw("probed builder", FieldKind, "Identifier")
	Infow("wrote output", FieldFile, "out.js")
	Warnw("signature file ignored", FieldFile, "sigs.toml")

	out := buf.String()
	assert.NotContains(t, out, "probed builder")
	assert.NotContains(t, out, "wrote output")
	assert.Contains(t, out, "signature file ignored")
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
	assert.Equal(t, "Debug (-vv+)", LevelName(5))
}
