package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The minimal encoder must never silently discard log fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "signature",
		Message:    "resolved builder",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("kind", "BinaryExpression"), "kind=BinaryExpression"},
		{zap.Strings("params", []string{"operator", "left", "right"}), "params=[operator left right]"},
		{zap.Int("count", 3), "count=3"},
		{zap.Bool("cached", true), "cached=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.String("field.with.dots", "ok"), "field.with.dots=ok"},
		{zap.Error(nil), ""},
	}

	var fields []zapcore.Field
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)
	out := stripANSI(buf.String())

	assert.Contains(t, out, "signature")
	assert.Contains(t, out, "resolved builder")
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, out, tf.mustFind)
		}
	}
}

func TestMinimalEncoderShowsLevelForNonInfo(t *testing.T) {
	encoder := newMinimalEncoder()

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "careful"}, nil)
	require.NoError(t, err)
	assert.Contains(t, stripANSI(buf.String()), "WARN  careful")

	buf, err = encoder.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "plain"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(buf.String()), "INFO")
}

func TestMinimalEncoderKeepsContextFields(t *testing.T) {
	encoder := newMinimalEncoder()
	encoder.AddString("component", "synth")

	clone := encoder.Clone()
	buf, err := clone.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "spliced"}, []zapcore.Field{zap.String("name", "x")})
	require.NoError(t, err)

	out := stripANSI(buf.String())
	assert.Contains(t, out, "component=synth")
	assert.Contains(t, out, "name=x")
}
