package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger_WritesFieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(ZerologOptions{Level: "debug", Output: &buf})
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Error(ctx, "boom", "err", errors.New("bad thing"))

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"a":1`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"err":"bad thing"`)
	assert.Contains(t, out, `"message":"boom"`)
}

func TestZerologLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(ZerologOptions{Level: "warn", Output: &buf})

	log.Info(context.Background(), "quiet")
	assert.Empty(t, buf.String())

	log.Warn(context.Background(), "loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestZerologLogger_WithAndDanglingKey(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(ZerologOptions{Output: &buf}).With("component", "guard")

	log.Info(context.Background(), "mounted", "orphan")

	out := buf.String()
	assert.Contains(t, out, `"component":"guard"`)
	assert.Contains(t, out, `"orphan":"!MISSING"`)
}

func TestParseZerologLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseZerologLevel(in), "input %q", in)
	}
}
