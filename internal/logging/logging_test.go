package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/stretchr/testify/assert"
)

var _ calculation.Logger = (*Adapter)(nil)

func TestNew_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "info")

	log.Info().Str("bill", "1").Msg("negotiated")
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON, got %q", out)
	assert.Contains(t, out, `"bill":"1"`)
	assert.Contains(t, out, `"message":"negotiated"`)
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "warn")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "chatty")

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "development", "debug")

	log.Debug().Msg("plan generated")
	out := buf.String()

	assert.False(t, strings.HasPrefix(out, "{"), "expected console output, got %q", out)
	assert.Contains(t, out, "plan generated")
}

func TestAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := NewAdapter(New(&buf, "production", "debug"), "bills")

	a.Infof("bill %s negotiated to %s", "3", "840.00")
	a.Errorf("boom %d", 42)

	out := buf.String()
	assert.Contains(t, out, `"component":"bills"`)
	assert.Contains(t, out, "bill 3 negotiated to 840.00")
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "boom 42")
}
