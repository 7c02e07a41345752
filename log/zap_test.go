package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel).Named("racesim")
	l.Debug("hidden")
	l.Info("race simulated", Int("laps", 78), String("plan", "25:HARD"))
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"race simulated"`)
	assert.Contains(t, out, `"logger":"racesim"`)
	assert.Contains(t, out, `"laps":78`)
	assert.Equal(t, InfoLevel, l.Level())
}

func TestWithFilter(t *testing.T) {
	var buf bytes.Buffer
	opt, err := WithFilter("*:optimizer")
	require.NoError(t, err)
	base := New(&buf, DebugLevel, opt)
	base.Named("optimizer").Info("kept")
	base.Named("racesim").Info("dropped")

	assert.Contains(t, buf.String(), "kept")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, l)
	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	assert.Same(t, Default(), GetFromContext(context.Background()))
	l := Nop()
	assert.Same(t, l, GetFromContext(AddToContext(context.Background(), l)))
}
