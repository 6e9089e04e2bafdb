package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"bogus", bolt.INFO},
		{"", bolt.INFO},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestFieldsRenderIntoJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	Set(New(Config{Level: "trace", Format: "json", Output: buf}))
	t.Cleanup(func() { Set(nil) })

	Info().
		Add(Agent(7)).
		Add(Tier("elevated")).
		Add(Amount(0.5)).
		Add(Reaction("suspicious")).
		Add(Step(2, "delay")).
		Add(Int("agents", 3)).
		Add(ErrorField(errors.New("boom"))).
		Add(ErrorField(nil)).
		Msg("tier changed")

	out := buf.String()
	assert.Contains(t, out, `"agent"`)
	assert.Contains(t, out, `"elevated"`)
	assert.Contains(t, out, `"0.500"`)
	assert.Contains(t, out, `"suspicious"`)
	assert.Contains(t, out, `"step_kind"`)
	assert.Contains(t, out, `"agents":3`)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "tier changed")
}

func TestLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	Set(New(Config{Level: "warn", Format: "json", Output: buf}))
	t.Cleanup(func() { Set(nil) })

	Debug().Msg("hidden")
	Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
