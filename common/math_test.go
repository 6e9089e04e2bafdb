package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name                      string
		current, target, maxDelta float64
		want                      float64
	}{
		{"step_up", 0, 1, 0.25, 0.25},
		{"step_down", 1, 0, 0.25, 0.75},
		{"no_overshoot", 0.9, 1, 0.5, 1},
		{"already_there", 0.5, 0.5, 0.1, 0.5},
		{"zero_delta", 0.3, 1, 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MoveTowards(tt.current, tt.target, tt.maxDelta), 1e-9)
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-2))
	assert.Equal(t, 1.0, Clamp01(3))
	assert.Equal(t, 0.4, Clamp01(0.4))
}
