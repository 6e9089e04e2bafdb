package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := New().WithOutput(&stdout, &stderr).ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestHelpListsCommands(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "simulate")
	assert.Contains(t, out, "validate")
}

func TestValidateEmbeddedPrefabs(t *testing.T) {
	out, _, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok   sentry.yaml")
	assert.Contains(t, out, "ok   reactions/suspicious.yaml")
	assert.NotContains(t, out, "FAIL")
}

func TestSimulateReportsSummary(t *testing.T) {
	out, _, err := run(t, "simulate", "--ticks", "400", "--dt", "0.05", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "ticks=400")
	assert.Contains(t, out, "tier=")
}

func TestSimulateRejectsBadInput(t *testing.T) {
	_, _, err := run(t, "simulate", "--dt", "0")
	assert.ErrorContains(t, err, "dt must be positive")

	_, _, err = run(t, "simulate", "--ticks=-1")
	assert.ErrorContains(t, err, "ticks must not be negative")

	_, _, err = run(t, "simulate", "--agent", "nobody.yaml", "--ticks", "1")
	assert.ErrorContains(t, err, "agent: load spec")
}
