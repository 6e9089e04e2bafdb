package pool

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnReusesPreloadedInstances(t *testing.T) {
	m := NewManager()
	m.Preload("spark", 2)
	require.Equal(t, 2, m.FreeCount("spark"))

	a := m.Spawn("spark", cp.Vector{X: 1})
	b := m.Spawn("spark", cp.Vector{X: 2})
	assert.Equal(t, 0, m.FreeCount("spark"))
	assert.Equal(t, 2, m.ActiveCount("spark"))
	assert.True(t, a.Active)
	assert.Equal(t, cp.Vector{X: 2}, b.Position)

	require.True(t, m.Despawn(a))
	assert.False(t, a.Active)
	assert.Equal(t, 1, m.FreeCount("spark"))

	c := m.Spawn("spark", cp.Vector{X: 3})
	assert.Same(t, a, c)
	assert.Equal(t, cp.Vector{X: 3}, c.Position)
}

func TestSpawnGrowsEmptyPool(t *testing.T) {
	m := NewManager()
	inst := m.Spawn("dust", cp.Vector{})
	require.NotNil(t, inst)
	assert.Equal(t, 1, m.ActiveCount("dust"))
	assert.Equal(t, 0, m.FreeCount("dust"))
}

func TestDespawnTwiceIsNoop(t *testing.T) {
	m := NewManager()
	inst := m.Spawn("dust", cp.Vector{})
	assert.True(t, m.Despawn(inst))
	assert.False(t, m.Despawn(inst))
	assert.False(t, m.Despawn(nil))
	assert.Equal(t, 1, m.FreeCount("dust"))
}

func TestSpawnTimedExpires(t *testing.T) {
	m := NewManager()
	timed := m.SpawnTimed("smoke", cp.Vector{}, 0.25)
	untimed := m.Spawn("smoke", cp.Vector{})

	m.Update(0.1)
	assert.True(t, timed.Active)
	assert.InDelta(t, 0.15, timed.Remaining(), 1e-9)

	m.Update(0.2)
	assert.False(t, timed.Active)
	assert.True(t, untimed.Active)
	assert.Equal(t, 1, m.ActiveCount("smoke"))
	assert.Equal(t, 1, m.FreeCount("smoke"))
}

func TestClearDropsEverything(t *testing.T) {
	m := NewManager()
	m.Preload("spark", 3)
	inst := m.Spawn("spark", cp.Vector{})

	m.Clear()
	assert.False(t, inst.Active)
	assert.Equal(t, 0, m.ActiveCount("spark"))
	assert.Equal(t, 0, m.FreeCount("spark"))
}
