package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
)

func TestDisableDetectorCancelsAndForgets(t *testing.T) {
	r := newRig(t)
	target := addTarget(t, r.w, playerTag, cp.Vector{X: 5})
	perceive(r, target)
	require.True(t, InvokeReaction(r.w, r.agent, reaction("long", delayStep(10), runStep()), false))
	r.step(1)

	tel := mustGet(r, component.TelemetryComponent)
	require.NotEmpty(t, tel.Samples)

	require.True(t, DisableDetector(r.w, r.agent))
	assert.Empty(t, tel.Samples)
	assert.False(t, mustGet(r, component.SequencerComponent).Active())
	assert.False(t, InvokeReaction(r.w, r.agent, reaction("refused", runStep()), false))

	moveTo(r, target, cp.Vector{X: 6})
	r.step(2)
	assert.Empty(t, tel.Samples, "a disabled detector samples nothing")
	assert.Zero(t, mustGet(r, component.ThreatComponent).Amount)

	require.True(t, EnableDetector(r.w, r.agent))
	r.step(1)
	assert.Len(t, tel.Samples, 1)

	bare := ecs.CreateEntity(r.w)
	assert.False(t, EnableDetector(r.w, bare))
	assert.False(t, DisableDetector(r.w, bare))
}

func TestAttractRunsExternalReaction(t *testing.T) {
	r := newRig(t)
	source := addTarget(t, r.w, "noisemaker", cp.Vector{X: 4})
	attract := reaction("investigate",
		component.ReactionStep{Kind: component.StepAttractToSource, Attract: component.AttractMoveTo, Block: true},
		runStep(),
	)

	require.True(t, Attract(r.w, r.agent, source, attract))
	agent := mustGet(r, component.AgentComponent)
	seq := mustGet(r, component.SequencerComponent)
	assert.Equal(t, uint64(source), agent.AttractSource)
	assert.True(t, seq.External)

	runUntilIdle(r, 60)
	require.False(t, seq.Active())
	assert.InDelta(t, 4, mustGet(r, component.TransformComponent).Position.X, 0.5)
	assert.Equal(t, component.MovementRun, agent.MovementState)

	th := mustGet(r, component.ThreatComponent)
	assert.Less(t, th.SinceExternalReaction, th.Config.ExternalCooldown)
	assert.False(t, Attract(r.w, r.agent, source, attract), "attraction cools down")
}

func TestAttractLookAt(t *testing.T) {
	r := newRig(t)
	source := addTarget(t, r.w, "noisemaker", cp.Vector{Y: 4})
	require.True(t, Attract(r.w, r.agent, source, reaction("glance",
		component.ReactionStep{Kind: component.StepAttractToSource, Attract: component.AttractLookAt},
	)))
	r.step(1)
	assert.Equal(t, uint64(source), mustGet(r, component.AgentComponent).LookAtTarget)
}

func TestAttractToGoneSource(t *testing.T) {
	r := newRig(t)
	source := addTarget(t, r.w, "noisemaker", cp.Vector{X: 4})
	require.True(t, ecs.DestroyEntity(r.w, source))
	assert.False(t, Attract(r.w, r.agent, source, reaction("investigate", runStep())))
	assert.Zero(t, mustGet(r, component.AgentComponent).AttractSource)
}

func TestClearLookAtTargetLeavesForeignTargets(t *testing.T) {
	r := newRig(t)
	agent := mustGet(r, component.AgentComponent)
	agent.LookAtTarget = 77
	assert.False(t, ClearLookAtTarget(r.w, r.agent))
	assert.Equal(t, uint64(77), agent.LookAtTarget)
}
