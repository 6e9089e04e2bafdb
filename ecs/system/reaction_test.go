package system

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/prefabs"
)

func delayStep(seconds float64) component.ReactionStep {
	return component.ReactionStep{Kind: component.StepDelay, Seconds: seconds}
}

func runStep() component.ReactionStep {
	return component.ReactionStep{Kind: component.StepSetMovementState, Movement: component.MovementRun}
}

func mustCompile(t *testing.T, name string, steps ...map[string]any) *component.Reaction {
	t.Helper()
	r, err := CompileReaction(prefabs.ReactionSpec{Name: name, Steps: steps})
	require.NoError(t, err)
	return r
}

func TestReactionRunsStepsUntilOneSuspends(t *testing.T) {
	r := newRig(t)
	finished := record[ReactionNotice](r, EventReactionFinished)
	require.True(t, InvokeReaction(r.w, r.agent, reaction("scan",
		logStep("start"),
		runStep(),
		delayStep(0.5),
		component.ReactionStep{Kind: component.StepExpandDetection, Distance: 5},
	), false))

	agent := mustGet(r, component.AgentComponent)
	det := mustGet(r, component.DetectionComponent)
	seq := mustGet(r, component.SequencerComponent)

	r.step(1)
	assert.Equal(t, component.MovementRun, agent.MovementState)
	assert.Equal(t, 20.0, det.Radius)
	assert.Equal(t, component.RunWaitingTimer, seq.Phase)

	r.step(1)
	assert.Equal(t, 20.0, det.Radius, "still inside the delay")

	r.step(1)
	assert.Equal(t, 25.0, det.Radius)
	assert.False(t, seq.Active())
	require.Len(t, *finished, 1)
	assert.Equal(t, ReactionNotice{Reaction: "scan", RunID: 1}, (*finished)[0])
}

func TestInvokeCancelsPreviousRunBeforeTheNextStarts(t *testing.T) {
	r := newRig(t)
	cancelled := record[ReactionNotice](r, EventReactionCancelled)

	first := reaction("first",
		component.ReactionStep{Kind: component.StepMoveAroundSelf, Waypoints: 3, Radius: 0, Wait: 1, Block: true},
		runStep(),
	)
	require.True(t, InvokeReaction(r.w, r.agent, first, false))
	r.step(1)

	loop := mustGet(r, component.MovementLoopComponent)
	agent := mustGet(r, component.AgentComponent)
	seq := mustGet(r, component.SequencerComponent)
	require.True(t, loop.Active)
	require.Equal(t, component.WanderStationary, agent.WanderMode)

	second := reaction("second", component.ReactionStep{Kind: component.StepExpandDetection, Distance: 5})
	require.True(t, InvokeReaction(r.w, r.agent, second, false))

	assert.False(t, loop.Active, "the old movement loop is gone before the new run starts")
	assert.Equal(t, component.WanderDynamic, agent.WanderMode)
	assert.Same(t, second, seq.Reaction)
	assert.Zero(t, seq.Index)
	assert.Equal(t, uint64(2), seq.RunID)

	r.step(1)
	require.Len(t, *cancelled, 1)
	assert.Equal(t, ReactionNotice{Reaction: "first", RunID: 1}, (*cancelled)[0])
	assert.Equal(t, 25.0, mustGet(r, component.DetectionComponent).Radius)

	r.step(20)
	assert.Equal(t, component.MovementWalk, agent.MovementState, "no step of the cancelled run ever executes")
}

func TestReactionStepBudgetCarriesOverToNextTick(t *testing.T) {
	r := newRig(t)
	steps := make([]component.ReactionStep, 100)
	for i := range steps {
		steps[i] = logStep("spam")
	}
	require.True(t, InvokeReaction(r.w, r.agent, reaction("spam", steps...), false))
	seq := mustGet(r, component.SequencerComponent)

	r.step(1)
	assert.Equal(t, maxStepsPerTick, seq.Index)
	assert.True(t, seq.Active())

	r.step(1)
	assert.False(t, seq.Active())
}

func TestInvokeReactionGates(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *rig)
		r     *component.Reaction
		want  bool
	}{
		{"allowed", func(*rig) {}, reaction("ok", logStep("ok")), true},
		{"nil_reaction", func(*rig) {}, nil, false},
		{"engaged", func(r *rig) { mustGet(r, component.CombatComponent).Engaged = true }, reaction("ok"), false},
		{"dead", func(r *rig) { mustGet(r, component.AgentComponent).Dead = true }, reaction("ok"), false},
		{"disabled", func(r *rig) { mustGet(r, component.AgentComponent).DetectorEnabled = false }, reaction("ok"), false},
		{"cooling_down", func(r *rig) { mustGet(r, component.ThreatComponent).SinceExternalReaction = 0 }, reaction("ok"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig(t)
			c.setup(r)
			assert.Equal(t, c.want, InvokeReaction(r.w, r.agent, c.r, false))
		})
	}

	r := newRig(t)
	bare := ecs.CreateEntity(r.w)
	assert.False(t, InvokeReaction(r.w, bare, reaction("ok"), false))
}

func TestInvokeAttachesMissingSequencer(t *testing.T) {
	r := newRig(t)
	require.True(t, ecs.Remove(r.w, r.agent, component.SequencerComponent.Kind()))
	require.True(t, InvokeReaction(r.w, r.agent, reaction("ok", runStep()), false))

	seq, ok := ecs.Get(r.w, r.agent, component.SequencerComponent.Kind())
	require.True(t, ok)
	assert.True(t, seq.Active())
	assert.Less(t, seq.Timer, defaultMaxJitter)
}

func TestStartJitter(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 100; i++ {
		j := startJitter(rng, 0)
		assert.GreaterOrEqual(t, j, 0.0)
		assert.Less(t, j, defaultMaxJitter)
	}
	assert.Zero(t, startJitter(rng, -1))
	assert.Less(t, startJitter(rng, 2), 2.0)
}

func TestWaitUntilHoldsRunUntilPredicateHolds(t *testing.T) {
	r := newRig(t)
	target := addTarget(t, r.w, playerTag, cp.Vector{X: 5})
	wait := mustCompile(t, "wait",
		map[string]any{"wait_until": "samples > 0"},
		map[string]any{"set_movement_state": "run"},
	)
	require.True(t, InvokeReaction(r.w, r.agent, wait, false))
	seq := mustGet(r, component.SequencerComponent)
	agent := mustGet(r, component.AgentComponent)

	r.step(3)
	assert.Equal(t, component.RunWaitingPredicate, seq.Phase)
	assert.Equal(t, component.MovementWalk, agent.MovementState)

	perceive(r, target)
	r.step(1)
	assert.Equal(t, component.MovementRun, agent.MovementState)
	assert.False(t, seq.Active())
}

func TestWaitUntilScriptErrorCancelsRun(t *testing.T) {
	r := newRig(t)
	cancelled := record[ReactionNotice](r, EventReactionCancelled)
	broken := mustCompile(t, "broken",
		map[string]any{"wait_until": "tier > 1"},
		map[string]any{"set_movement_state": "run"},
	)
	require.True(t, InvokeReaction(r.w, r.agent, broken, false))

	r.step(2)
	assert.False(t, mustGet(r, component.SequencerComponent).Active())
	assert.Equal(t, component.MovementWalk, mustGet(r, component.AgentComponent).MovementState)
	require.Len(t, *cancelled, 1)
	assert.Equal(t, "broken", (*cancelled)[0].Reaction)
}

func TestLoudestStepsWithoutTargetAreSkipped(t *testing.T) {
	r := newRig(t)
	require.True(t, InvokeReaction(r.w, r.agent, reaction("blind",
		component.ReactionStep{Kind: component.StepLookAtLoudest, Seconds: 5},
		component.ReactionStep{Kind: component.StepMoveToLoudest, Waypoints: 1, Block: true},
		component.ReactionStep{Kind: component.StepSetCombatTargetToLoudest},
		runStep(),
	), false))

	r.step(1)
	assert.Equal(t, component.MovementRun, mustGet(r, component.AgentComponent).MovementState)
	assert.False(t, mustGet(r, component.SequencerComponent).Active())
	assert.Zero(t, mustGet(r, component.DetectionComponent).CombatTarget)
}

func TestLookAtLoudestTurnsAndWaits(t *testing.T) {
	r := newRig(t)
	target := addTarget(t, r.w, playerTag, cp.Vector{Y: 5})
	perceive(r, target)
	require.True(t, InvokeReaction(r.w, r.agent, reaction("look",
		component.ReactionStep{Kind: component.StepLookAtLoudest, Seconds: 1},
		component.ReactionStep{Kind: component.StepSetCombatTargetToLoudest},
		component.ReactionStep{Kind: component.StepFleeFromLoudest},
	), false))

	r.step(1)
	agent := mustGet(r, component.AgentComponent)
	assert.Equal(t, uint64(target), agent.LookAtTarget)
	assert.Equal(t, component.RunWaitingTimer, mustGet(r, component.SequencerComponent).Phase)
	assert.Zero(t, mustGet(r, component.DetectionComponent).CombatTarget)

	r.step(8)
	tr := mustGet(r, component.TransformComponent)
	assert.InDelta(t, 0, tr.Forward.X, 1e-6)
	assert.InDelta(t, 1, tr.Forward.Y, 1e-6)
	assert.False(t, mustGet(r, component.TurningComponent).Rotate.Active)

	det := mustGet(r, component.DetectionComponent)
	assert.Equal(t, uint64(target), det.CombatTarget)
	assert.Equal(t, uint64(target), det.FleeTarget)

	assert.True(t, ClearLookAtTarget(r.w, r.agent))
	assert.Zero(t, agent.LookAtTarget)
	assert.False(t, ClearLookAtTarget(r.w, r.agent))
}

func TestDetectionAndCombatSteps(t *testing.T) {
	r := newRig(t)
	require.True(t, InvokeReaction(r.w, r.agent, reaction("escalate",
		component.ReactionStep{Kind: component.StepExpandDetection, Distance: 5},
		component.ReactionStep{Kind: component.StepExpandDetection, Distance: 5},
		runStep(),
		component.ReactionStep{Kind: component.StepEnterCombat},
		component.ReactionStep{Kind: component.StepReturnToStart},
	), false))
	r.step(1)

	det := mustGet(r, component.DetectionComponent)
	layer := mustGet(r, component.AnimationLayerComponent)
	assert.Equal(t, 25.0, det.Radius, "expanding twice by the same distance expands once")
	assert.True(t, layer.Bool(component.ParamCombatStateActive))
	assert.False(t, layer.Bool(component.ParamIdleActive))

	require.True(t, InvokeReaction(r.w, r.agent, reaction("calm",
		component.ReactionStep{Kind: component.StepResetAllToDefault},
	), false))
	r.step(1)
	assert.Equal(t, 20.0, det.Radius)
	assert.Equal(t, component.MovementWalk, mustGet(r, component.AgentComponent).MovementState)
	assert.False(t, layer.Bool(component.ParamCombatStateActive))
}

func TestPredicateInputs(t *testing.T) {
	r := newRig(t)
	th := mustGet(r, component.ThreatComponent)
	th.Amount = 0.7
	th.Tier = component.TierElevated
	seq := mustGet(r, component.SequencerComponent)
	seq.Arrived = true
	seq.Elapsed = 2.5

	vars := predicateInputs(r.w, r.agent, seq)
	assert.Equal(t, true, vars["arrived"])
	assert.Equal(t, false, vars["engaged"])
	assert.Equal(t, 0.7, vars["threat"])
	assert.Equal(t, "elevated", vars["tier"])
	assert.Equal(t, 0, vars["samples"])
	assert.Equal(t, 2.5, vars["elapsed"])
	assert.Equal(t, "dynamic", vars["wander"])
	for name := range predicateVars {
		assert.Contains(t, vars, name)
	}
}
