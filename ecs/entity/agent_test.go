package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/prefabs"
)

func TestNewAgentFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewAgent(w, "sentry.yaml", 42)
	require.NoError(t, err)

	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "sentry", agent.Name)
	assert.Equal(t, component.WanderDynamic, agent.WanderMode)
	assert.Equal(t, component.WanderDynamic, agent.StartingWanderMode)
	assert.True(t, agent.DetectorEnabled)
	assert.NotNil(t, agent.Rand)

	det, ok := ecs.Get(w, e, component.DetectionComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 15.0, det.Radius)
	assert.Equal(t, det.Radius, det.StartingRadius)

	th, ok := ecs.Get(w, e, component.ThreatComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, th.Config.ExternalCooldown, th.SinceExternalReaction, "the first external reaction is never on cooldown")
	assert.Equal(t, component.DefaultThreatConfig().ConfirmedLevel, th.Config.ConfirmedLevel)
	require.NotNil(t, th.Reactions.Baseline)
	require.NotNil(t, th.Reactions.Elevated)
	require.NotNil(t, th.Reactions.Confirmed)
	assert.Equal(t, "suspicious", th.Reactions.Elevated.Name)

	profile, ok := ecs.Get(w, e, component.AnimationProfileComponent.Kind())
	require.True(t, ok)
	assert.NotZero(t, profile.Type1.HitConditions&component.AnimTurningLeft)
	assert.Zero(t, profile.Type2.HitConditions&component.AnimAttacking)
	assert.Equal(t, []int{1, 2}, profile.Emotes)

	for name, has := range map[string]bool{
		"transform":       ecs.Has(w, e, component.TransformComponent.Kind()),
		"telemetry":       ecs.Has(w, e, component.TelemetryComponent.Kind()),
		"combat":          ecs.Has(w, e, component.CombatComponent.Kind()),
		"navigation":      ecs.Has(w, e, component.NavigationComponent.Kind()),
		"turning":         ecs.Has(w, e, component.TurningComponent.Kind()),
		"sequencer":       ecs.Has(w, e, component.SequencerComponent.Kind()),
		"movement_loop":   ecs.Has(w, e, component.MovementLoopComponent.Kind()),
		"animation_layer": ecs.Has(w, e, component.AnimationLayerComponent.Kind()),
		"animation_state": ecs.Has(w, e, component.AnimationStateComponent.Kind()),
	} {
		assert.True(t, has, name)
	}
}

func TestNewAgentOverridesThreatTuning(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewAgent(w, "watchman.yaml", 1)
	require.NoError(t, err)

	th, _ := ecs.Get(w, e, component.ThreatComponent.Kind())
	defaults := component.DefaultThreatConfig()
	assert.Equal(t, 0.2, th.Config.AttentionRate)
	assert.Equal(t, 3.0, th.Config.DowngradeDelay)
	assert.Equal(t, defaults.Falloff, th.Config.Falloff)

	combat, _ := ecs.Get(w, e, component.CombatComponent.Kind())
	assert.Equal(t, component.WeaponType2, combat.Weapon)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, cp.Vector{X: 10, Y: 4}, tr.Position)
	assert.Equal(t, cp.Vector{X: -1}, tr.Forward)
}

func TestNewAgentRejectsBadPrefabs(t *testing.T) {
	dir := t.TempDir()
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })

	files := map[string]string{
		"bad_wander.yaml":    "name: a\nwander: spinning\n",
		"bad_movement.yaml":  "name: b\nmovement: crawl\n",
		"bad_reaction.yaml":  "name: c\nreactions:\n  baseline: reactions/missing.yaml\n",
		"bad_condition.yaml": "name: d\nanimation:\n  type1:\n    hit_conditions: [flying]\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	w := ecs.NewWorld()
	for name := range files {
		t.Run(name, func(t *testing.T) {
			_, err := NewAgent(w, name, 1)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, ecs.Entities(w), "a failed build leaves nothing behind")

	_, err := NewAgent(w, "missing.yaml", 1)
	assert.ErrorContains(t, err, "agent: load spec")
}

func TestReloadReactionsUpdatesMatchingAgents(t *testing.T) {
	w := ecs.NewWorld()
	a, err := NewAgent(w, "sentry.yaml", 1)
	require.NoError(t, err)
	_, err = NewAgent(w, "sentry.yaml", 2)
	require.NoError(t, err)
	other, err := NewAgent(w, "watchman.yaml", 3)
	require.NoError(t, err)

	th, _ := ecs.Get(w, a, component.ThreatComponent.Kind())
	before := th.Reactions.Baseline
	otherTh, _ := ecs.Get(w, other, component.ThreatComponent.Kind())
	otherBefore := otherTh.Reactions.Baseline

	n, err := ReloadReactions(w, "sentry.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotSame(t, before, th.Reactions.Baseline)
	assert.Same(t, otherBefore, otherTh.Reactions.Baseline)
}

func TestNewTarget(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewTarget(w, "player", cp.Vector{X: 3})
	require.NoError(t, err)

	tag, ok := ecs.Get(w, e, component.TagComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", tag.Name)
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 3}, tr.Position)
}
