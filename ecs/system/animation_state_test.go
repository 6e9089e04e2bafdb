package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
)

func TestClassifyCascade(t *testing.T) {
	cases := []struct {
		name    string
		current component.AnimatorState
		speed   float64
		engaged bool
		weapon  component.WeaponProfile
		dead    bool
		prev    component.AnimState
		want    component.AnimState
	}{
		{"idle_in_movement", component.AnimatorState{Name: component.StateMovement}, 0, false, component.WeaponType1, false, component.AnimMoving, component.AnimIdling},
		{"moving", component.AnimatorState{Name: component.StateMovement}, 1, false, component.WeaponType1, false, component.AnimIdling, component.AnimMoving},
		{"idle_tag", component.AnimatorState{Name: "Look Around", Tags: []string{"Idle"}}, 0, false, component.WeaponType1, false, component.AnimMoving, component.AnimIdling},
		{"attack_beats_moving", component.AnimatorState{Name: component.StateMovement, Tags: []string{"Attack"}}, 1, false, component.WeaponType1, false, component.AnimIdling, component.AnimAttacking},
		{"combat_idle_type2", component.AnimatorState{Name: component.StateCombatMovementType2}, 0, true, component.WeaponType2, false, component.AnimMoving, component.AnimIdling},
		{"combat_wrong_weapon_keeps_previous", component.AnimatorState{Name: component.StateCombatMovementType2}, 0, true, component.WeaponType1, false, component.AnimBlocking, component.AnimBlocking},
		{"hit_beats_attack", component.AnimatorState{Name: "Hit", Tags: []string{"Attack", "Hit"}}, 0, false, component.WeaponType1, false, component.AnimIdling, component.AnimGettingHit},
		{"dead_beats_everything", component.AnimatorState{Name: "Hit", Tags: []string{"Hit", "Emote"}}, 0, false, component.WeaponType1, true, component.AnimIdling, component.AnimDead},
		{"nothing_keeps_previous", component.AnimatorState{Name: "Unknown"}, 0, false, component.WeaponType1, false, component.AnimRecoiling, component.AnimRecoiling},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			layer := component.NewAnimationLayer()
			layer.Current = c.current
			layer.SetFloat(component.ParamSpeed, c.speed)
			st := &component.AnimationState{Current: c.prev, IsDead: c.dead}
			combat := &component.Combat{Engaged: c.engaged, Weapon: c.weapon}

			classify(st, layer, combat, &component.Turning{})
			assert.Equal(t, c.want, st.Current, st.Current.String())
		})
	}
}

func TestClassifyTurning(t *testing.T) {
	layer := component.NewAnimationLayer()
	layer.Current = component.AnimatorState{Name: component.StateMovement}
	layer.SetFloat(component.ParamSpeed, 1)
	st := &component.AnimationState{}

	classify(st, layer, nil, &component.Turning{Left: true})
	assert.Equal(t, component.AnimTurningLeft, st.Current)

	classify(st, layer, nil, &component.Turning{Right: true})
	assert.Equal(t, component.AnimTurningRight, st.Current)

	layer.Transition = "Hit -> Movement"
	classify(st, layer, nil, nil)
	assert.Equal(t, component.AnimMoving, st.Current)
	assert.True(t, st.BusyBetweenStates)
}

func TestAttackEdgesArePublished(t *testing.T) {
	r := newRig(t)
	started := 0
	ended := 0
	next := 0
	count := func(n *int) ecs.Handler {
		return func(_ *ecs.World, evt ecs.Event) {
			if evt.Entity == r.agent {
				*n++
			}
		}
	}
	r.w.Events().Subscribe(EventAttackStarted, count(&started))
	r.w.Events().Subscribe(EventAttackEnded, count(&ended))
	r.w.Events().Subscribe(EventGenerateNextAttack, count(&next))

	layer := mustGet(r, component.AnimationLayerComponent)
	st := mustGet(r, component.AnimationStateComponent)

	layer.Current = component.AnimatorState{Name: "Slash", Tags: []string{"Attack"}}
	r.step(2)
	assert.Equal(t, 1, started)
	assert.True(t, st.AttackingTracker)
	assert.True(t, st.AttackTriggered)

	r.step(2)
	assert.False(t, st.AttackTriggered, "the trigger window closes")

	layer.Current = component.AnimatorState{Name: component.StateMovement}
	r.step(1)
	assert.Equal(t, 1, ended)
	assert.Equal(t, 1, next)
	assert.False(t, st.AttackingTracker)
}

func TestTakeDamageCyclesHitsAndTriggersHit(t *testing.T) {
	r := newRig(t)
	gotHit := 0
	r.w.Events().Subscribe(EventGotHit, func(_ *ecs.World, evt ecs.Event) { gotHit++ })
	layer := mustGet(r, component.AnimationLayerComponent)
	st := mustGet(r, component.AnimationStateComponent)
	layer.SetTrigger(component.ParamAttack)

	want := []int{1, 2, 1}
	for i, index := range want {
		r.w.Publish(EventTakeDamage, r.agent, nil)
		r.step(1)
		assert.Equal(t, index, layer.Int(component.ParamHitIndex), "hit %d", i)
	}
	assert.Equal(t, 3, gotHit)
	assert.True(t, layer.Triggered(component.ParamHit))
	assert.False(t, layer.Triggered(component.ParamAttack))
	assert.True(t, st.InternalHit)

	r.step(4)
	assert.False(t, st.InternalHit, "the internal hit window closes")
}

func TestTakeDamageRespectsCooldown(t *testing.T) {
	r := newRig(t)
	profile := mustGet(r, component.AnimationProfileComponent)
	profile.Type1.HitCooldown = 10
	layer := mustGet(r, component.AnimationLayerComponent)

	r.w.Publish(EventTakeDamage, r.agent, nil)
	r.step(1)
	r.w.Publish(EventTakeDamage, r.agent, nil)
	r.step(1)
	assert.Equal(t, 1, layer.Int(component.ParamHitIndex))
}

func TestDeathCancelsAndDisablesAnimator(t *testing.T) {
	r := newRig(t)
	require.True(t, InvokeReaction(r.w, r.agent, reaction("long", delayStep(30), runStep()), false))
	r.step(1)

	r.w.Publish(EventDeath, r.agent, nil)
	r.step(1)

	agent := mustGet(r, component.AgentComponent)
	st := mustGet(r, component.AnimationStateComponent)
	layer := mustGet(r, component.AnimationLayerComponent)
	assert.True(t, agent.Dead)
	assert.Equal(t, component.AnimDead, st.Current)
	assert.False(t, mustGet(r, component.SequencerComponent).Active())
	assert.True(t, layer.Triggered(component.ParamDead))

	index := layer.Int(component.ParamDeathIndex)
	require.Contains(t, []int{1, 2}, index)
	clip := mustGet(r, component.AnimationProfileComponent).Type1.DeathClips[index-1]
	assert.Equal(t, clip, st.DisableTimer)

	r.step(int(clip/tick) + 1)
	assert.False(t, layer.Enabled)
	assert.Equal(t, component.AnimDead, st.Current)
	assert.False(t, InvokeReaction(r.w, r.agent, reaction("late", runStep()), false))
}

func TestStunAppliesAfterDelay(t *testing.T) {
	r := newRig(t)
	layer := mustGet(r, component.AnimationLayerComponent)

	r.w.Publish(EventStun, r.agent, StunRequest{Seconds: 1})
	r.step(1)
	assert.False(t, layer.Bool(component.ParamStunnedActive))

	r.step(2)
	assert.True(t, layer.Bool(component.ParamStunnedActive))

	r.step(4)
	assert.False(t, layer.Bool(component.ParamStunnedActive))
}

func TestStunIgnoredWithoutStunAnimation(t *testing.T) {
	r := newRig(t)
	mustGet(r, component.AnimationProfileComponent).Type1.Stunned = false

	r.w.Publish(EventStun, r.agent, StunRequest{Seconds: 1})
	r.step(1)
	assert.False(t, mustGet(r, component.AnimationStateComponent).StunPending)
}

func TestReachedWaypointPicksIdle(t *testing.T) {
	r := newRig(t)
	r.w.Publish(EventReachedWaypoint, r.agent, nil)
	r.step(1)

	layer := mustGet(r, component.AnimationLayerComponent)
	assert.True(t, layer.Bool(component.ParamIdleActive))
	idle := layer.Int(component.ParamIdleIndex)
	assert.GreaterOrEqual(t, idle, 1)
	assert.LessOrEqual(t, idle, 3)
}

func TestExitCombatClearsCombatState(t *testing.T) {
	r := newRig(t)
	layer := mustGet(r, component.AnimationLayerComponent)
	layer.SetBool(component.ParamCombatStateActive, true)
	mustGet(r, component.AnimationStateComponent).WarningTriggered = true

	r.w.Publish(EventExitCombat, r.agent, nil)
	r.step(1)
	assert.False(t, layer.Bool(component.ParamCombatStateActive))
	assert.False(t, mustGet(r, component.AnimationStateComponent).WarningTriggered)
}

func TestPlayEmote(t *testing.T) {
	r := newRig(t)
	layer := mustGet(r, component.AnimationLayerComponent)

	assert.True(t, PlayEmote(r.w, r.agent, 2))
	assert.Equal(t, 2, layer.Int(component.ParamEmoteIndex))
	assert.True(t, layer.Triggered(component.ParamEmoteTrigger))

	assert.False(t, PlayEmote(r.w, r.agent, 9))
	assert.Equal(t, 2, layer.Int(component.ParamEmoteIndex))
}
