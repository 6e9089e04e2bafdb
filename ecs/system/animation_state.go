package system

import (
	"strconv"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/logging"
)

const (
	attackTriggerWindow = 0.5
	internalHitWindow   = 0.5
	stunDelay           = 0.5
	idleSpeedThreshold  = 0.1
)

// Transitions during which the animator is considered busy.
var busyTransitions = map[string]bool{
	"Equip -> Movement":   true,
	"Unequip -> Movement": true,
	"Hit -> Movement":     true,
	"Attack -> Movement":  true,
	"Emote -> Movement":   true,
}

// AnimationStateSystem classifies the animator layer into one current state
// each tick and reacts to hits, deaths, stuns and waypoint arrivals.
type AnimationStateSystem struct{}

func NewAnimationStateSystem() *AnimationStateSystem {
	return &AnimationStateSystem{}
}

// Register subscribes to the collaborator events the animator reacts to.
func (s *AnimationStateSystem) Register(w *ecs.World) {
	bus := w.Events()
	bus.Subscribe(EventTakeDamage, onTakeDamage)
	bus.Subscribe(EventDeath, onDeath)
	bus.Subscribe(EventExitCombat, onExitCombat)
	bus.Subscribe(EventReachedWaypoint, onReachedWaypoint)
	bus.Subscribe(EventStun, onStun)
}

func (s *AnimationStateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach2(w, component.AnimationStateComponent.Kind(), component.AnimationLayerComponent.Kind(), func(e ecs.Entity, st *component.AnimationState, layer *component.AnimationLayer) {
		combat, _ := ecs.Get(w, e, component.CombatComponent.Kind())
		turn, _ := ecs.Get(w, e, component.TurningComponent.Kind())
		if agent, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok && agent.Dead {
			st.IsDead = true
		}

		tickAnimationTimers(st, layer, dt)
		classify(st, layer, combat, turn)
		trackAttack(w, e, st, turn)
	})
}

func tickAnimationTimers(st *component.AnimationState, layer *component.AnimationLayer, dt float64) {
	if st.AttackTriggered && st.AttackTriggerTimer > 0 {
		st.AttackTriggerTimer -= dt
		if st.AttackTriggerTimer <= 0 {
			st.AttackTriggered = false
		}
	}

	if st.InternalHit {
		st.InternalHitTimer -= dt
		if st.InternalHitTimer <= 0 {
			st.InternalHit = false
			st.AttackTriggered = false
		}
	}

	if st.StunPending {
		st.StunDelay -= dt
		if st.StunDelay <= 0 {
			st.StunPending = false
			if st.IsDodging || st.IsDead || st.IsBlocking || st.IsStunned {
				layer.SetBool(component.ParamStunnedActive, false)
			} else {
				layer.SetBool(component.ParamStunnedActive, true)
				st.StunTimer = st.StunLength
			}
		}
	} else if st.StunTimer > 0 {
		st.StunTimer -= dt
		if st.StunTimer <= 0 {
			st.StunTimer = 0
			layer.SetBool(component.ParamStunnedActive, false)
		}
	}

	if st.DisableTimer > 0 {
		st.DisableTimer -= dt
		if st.DisableTimer <= 0 {
			st.DisableTimer = 0
			layer.Enabled = false
		}
	}
}

// classify derives the state flags from the layer and picks the current
// state. Later flags in the cascade win; when no flag is set the previous
// state is kept. Dead overrides everything.
func classify(st *component.AnimationState, layer *component.AnimationLayer, combat *component.Combat, turn *component.Turning) {
	cur := layer.Current
	speed := layer.Float(component.ParamSpeed)
	inCombat := combat != nil && combat.Engaged

	st.IsBackingUp = cur.HasTag("Backing Up") || layer.Bool(component.ParamWalkBackwards)
	st.IsAttacking = cur.HasTag("Attack")

	if !inCombat {
		st.IsIdling = (cur.IsName(component.StateMovement) && speed < idleSpeedThreshold && !st.IsBackingUp) || cur.HasTag("Idle")
		st.IsMoving = cur.IsName(component.StateMovement) && speed >= idleSpeedThreshold && !st.IsBackingUp
	} else {
		name := component.StateCombatMovementType1
		if combat.Weapon == component.WeaponType2 {
			name = component.StateCombatMovementType2
		}
		st.IsIdling = cur.IsName(name) && speed < idleSpeedThreshold
		st.IsMoving = cur.IsName(name) && speed >= idleSpeedThreshold && !st.IsBackingUp && !st.IsAttacking
	}

	st.IsEquipping = cur.HasTag("Equip")
	st.IsBlocking = cur.HasTag("Block")
	st.IsRecoiling = cur.HasTag("Recoil")
	st.IsStunned = cur.HasTag("Stunned")
	st.IsStrafing = cur.HasTag("Strafing")
	st.IsDodging = cur.HasTag("Dodging") || st.InternalDodge
	st.IsGettingHit = cur.HasTag("Hit")
	st.IsWarning = cur.HasTag("Warning")
	st.IsEmoting = cur.HasTag("Emote")
	st.IsSwitchingWeapons = cur.HasTag("Switch Weapon")
	st.BusyBetweenStates = busyTransitions[layer.Transition]

	left := turn != nil && turn.Left
	right := turn != nil && turn.Right

	next := st.Current
	cascade := []struct {
		on    bool
		state component.AnimState
	}{
		{st.IsIdling, component.AnimIdling},
		{st.IsMoving, component.AnimMoving},
		{left, component.AnimTurningLeft},
		{right, component.AnimTurningRight},
		{st.IsEquipping, component.AnimEquipping},
		{st.IsBlocking, component.AnimBlocking},
		{st.IsRecoiling, component.AnimRecoiling},
		{st.IsStunned, component.AnimStunned},
		{st.IsStrafing, component.AnimStrafing},
		{st.IsDodging, component.AnimDodging},
		{st.IsBackingUp, component.AnimBackingUp},
		{st.IsAttacking, component.AnimAttacking},
		{st.IsGettingHit, component.AnimGettingHit},
		{st.IsEmoting, component.AnimEmoting},
		{st.IsSwitchingWeapons, component.AnimSwitchingWeapons},
		{st.IsDead, component.AnimDead},
	}
	for _, c := range cascade {
		if c.on {
			next = c.state
		}
	}
	st.Current = next
}

// trackAttack emits the attack edges and clears the attack trigger once the
// agent does anything that rules the attack out.
func trackAttack(w *ecs.World, e ecs.Entity, st *component.AnimationState, turn *component.Turning) {
	switch {
	case st.IsAttacking && !st.AttackingTracker:
		st.AttackingTracker = true
		st.AttackTriggered = true
		st.AttackTriggerTimer = attackTriggerWindow
		w.Publish(EventAttackStarted, e, nil)
	case !st.IsAttacking && st.AttackingTracker:
		st.AttackingTracker = false
		w.Publish(EventAttackEnded, e, nil)
		w.Publish(EventGenerateNextAttack, e, nil)
	}

	if !st.AttackTriggered {
		return
	}
	turning := turn != nil && turn.IsTurning()
	if st.IsMoving || turning || st.IsStunned || st.IsStrafing || st.IsBackingUp ||
		st.IsBlocking || st.IsDodging || st.InternalHit || !st.AttackingTracker {
		st.AttackTriggered = false
	}
}

type animationTarget struct {
	agent   *component.Agent
	st      *component.AnimationState
	layer   *component.AnimationLayer
	profile *component.AnimationProfile
	combat  *component.Combat
}

func animationTargetOf(w *ecs.World, e ecs.Entity) (animationTarget, bool) {
	var t animationTarget
	var ok bool
	if t.agent, ok = ecs.Get(w, e, component.AgentComponent.Kind()); !ok {
		return t, false
	}
	if t.st, ok = ecs.Get(w, e, component.AnimationStateComponent.Kind()); !ok {
		return t, false
	}
	if t.layer, ok = ecs.Get(w, e, component.AnimationLayerComponent.Kind()); !ok {
		return t, false
	}
	if t.profile, ok = ecs.Get(w, e, component.AnimationProfileComponent.Kind()); !ok {
		t.profile = &component.AnimationProfile{}
	}
	if t.combat, ok = ecs.Get(w, e, component.CombatComponent.Kind()); !ok {
		t.combat = &component.Combat{Weapon: component.WeaponType1}
	}
	return t, true
}

func onTakeDamage(w *ecs.World, evt ecs.Event) {
	t, ok := animationTargetOf(w, evt.Entity)
	if !ok || t.agent.Dead || t.st.IsDead {
		return
	}
	st, layer := t.st, t.layer
	anims := t.profile.For(t.combat.Weapon)

	now := w.Elapsed()
	if st.HasBeenHit && now < st.LastHitTime+anims.HitCooldown {
		return
	}
	st.LastHitTime = now
	st.HasBeenHit = true

	if !t.combat.Engaged {
		if t.profile.NonCombatHits == 0 && !st.IsBlocking {
			return
		}
		cycleHitIndex(layer, t.profile.NonCombatHits)
	} else if !st.IsBlocking {
		if anims.Hits == 0 {
			return
		}
		cycleHitIndex(layer, anims.Hits)
	}

	if !st.IsBlocking && layer.Bool(component.ParamBlocking) {
		layer.SetBool(component.ParamBlocking, false)
	}

	if !st.IsDodging && !st.IsSwitchingWeapons && !st.IsEquipping && !layer.Triggered(component.ParamDodgeTriggered) {
		if anims.HitConditions&st.Current != 0 {
			st.InternalHit = true
			st.InternalHitTimer = internalHitWindow
			st.AttackTriggered = false
			layer.SetTrigger(component.ParamHit)
			w.Publish(EventGotHit, evt.Entity, nil)
		}
	}

	layer.ResetTrigger(component.ParamAttack)
}

func cycleHitIndex(layer *component.AnimationLayer, count int) {
	if count <= 0 {
		return
	}
	next := layer.Int(component.ParamHitIndex) + 1
	if next > count {
		next = 1
	}
	layer.SetInt(component.ParamHitIndex, next)
}

func onDeath(w *ecs.World, evt ecs.Event) {
	t, ok := animationTargetOf(w, evt.Entity)
	if !ok {
		return
	}
	CancelAll(w, evt.Entity, true)
	t.agent.Dead = true
	t.st.IsDead = true
	t.st.Current = component.AnimDead

	anims := t.profile.For(t.combat.Weapon)
	if len(anims.DeathClips) == 0 {
		logging.Debug().Add(logging.Agent(uint64(evt.Entity))).Msg("animation: no death clip")
		return
	}
	index := agentRand(t.agent).IntN(len(anims.DeathClips)) + 1
	t.layer.SetInt(component.ParamDeathIndex, index)
	t.layer.SetTrigger(component.ParamDead)
	t.st.DisableTimer = anims.DeathClips[index-1]
}

func onExitCombat(w *ecs.World, evt ecs.Event) {
	t, ok := animationTargetOf(w, evt.Entity)
	if !ok {
		return
	}
	t.layer.SetBool(component.ParamCombatStateActive, false)
	t.st.WarningTriggered = false
}

func onReachedWaypoint(w *ecs.World, evt ecs.Event) {
	t, ok := animationTargetOf(w, evt.Entity)
	if !ok || t.combat.Engaged || t.profile.Idles <= 0 {
		return
	}
	t.layer.SetInt(component.ParamIdleIndex, agentRand(t.agent).IntN(t.profile.Idles)+1)
	t.layer.SetBool(component.ParamIdleActive, true)
}

func onStun(w *ecs.World, evt ecs.Event) {
	t, ok := animationTargetOf(w, evt.Entity)
	if !ok || t.st.IsDead {
		return
	}
	req, _ := evt.Data.(StunRequest)
	if !t.profile.For(t.combat.Weapon).Stunned {
		return
	}
	if t.st.IsStunned || t.layer.Bool(component.ParamBlocking) || t.layer.Triggered(component.ParamDodgeTriggered) || t.st.IsDodging {
		return
	}
	t.st.StunPending = true
	t.st.StunDelay = stunDelay
	t.st.StunLength = req.Seconds
}

// PlayEmote plays emote id when the agent's profile has it.
func PlayEmote(w *ecs.World, e ecs.Entity, id int) bool {
	t, ok := animationTargetOf(w, e)
	if !ok {
		return false
	}
	if !t.profile.HasEmote(id) {
		logging.Warn().
			Add(logging.Agent(uint64(e))).
			Add(logging.Str("emote", strconv.Itoa(id))).
			Msg("animation: emote not in profile")
		return false
	}
	t.layer.SetInt(component.ParamEmoteIndex, id)
	t.layer.SetTrigger(component.ParamEmoteTrigger)
	t.st.IsMoving = false
	return true
}
