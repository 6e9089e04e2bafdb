package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/ecs/system"
	"github.com/milk9111/earshot/prefabs"
)

// NewAgent builds a perceiving agent from an agent prefab. seed feeds the
// agent's own random source.
func NewAgent(w *ecs.World, filename string, seed uint64) (ecs.Entity, error) {
	spec, err := prefabs.LoadAgentSpec(filename)
	if err != nil {
		return 0, fmt.Errorf("agent: load spec: %w", err)
	}
	reactions, err := LoadReactions(spec.Reactions)
	if err != nil {
		return 0, fmt.Errorf("agent %s: %w", spec.Name, err)
	}

	wander := component.WanderStationary
	if spec.Wander != "" {
		mode, ok := component.ParseWanderMode(spec.Wander)
		if !ok {
			return 0, fmt.Errorf("agent %s: unknown wander mode %q", spec.Name, spec.Wander)
		}
		wander = mode
	}
	movement := component.MovementWalk
	if spec.Movement != "" {
		state, ok := component.ParseMovementState(spec.Movement)
		if !ok {
			return 0, fmt.Errorf("agent %s: unknown movement state %q", spec.Name, spec.Movement)
		}
		movement = state
	}
	profile, err := animationProfile(spec.Animation)
	if err != nil {
		return 0, fmt.Errorf("agent %s: %w", spec.Name, err)
	}

	threat := threatConfig(spec.Threat)
	pos := cp.Vector{X: spec.Transform.X, Y: spec.Transform.Y}
	forward := cp.Vector{X: spec.Transform.ForwardX, Y: spec.Transform.ForwardY}
	if forward.LengthSq() == 0 {
		forward = cp.Vector{X: 1}
	}
	weapon := component.WeaponType1
	if spec.Weapon == int(component.WeaponType2) {
		weapon = component.WeaponType2
	}
	lockSeconds := spec.Turning.LockSeconds
	if lockSeconds <= 0 {
		lockSeconds = 1
	}

	entity := ecs.CreateEntity(w)
	add := func(name string, fn func() error) error {
		if err := fn(); err != nil {
			ecs.DestroyEntity(w, entity)
			return fmt.Errorf("agent %s: add %s: %w", spec.Name, name, err)
		}
		return nil
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"agent", func() error {
			return ecs.Add(w, entity, component.AgentComponent.Kind(), &component.Agent{
				Name:                  spec.Name,
				StartPosition:         pos,
				StartingWanderMode:    wander,
				WanderMode:            wander,
				StartingMovementState: movement,
				MovementState:         movement,
				DetectorEnabled:       true,
				Rand:                  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
			})
		}},
		{"transform", func() error {
			return ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: pos, Forward: forward.Normalize()})
		}},
		{"detection", func() error {
			return ecs.Add(w, entity, component.DetectionComponent.Kind(), &component.Detection{
				Radius:         spec.Detection.Radius,
				StartingRadius: spec.Detection.Radius,
				PlayerTag:      spec.Detection.PlayerTag,
			})
		}},
		{"telemetry", func() error {
			return ecs.Add(w, entity, component.TelemetryComponent.Kind(), &component.Telemetry{MinVelocity: spec.Telemetry.MinVelocity})
		}},
		{"threat", func() error {
			return ecs.Add(w, entity, component.ThreatComponent.Kind(), &component.Threat{
				Config:                threat,
				Reactions:             reactions,
				SinceExternalReaction: threat.ExternalCooldown,
			})
		}},
		{"combat", func() error {
			return ecs.Add(w, entity, component.CombatComponent.Kind(), &component.Combat{Weapon: weapon})
		}},
		{"navigation", func() error {
			return ecs.Add(w, entity, component.NavigationComponent.Kind(), &component.Navigation{
				WalkSpeed:        spec.Navigation.WalkSpeed,
				RunSpeed:         spec.Navigation.RunSpeed,
				StoppingDistance: spec.Navigation.StoppingDistance,
			})
		}},
		{"turning", func() error {
			return ecs.Add(w, entity, component.TurningComponent.Kind(), &component.Turning{
				AngleToTurn: spec.Turning.AngleToTurn,
				TurnSpeed:   spec.Turning.TurnSpeed,
				LockSeconds: lockSeconds,
			})
		}},
		{"sequencer", func() error {
			return ecs.Add(w, entity, component.SequencerComponent.Kind(), &component.Sequencer{MaxJitter: spec.Sequencer.MaxJitter})
		}},
		{"movement_loop", func() error {
			return ecs.Add(w, entity, component.MovementLoopComponent.Kind(), &component.MovementLoop{})
		}},
		{"animation_layer", func() error {
			return ecs.Add(w, entity, component.AnimationLayerComponent.Kind(), component.NewAnimationLayer())
		}},
		{"animation_state", func() error {
			return ecs.Add(w, entity, component.AnimationStateComponent.Kind(), &component.AnimationState{Current: component.AnimIdling})
		}},
		{"animation_profile", func() error {
			return ecs.Add(w, entity, component.AnimationProfileComponent.Kind(), profile)
		}},
	}
	for _, s := range steps {
		if err := add(s.name, s.fn); err != nil {
			return 0, err
		}
	}

	return entity, nil
}

// NewTarget creates something agents can perceive: a tagged position.
func NewTarget(w *ecs.World, tag string, pos cp.Vector) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)
	if err := ecs.Add(w, entity, component.TagComponent.Kind(), &component.Tag{Name: tag}); err != nil {
		return 0, fmt.Errorf("target: add tag: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: pos, Forward: cp.Vector{X: 1}}); err != nil {
		return 0, fmt.Errorf("target: add transform: %w", err)
	}
	return entity, nil
}

// LoadReactions compiles the reactions bound to each tier.
func LoadReactions(refs prefabs.ReactionRefs) (component.ThreatReactions, error) {
	var out component.ThreatReactions
	var err error
	if out.Baseline, err = system.LoadReaction(refs.Baseline); err != nil {
		return out, err
	}
	if out.Elevated, err = system.LoadReaction(refs.Elevated); err != nil {
		return out, err
	}
	if out.Confirmed, err = system.LoadReaction(refs.Confirmed); err != nil {
		return out, err
	}
	return out, nil
}

// ReloadReactions recompiles the reactions of every agent built from
// filename. A run already in progress keeps the reaction it started with.
func ReloadReactions(w *ecs.World, filename string) (int, error) {
	spec, err := prefabs.LoadAgentSpec(filename)
	if err != nil {
		return 0, err
	}
	reactions, err := LoadReactions(spec.Reactions)
	if err != nil {
		return 0, fmt.Errorf("agent %s: %w", spec.Name, err)
	}

	n := 0
	ecs.ForEach2(w, component.AgentComponent.Kind(), component.ThreatComponent.Kind(), func(e ecs.Entity, agent *component.Agent, th *component.Threat) {
		if agent.Name != spec.Name {
			return
		}
		th.Reactions = reactions
		n++
	})
	return n, nil
}

func threatConfig(spec prefabs.ThreatSpec) component.ThreatConfig {
	cfg := component.DefaultThreatConfig()
	override := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	override(&cfg.AttentionRate, spec.AttentionRate)
	override(&cfg.VelocityFactor, spec.VelocityFactor)
	override(&cfg.DistanceFactor, spec.DistanceFactor)
	override(&cfg.Falloff, spec.Falloff)
	override(&cfg.FalloffDelay, spec.FalloffDelay)
	override(&cfg.DowngradeDelay, spec.DowngradeDelay)
	override(&cfg.ExternalCooldown, spec.ExternalCooldown)
	override(&cfg.BaselineLevel, spec.BaselineLevel)
	override(&cfg.ElevatedLevel, spec.ElevatedLevel)
	override(&cfg.ConfirmedLevel, spec.ConfirmedLevel)
	return cfg
}

func animationProfile(spec prefabs.AnimationSpec) (*component.AnimationProfile, error) {
	type1, err := weaponAnimations(spec.Type1)
	if err != nil {
		return nil, fmt.Errorf("type1: %w", err)
	}
	type2, err := weaponAnimations(spec.Type2)
	if err != nil {
		return nil, fmt.Errorf("type2: %w", err)
	}
	return &component.AnimationProfile{
		Idles:         spec.Idles,
		NonCombatHits: spec.NonCombatHits,
		Emotes:        append([]int(nil), spec.Emotes...),
		Type1:         type1,
		Type2:         type2,
	}, nil
}

func weaponAnimations(spec prefabs.WeaponAnimationsSpec) (component.WeaponAnimations, error) {
	mask, ok := component.ParseAnimStates(spec.HitConditions)
	if !ok {
		return component.WeaponAnimations{}, fmt.Errorf("unknown hit condition in %v", spec.HitConditions)
	}
	return component.WeaponAnimations{
		Hits:          spec.Hits,
		DeathClips:    append([]float64(nil), spec.DeathClips...),
		HitCooldown:   spec.HitCooldown,
		HitConditions: mask,
		Stunned:       spec.Stunned,
		Warning:       spec.Warning,
	}, nil
}
