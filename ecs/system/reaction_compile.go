package system

import (
	"fmt"
	"strings"

	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/prefabs"
)

type stepBuilder func(arg any) (component.ReactionStep, error)

// stepRegistry maps the YAML key of a step to its builder.
var stepRegistry = map[string]stepBuilder{
	"delay": func(arg any) (component.ReactionStep, error) {
		seconds, err := secondsArg(arg)
		return component.ReactionStep{Kind: component.StepDelay, Seconds: seconds}, err
	},
	"log": func(arg any) (component.ReactionStep, error) {
		msg, ok := arg.(string)
		if !ok {
			return component.ReactionStep{}, fmt.Errorf("want a message string, got %T", arg)
		}
		return component.ReactionStep{Kind: component.StepLog, Message: msg}, nil
	},
	"play_sound": func(arg any) (component.ReactionStep, error) {
		if clip, ok := arg.(string); ok {
			return component.ReactionStep{Kind: component.StepPlaySound, Clip: clip, Volume: 1}, nil
		}
		spec, err := prefabs.DecodeComponentSpec[prefabs.SoundStepSpec](arg)
		if err != nil {
			return component.ReactionStep{}, err
		}
		if spec.Clip == "" {
			return component.ReactionStep{}, fmt.Errorf("missing clip")
		}
		return component.ReactionStep{Kind: component.StepPlaySound, Clip: spec.Clip, Volume: spec.Volume}, nil
	},
	"play_effect": func(arg any) (component.ReactionStep, error) {
		spec, err := prefabs.DecodeComponentSpec[prefabs.EffectStepSpec](arg)
		if err != nil {
			return component.ReactionStep{}, err
		}
		if spec.Effect == "" {
			return component.ReactionStep{}, fmt.Errorf("missing effect")
		}
		return component.ReactionStep{Kind: component.StepPlayEffect, Clip: spec.Effect, Seconds: spec.Seconds}, nil
	},
	"play_emote": func(arg any) (component.ReactionStep, error) {
		return component.ReactionStep{Kind: component.StepPlayEmote, Emote: int(asFloat(arg))}, nil
	},
	"look_at_loudest": func(arg any) (component.ReactionStep, error) {
		seconds, err := secondsArg(arg)
		return component.ReactionStep{Kind: component.StepLookAtLoudest, Seconds: seconds}, err
	},
	"set_combat_target_to_loudest": flagStep(component.StepSetCombatTargetToLoudest),
	"return_to_start":              flagStep(component.StepReturnToStart),
	"expand_detection": func(arg any) (component.ReactionStep, error) {
		return component.ReactionStep{Kind: component.StepExpandDetection, Distance: asFloat(arg)}, nil
	},
	"reset_detection": flagStep(component.StepResetDetection),
	"set_movement_state": func(arg any) (component.ReactionStep, error) {
		name, _ := arg.(string)
		state, ok := component.ParseMovementState(strings.ToLower(name))
		if !ok {
			return component.ReactionStep{}, fmt.Errorf("unknown movement state %v", arg)
		}
		return component.ReactionStep{Kind: component.StepSetMovementState, Movement: state}, nil
	},
	"reset_look_at":        flagStep(component.StepResetLookAt),
	"reset_all_to_default": flagStep(component.StepResetAllToDefault),
	"enter_combat":         flagStep(component.StepEnterCombat),
	"exit_combat":          flagStep(component.StepExitCombat),
	"flee_from_loudest":    flagStep(component.StepFleeFromLoudest),
	"attract_to_source": func(arg any) (component.ReactionStep, error) {
		spec, err := prefabs.DecodeComponentSpec[prefabs.AttractStepSpec](arg)
		if err != nil {
			return component.ReactionStep{}, err
		}
		mode, ok := attractModes[spec.Mode]
		if !ok {
			return component.ReactionStep{}, fmt.Errorf("unknown attract mode %q", spec.Mode)
		}
		return component.ReactionStep{
			Kind:      component.StepAttractToSource,
			Attract:   mode,
			Waypoints: spec.Waypoints,
			Radius:    spec.Radius,
			Wait:      spec.Wait,
			Block:     spec.Block,
		}, nil
	},
	"move_to_loudest": func(arg any) (component.ReactionStep, error) {
		spec, err := prefabs.DecodeComponentSpec[prefabs.MoveStepSpec](arg)
		if err != nil {
			return component.ReactionStep{}, err
		}
		return component.ReactionStep{Kind: component.StepMoveToLoudest, Waypoints: 1, Wait: spec.Wait, Block: spec.Block}, nil
	},
	"move_around_self":    moveStep(component.StepMoveAroundSelf),
	"move_around_loudest": moveStep(component.StepMoveAroundLoudest),
	"wait_until": func(arg any) (component.ReactionStep, error) {
		src, err := predicateSource(arg)
		if err != nil {
			return component.ReactionStep{}, err
		}
		if _, err := compilePredicate(src); err != nil {
			return component.ReactionStep{}, err
		}
		return component.ReactionStep{Kind: component.StepWaitUntil, Script: src}, nil
	},
}

var attractModes = map[string]component.AttractMode{
	"":            component.AttractMoveTo,
	"move_to":     component.AttractMoveTo,
	"move_around": component.AttractMoveAround,
	"look_at":     component.AttractLookAt,
}

// flagStep builds steps that take no argument; `- reset_look_at: true` and
// `- reset_look_at:` are both accepted.
func flagStep(kind component.StepKind) stepBuilder {
	return func(any) (component.ReactionStep, error) {
		return component.ReactionStep{Kind: kind}, nil
	}
}

func moveStep(kind component.StepKind) stepBuilder {
	return func(arg any) (component.ReactionStep, error) {
		spec, err := prefabs.DecodeComponentSpec[prefabs.MoveStepSpec](arg)
		if err != nil {
			return component.ReactionStep{}, err
		}
		if spec.Waypoints < 0 || spec.Radius < 0 {
			return component.ReactionStep{}, fmt.Errorf("waypoints and radius must not be negative")
		}
		return component.ReactionStep{
			Kind:      kind,
			Waypoints: spec.Waypoints,
			Radius:    spec.Radius,
			Wait:      spec.Wait,
			Block:     spec.Block,
		}, nil
	}
}

func secondsArg(arg any) (float64, error) {
	if m, ok := arg.(map[string]any); ok {
		spec, err := prefabs.DecodeComponentSpec[prefabs.DelayStepSpec](m)
		return spec.Seconds, err
	}
	seconds := asFloat(arg)
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %v", arg)
	}
	return seconds, nil
}

// predicateSource accepts an inline expression or a script file reference.
func predicateSource(arg any) (string, error) {
	if expr, ok := arg.(string); ok {
		return WrapExpression(expr), nil
	}
	spec, err := prefabs.DecodeComponentSpec[prefabs.WaitUntilStepSpec](arg)
	if err != nil {
		return "", err
	}
	switch {
	case spec.Expr != "":
		return WrapExpression(spec.Expr), nil
	case spec.Script != "":
		data, err := prefabs.LoadScript(spec.Script)
		if err != nil {
			return "", fmt.Errorf("load script %s: %w", spec.Script, err)
		}
		return WrapScript(string(data)), nil
	}
	return "", fmt.Errorf("want an expression or a script")
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

// CompileReaction turns a reaction prefab into a runnable reaction.
func CompileReaction(spec prefabs.ReactionSpec) (*component.Reaction, error) {
	r := &component.Reaction{Name: spec.Name, Steps: make([]component.ReactionStep, 0, len(spec.Steps))}
	for i, raw := range spec.Steps {
		if len(raw) != 1 {
			return nil, fmt.Errorf("reaction %s: step %d: want exactly one key, got %d", spec.Name, i, len(raw))
		}
		for key, arg := range raw {
			build, ok := stepRegistry[key]
			if !ok {
				return nil, fmt.Errorf("reaction %s: step %d: unknown step %q", spec.Name, i, key)
			}
			step, err := build(arg)
			if err != nil {
				return nil, fmt.Errorf("reaction %s: step %d: %s: %w", spec.Name, i, key, err)
			}
			r.Steps = append(r.Steps, step)
		}
	}
	return r, nil
}

// LoadReaction loads and compiles a reaction prefab. An empty name yields a
// nil reaction, which the sequencer reports and skips.
func LoadReaction(filename string) (*component.Reaction, error) {
	if filename == "" {
		return nil, nil
	}
	spec, err := prefabs.LoadReactionSpec(filename)
	if err != nil {
		return nil, err
	}
	return CompileReaction(spec)
}
