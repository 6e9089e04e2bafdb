package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// AgentSpec describes one perceiving agent.
type AgentSpec struct {
	Name       string         `yaml:"name"`
	Transform  TransformSpec  `yaml:"transform"`
	Wander     string         `yaml:"wander"`
	Movement   string         `yaml:"movement"`
	Weapon     int            `yaml:"weapon"`
	Detection  DetectionSpec  `yaml:"detection"`
	Telemetry  TelemetrySpec  `yaml:"telemetry"`
	Threat     ThreatSpec     `yaml:"threat"`
	Reactions  ReactionRefs   `yaml:"reactions"`
	Navigation NavigationSpec `yaml:"navigation"`
	Turning    TurningSpec    `yaml:"turning"`
	Animation  AnimationSpec  `yaml:"animation"`
	Sequencer  SequencerSpec  `yaml:"sequencer"`
}

func LoadAgentSpec(filename string) (AgentSpec, error) {
	return LoadSpec[AgentSpec](filename)
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ForwardX float64 `yaml:"forward_x"`
	ForwardY float64 `yaml:"forward_y"`
}

type DetectionSpec struct {
	Radius    float64 `yaml:"radius"`
	PlayerTag string  `yaml:"player_tag"`
}

type TelemetrySpec struct {
	MinVelocity float64 `yaml:"min_velocity"`
}

// ThreatSpec overrides the default threat tuning. Unset fields keep their
// defaults.
type ThreatSpec struct {
	AttentionRate    *float64 `yaml:"attention_rate"`
	VelocityFactor   *float64 `yaml:"velocity_factor"`
	DistanceFactor   *float64 `yaml:"distance_factor"`
	Falloff          *float64 `yaml:"falloff"`
	FalloffDelay     *float64 `yaml:"falloff_delay"`
	DowngradeDelay   *float64 `yaml:"downgrade_delay"`
	ExternalCooldown *float64 `yaml:"external_cooldown"`
	BaselineLevel    *float64 `yaml:"baseline_level"`
	ElevatedLevel    *float64 `yaml:"elevated_level"`
	ConfirmedLevel   *float64 `yaml:"confirmed_level"`
}

// ReactionRefs names the reaction files bound to each tier.
type ReactionRefs struct {
	Baseline  string `yaml:"baseline"`
	Elevated  string `yaml:"elevated"`
	Confirmed string `yaml:"confirmed"`
}

type NavigationSpec struct {
	WalkSpeed        float64 `yaml:"walk_speed"`
	RunSpeed         float64 `yaml:"run_speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
}

type TurningSpec struct {
	AngleToTurn float64 `yaml:"angle_to_turn"`
	TurnSpeed   float64 `yaml:"turn_speed"`
	LockSeconds float64 `yaml:"lock_seconds"`
}

type AnimationSpec struct {
	Idles         int                  `yaml:"idles"`
	NonCombatHits int                  `yaml:"non_combat_hits"`
	Emotes        []int                `yaml:"emotes"`
	Type1         WeaponAnimationsSpec `yaml:"type1"`
	Type2         WeaponAnimationsSpec `yaml:"type2"`
}

type WeaponAnimationsSpec struct {
	Hits          int       `yaml:"hits"`
	DeathClips    []float64 `yaml:"death_clips"`
	HitCooldown   float64   `yaml:"hit_cooldown"`
	HitConditions []string  `yaml:"hit_conditions"`
	Stunned       bool      `yaml:"stunned"`
	Warning       bool      `yaml:"warning"`
}

type SequencerSpec struct {
	// MaxJitter bounds the random start delay; negative disables it and
	// zero keeps the default.
	MaxJitter float64 `yaml:"max_jitter"`
}

// ReactionSpec is an ordered list of single-key step maps, for example
// `- delay: 1.5` or `- move_around_self: {waypoints: 3, radius: 4}`.
type ReactionSpec struct {
	Name  string           `yaml:"name"`
	Steps []map[string]any `yaml:"steps"`
}

func LoadReactionSpec(filename string) (ReactionSpec, error) {
	spec, err := LoadSpec[ReactionSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Name == "" {
		spec.Name = filename
	}
	return spec, nil
}
