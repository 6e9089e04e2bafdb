package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/earshot/ecs"
)

// Notifications published on the world bus. Collaborators publish TakeDamage,
// Death, ExitCombat and Stun; the engine publishes the rest.
const (
	EventAttackStarted      ecs.EventKind = "attack_started"
	EventAttackEnded        ecs.EventKind = "attack_ended"
	EventGenerateNextAttack ecs.EventKind = "generate_next_attack"
	EventTakeDamage         ecs.EventKind = "take_damage"
	EventGotHit             ecs.EventKind = "got_hit"
	EventDeath              ecs.EventKind = "death"
	EventReachedWaypoint    ecs.EventKind = "reached_waypoint"
	EventExitCombat         ecs.EventKind = "exit_combat"
	EventStun               ecs.EventKind = "stun"
	EventTierChanged        ecs.EventKind = "tier_changed"
	EventReactionStarted    ecs.EventKind = "reaction_started"
	EventReactionFinished   ecs.EventKind = "reaction_finished"
	EventReactionCancelled  ecs.EventKind = "reaction_cancelled"
	EventPlaySound          ecs.EventKind = "play_sound"
	EventSpawnEffect        ecs.EventKind = "spawn_effect"
)

// TierChange is the payload of EventTierChanged.
type TierChange struct {
	From   string
	To     string
	Amount float64
}

// SoundRequest is the payload of EventPlaySound.
type SoundRequest struct {
	Clip     string
	Volume   float64
	Position cp.Vector
}

// EffectRequest is the payload of EventSpawnEffect.
type EffectRequest struct {
	Effect   string
	Seconds  float64
	Position cp.Vector
}

// ReactionNotice is the payload of the reaction lifecycle events.
type ReactionNotice struct {
	Reaction string
	RunID    uint64
}

// StunRequest is the payload of EventStun.
type StunRequest struct {
	Seconds float64
}
