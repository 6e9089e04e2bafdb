package component

// StepKind tags a ReactionStep.
type StepKind int

const (
	StepDelay StepKind = iota + 1
	StepLog
	StepPlaySound
	StepPlayEffect
	StepPlayEmote
	StepLookAtLoudest
	StepSetCombatTargetToLoudest
	StepReturnToStart
	StepExpandDetection
	StepResetDetection
	StepSetMovementState
	StepResetLookAt
	StepResetAllToDefault
	StepEnterCombat
	StepExitCombat
	StepFleeFromLoudest
	StepAttractToSource
	StepMoveToLoudest
	StepMoveAroundSelf
	StepMoveAroundLoudest
	StepWaitUntil
)

var stepKindNames = map[StepKind]string{
	StepDelay:                    "delay",
	StepLog:                      "log",
	StepPlaySound:                "play_sound",
	StepPlayEffect:               "play_effect",
	StepPlayEmote:                "play_emote",
	StepLookAtLoudest:            "look_at_loudest",
	StepSetCombatTargetToLoudest: "set_combat_target_to_loudest",
	StepReturnToStart:            "return_to_start",
	StepExpandDetection:          "expand_detection",
	StepResetDetection:           "reset_detection",
	StepSetMovementState:         "set_movement_state",
	StepResetLookAt:              "reset_look_at",
	StepResetAllToDefault:        "reset_all_to_default",
	StepEnterCombat:              "enter_combat",
	StepExitCombat:               "exit_combat",
	StepFleeFromLoudest:          "flee_from_loudest",
	StepAttractToSource:          "attract_to_source",
	StepMoveToLoudest:            "move_to_loudest",
	StepMoveAroundSelf:           "move_around_self",
	StepMoveAroundLoudest:        "move_around_loudest",
	StepWaitUntil:                "wait_until",
}

func (k StepKind) String() string {
	if name, ok := stepKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// UsesLoudest reports whether the step ranks targets by salience.
func (k StepKind) UsesLoudest() bool {
	switch k {
	case StepLookAtLoudest, StepSetCombatTargetToLoudest, StepFleeFromLoudest,
		StepMoveToLoudest, StepMoveAroundLoudest:
		return true
	}
	return false
}

// IsMovement reports whether the step hands off to the waypoint planner.
func (k StepKind) IsMovement() bool {
	switch k {
	case StepMoveToLoudest, StepMoveAroundSelf, StepMoveAroundLoudest:
		return true
	}
	return false
}

// AttractMode is the sub-mode of an attract-toward-source step.
type AttractMode int

const (
	AttractMoveTo AttractMode = iota
	AttractMoveAround
	AttractLookAt
)

// ReactionStep is one typed step. Only the fields relevant to Kind are set.
type ReactionStep struct {
	Kind StepKind

	Seconds  float64
	Message  string
	Clip     string
	Volume   float64
	Emote    int
	Distance float64
	Movement MovementState
	Attract  AttractMode

	Waypoints int
	Radius    float64
	Wait      float64
	Block     bool

	Script string
}

// Reaction is an immutable ordered list of steps.
type Reaction struct {
	Name  string
	Steps []ReactionStep
}
