package component

// AnimState is the classified animation state. Values are bit flags so hit
// conditions can be expressed as a mask of states.
type AnimState uint32

const (
	AnimIdling AnimState = 1 << iota
	AnimMoving
	AnimTurningLeft
	AnimTurningRight
	AnimEquipping
	AnimBlocking
	AnimRecoiling
	AnimStunned
	AnimStrafing
	AnimDodging
	AnimBackingUp
	AnimAttacking
	AnimGettingHit
	AnimDead
	AnimEmoting
	AnimSwitchingWeapons
)

var animStateNames = []struct {
	state AnimState
	name  string
}{
	{AnimIdling, "idling"},
	{AnimMoving, "moving"},
	{AnimTurningLeft, "turning_left"},
	{AnimTurningRight, "turning_right"},
	{AnimEquipping, "equipping"},
	{AnimBlocking, "blocking"},
	{AnimRecoiling, "recoiling"},
	{AnimStunned, "stunned"},
	{AnimStrafing, "strafing"},
	{AnimDodging, "dodging"},
	{AnimBackingUp, "backing_up"},
	{AnimAttacking, "attacking"},
	{AnimGettingHit, "getting_hit"},
	{AnimDead, "dead"},
	{AnimEmoting, "emoting"},
	{AnimSwitchingWeapons, "switching_weapons"},
}

func (s AnimState) String() string {
	for _, n := range animStateNames {
		if n.state == s {
			return n.name
		}
	}
	return "none"
}

// ParseAnimStates builds a mask from state names.
func ParseAnimStates(names []string) (AnimState, bool) {
	var mask AnimState
	for _, name := range names {
		found := false
		for _, n := range animStateNames {
			if n.name == name {
				mask |= n.state
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return mask, true
}

// AnimationState is the per-tick classification plus the flags it was
// derived from and the timers of the reactions it gates.
type AnimationState struct {
	Current AnimState

	IsIdling           bool
	IsMoving           bool
	IsEquipping        bool
	IsBlocking         bool
	IsRecoiling        bool
	IsStunned          bool
	IsStrafing         bool
	IsDodging          bool
	IsBackingUp        bool
	IsAttacking        bool
	IsGettingHit       bool
	IsWarning          bool
	IsEmoting          bool
	IsSwitchingWeapons bool
	IsDead             bool

	BusyBetweenStates bool

	InternalHit      bool
	InternalHitTimer float64
	InternalDodge    bool

	AttackingTracker   bool
	AttackTriggered    bool
	AttackTriggerTimer float64

	LastHitTime float64
	HasBeenHit  bool

	WarningTriggered bool

	StunPending bool
	StunDelay   float64
	StunLength  float64
	StunTimer   float64

	DisableTimer float64
}

var AnimationStateComponent = NewComponent[AnimationState]()
