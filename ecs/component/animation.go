package component

// Animator parameter names shared with the animation layer.
const (
	ParamSpeed             = "Speed"
	ParamIdleActive        = "Idle Active"
	ParamIdleIndex         = "Idle Index"
	ParamCombatStateActive = "Combat State Active"
	ParamWalkBackwards     = "Walk Backwards"
	ParamTurnLeft          = "Turn Left"
	ParamTurnRight         = "Turn Right"
	ParamBlocking          = "Blocking"
	ParamDodgeTriggered    = "Dodge Triggered"
	ParamHit               = "Hit"
	ParamHitIndex          = "Hit Index"
	ParamAttack            = "Attack"
	ParamDead              = "Dead"
	ParamDeathIndex        = "Death Index"
	ParamEmoteIndex        = "Emote Index"
	ParamEmoteTrigger      = "Emote Trigger"
	ParamStunnedActive     = "Stunned Active"
	ParamWarning           = "Warning"
)

// Animator state names the classifier recognises.
const (
	StateMovement            = "Movement"
	StateCombatMovementType1 = "Combat Movement (Type 1)"
	StateCombatMovementType2 = "Combat Movement (Type 2)"
)

// AnimatorState is a named animator state and its tags.
type AnimatorState struct {
	Name string
	Tags []string
}

func (s AnimatorState) IsName(name string) bool {
	return s.Name == name
}

func (s AnimatorState) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AnimationLayer is the agent's view of its animator. The engine writes
// Current, Previous and Transition each frame; systems read them and write
// parameters back.
type AnimationLayer struct {
	Current    AnimatorState
	Previous   AnimatorState
	Transition string

	Bools    map[string]bool
	Ints     map[string]int
	Floats   map[string]float64
	Triggers map[string]bool

	Enabled bool
}

func NewAnimationLayer() *AnimationLayer {
	return &AnimationLayer{
		Current:  AnimatorState{Name: StateMovement},
		Bools:    make(map[string]bool),
		Ints:     make(map[string]int),
		Floats:   make(map[string]float64),
		Triggers: make(map[string]bool),
		Enabled:  true,
	}
}

func (l *AnimationLayer) Bool(name string) bool {
	return l.Bools[name]
}

func (l *AnimationLayer) SetBool(name string, v bool) {
	if l.Bools == nil {
		l.Bools = make(map[string]bool)
	}
	l.Bools[name] = v
}

func (l *AnimationLayer) Int(name string) int {
	return l.Ints[name]
}

func (l *AnimationLayer) SetInt(name string, v int) {
	if l.Ints == nil {
		l.Ints = make(map[string]int)
	}
	l.Ints[name] = v
}

func (l *AnimationLayer) Float(name string) float64 {
	return l.Floats[name]
}

func (l *AnimationLayer) SetFloat(name string, v float64) {
	if l.Floats == nil {
		l.Floats = make(map[string]float64)
	}
	l.Floats[name] = v
}

func (l *AnimationLayer) SetTrigger(name string) {
	if l.Triggers == nil {
		l.Triggers = make(map[string]bool)
	}
	l.Triggers[name] = true
}

func (l *AnimationLayer) ResetTrigger(name string) {
	delete(l.Triggers, name)
}

func (l *AnimationLayer) Triggered(name string) bool {
	return l.Triggers[name]
}

var AnimationLayerComponent = NewComponent[AnimationLayer]()
