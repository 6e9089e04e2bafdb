package component

import "github.com/jakecoffman/cp"

// RotateToward is the one rotate-in-place operation an agent may run.
type RotateToward struct {
	Active bool
	Target cp.Vector
	Settle float64
}

// Turning drives turn-in-place animation selection.
type Turning struct {
	Left  bool
	Right bool

	// Lock suppresses new turn selection until LockTimer runs out.
	Lock        bool
	LockTimer   float64
	LockSeconds float64

	AngleToTurn float64
	TurnSpeed   float64

	Rotate RotateToward
}

func (t *Turning) IsTurning() bool {
	return t.Left || t.Right
}

var TurningComponent = NewComponent[Turning]()
