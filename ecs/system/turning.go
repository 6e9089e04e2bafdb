package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/earshot/common"
	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
)

// TurningSystem selects the left and right turn animations and runs
// in-place rotations requested by look-at steps. Positions are screen
// coordinates with y pointing down, so a positive cross product from the
// forward vector to the target means the target is on the right.
type TurningSystem struct{}

func NewTurningSystem() *TurningSystem {
	return &TurningSystem{}
}

func (s *TurningSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach2(w, component.TurningComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, turn *component.Turning, tr *component.Transform) {
		if turn.Lock {
			turn.LockTimer -= dt
			if turn.LockTimer <= 0 {
				turn.Lock = false
				turn.LockTimer = 0
			}
		}

		if turn.Rotate.Active {
			s.rotate(w, e, turn, tr, dt)
			return
		}

		nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
		if !ok || !nav.HasPath || nav.PathPending || nav.Stopped {
			return
		}
		selectTurn(w, e, turn, tr, nav.Destination.Sub(tr.Position), false)
	})
}

func (s *TurningSystem) rotate(w *ecs.World, e ecs.Entity, turn *component.Turning, tr *component.Transform, dt float64) {
	if turn.Rotate.Settle > 0 {
		turn.Rotate.Settle -= dt
		if turn.Rotate.Settle > 0 {
			return
		}
		if nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind()); ok {
			nav.Stopped = true
		}
	}

	dir := turn.Rotate.Target.Sub(tr.Position)
	if dir.LengthSq() < 1e-12 {
		finishRotation(w, e, turn)
		return
	}

	tr.Forward = rotateToward(tr.Forward, dir, common.DegToRad(turn.TurnSpeed)*dt)
	selectTurn(w, e, turn, tr, dir, true)
	if turn.Lock {
		finishRotation(w, e, turn)
	}
}

// selectTurn locks turning once the agent faces dir closely enough and
// otherwise plays the turn toward dir. bypass skips the distance check used
// for path following.
func selectTurn(w *ecs.World, e ecs.Entity, turn *component.Turning, tr *component.Transform, dir cp.Vector, bypass bool) {
	engaged := isEngaged(w, e)
	layer, _ := ecs.Get(w, e, component.AnimationLayerComponent.Kind())
	st, _ := ecs.Get(w, e, component.AnimationStateComponent.Kind())

	angle := angleBetween(tr.Forward, dir)
	if !engaged && angle <= turn.AngleToTurn && !turn.Lock {
		turn.Lock = true
		turn.LockTimer = turn.LockSeconds
		setTurn(turn, layer, false, false)
	}

	if !bypass && !canTurn(w, e, angle, turn) {
		if engaged {
			setTurn(turn, layer, false, false)
		}
		return
	}
	if (turn.Lock && !engaged) || (st != nil && st.IsBackingUp) {
		return
	}

	cross := tr.Forward.Cross(dir)
	switch {
	case cross > 0:
		setTurn(turn, layer, false, true)
	case cross < 0:
		setTurn(turn, layer, true, false)
	}
}

func canTurn(w *ecs.World, e ecs.Entity, angle float64, turn *component.Turning) bool {
	nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
	if !ok {
		return false
	}
	return angle >= turn.AngleToTurn && nav.RemainingDistance > nav.StoppingDistance
}

func setTurn(turn *component.Turning, layer *component.AnimationLayer, left, right bool) {
	turn.Left = left
	turn.Right = right
	if layer != nil {
		layer.SetBool(component.ParamTurnLeft, left)
		layer.SetBool(component.ParamTurnRight, right)
	}
}

func clearTurning(w *ecs.World, e ecs.Entity) {
	turn, ok := ecs.Get(w, e, component.TurningComponent.Kind())
	if !ok {
		return
	}
	layer, _ := ecs.Get(w, e, component.AnimationLayerComponent.Kind())
	setTurn(turn, layer, false, false)
}

// StartRotateToward turns e in place toward target. Navigation is held
// while the rotation runs.
func StartRotateToward(w *ecs.World, e ecs.Entity, target cp.Vector) bool {
	turn, ok := ecs.Get(w, e, component.TurningComponent.Kind())
	if !ok {
		return false
	}
	turn.Rotate = component.RotateToward{Active: true, Target: target, Settle: settleDelay}
	turn.Lock = false
	turn.LockTimer = 0
	return true
}

func finishRotation(w *ecs.World, e ecs.Entity, turn *component.Turning) {
	turn.Rotate = component.RotateToward{}
	if nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind()); ok {
		nav.Stopped = false
	}
}

func stopRotation(w *ecs.World, e ecs.Entity) {
	turn, ok := ecs.Get(w, e, component.TurningComponent.Kind())
	if !ok || !turn.Rotate.Active {
		return
	}
	finishRotation(w, e, turn)
	layer, _ := ecs.Get(w, e, component.AnimationLayerComponent.Kind())
	setTurn(turn, layer, false, false)
}

// angleBetween returns the unsigned angle in degrees between a and b.
func angleBetween(a, b cp.Vector) float64 {
	return common.RadToDeg(math.Abs(math.Atan2(a.Cross(b), a.Dot(b))))
}

// rotateToward rotates forward toward dir by at most maxRadians and returns
// a unit vector.
func rotateToward(forward, dir cp.Vector, maxRadians float64) cp.Vector {
	if forward.LengthSq() == 0 {
		forward = cp.Vector{X: 1}
	}
	f := forward.Normalize()
	d := dir.Normalize()
	angle := math.Atan2(f.Cross(d), f.Dot(d))
	if math.Abs(angle) <= maxRadians {
		return d
	}
	step := maxRadians
	if angle < 0 {
		step = -maxRadians
	}
	return f.Rotate(cp.ForAngle(step)).Normalize()
}
