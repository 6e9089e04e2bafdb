package component

import "github.com/jakecoffman/cp"

// Transform places an entity on the plane. Coordinates are screen-style with
// Y pointing down. Forward is a unit vector.
type Transform struct {
	Position cp.Vector
	Forward  cp.Vector
}

var TransformComponent = NewComponent[Transform]()
