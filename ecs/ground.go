package ecs

import (
	"github.com/jakecoffman/cp"
)

const (
	walkableCategory uint = 1 << 0
	blockingCategory uint = 1 << 1
)

var (
	walkableFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, walkableCategory)
	blockingFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, blockingCategory)
)

// Ground is the static walkability field agents plan waypoints against. It
// keeps walkable areas and blocking obstacles as static shapes in a Chipmunk
// space and answers point probes against them. A nil Ground treats the whole
// plane as walkable.
type Ground struct {
	space *cp.Space
}

// NewGround creates an empty ground field.
func NewGround() *Ground {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &Ground{space: space}
}

// AddWalkableRect marks the axis-aligned rectangle as walkable.
func (g *Ground) AddWalkableRect(minX, minY, maxX, maxY float64) {
	g.addRect(minX, minY, maxX, maxY, walkableCategory)
}

// AddBlockingRect carves an obstacle out of the walkable area.
func (g *Ground) AddBlockingRect(minX, minY, maxX, maxY float64) {
	g.addRect(minX, minY, maxX, maxY, blockingCategory)
}

func (g *Ground) addRect(minX, minY, maxX, maxY float64, category uint) {
	if g == nil || g.space == nil || maxX <= minX || maxY <= minY {
		return
	}
	shape := cp.NewBox2(g.space.StaticBody, cp.BB{L: minX, B: minY, R: maxX, T: maxY}, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))
	g.space.AddShape(shape)
}

// Walkable probes p: it must lie inside a walkable shape and outside every
// blocking shape.
func (g *Ground) Walkable(p cp.Vector) bool {
	if g == nil || g.space == nil {
		return true
	}
	if hit := g.space.PointQueryNearest(p, 0, walkableFilter); hit == nil || hit.Shape == nil {
		return false
	}
	if hit := g.space.PointQueryNearest(p, 0, blockingFilter); hit != nil && hit.Shape != nil {
		return false
	}
	return true
}

// SampleNavigable finds the closest walkable point within maxDistance of p.
func (g *Ground) SampleNavigable(p cp.Vector, maxDistance float64) (cp.Vector, bool) {
	if g == nil || g.space == nil {
		return p, true
	}
	hit := g.space.PointQueryNearest(p, maxDistance, walkableFilter)
	if hit == nil || hit.Shape == nil {
		return cp.Vector{}, false
	}
	if hit.Distance <= 0 {
		return p, true
	}
	return hit.Point, true
}
