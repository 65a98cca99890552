package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/dotfield/scene"
)

// Pick returns the nearest candidate whose bounding sphere the pointer ray hits
// Only the given candidates are tested; callers pass interactive entities
func (c *Camera) Pick(p NDC, candidates []*scene.Entity) *scene.Entity {
	hit, _ := PickRay(c.RayThrough(p), candidates)
	return hit
}

// PickRay returns the nearest entity hit by ray and the hit distance
func PickRay(ray Ray, candidates []*scene.Entity) (*scene.Entity, float64) {
	var (
		best  *scene.Entity
		bestT = math.Inf(1)
	)
	for _, e := range candidates {
		t, ok := IntersectSphere(ray, e.Pos, e.Radius())
		if ok && t < bestT {
			best, bestT = e, t
		}
	}
	return best, bestT
}

// IntersectSphere returns the first non-negative ray distance to a sphere
// A ray starting inside the sphere reports the exit point
func IntersectSphere(ray Ray, center r3.Vec, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := r3.Sub(ray.Origin, center)
	b := r3.Dot(oc, ray.Dir)
	c := r3.Dot(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
