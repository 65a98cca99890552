package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultBound is the half-extent of the cube entities bounce inside
const DefaultBound = 100.0

// Advance moves every moving entity one simulation step along its direction
// A coordinate past ±bound flips that axis of the direction when it still points outward;
// the position itself is never clamped, so an entity may sit one step outside before returning
func Advance(entities []*Entity, bound float64) {
	for _, e := range entities {
		if !e.Moving {
			continue
		}
		e.Pos = r3.Add(e.Pos, r3.Scale(e.Speed, e.Dir))
		reflectAxis(e.Pos.X, &e.Dir.X, bound)
		reflectAxis(e.Pos.Y, &e.Dir.Y, bound)
		reflectAxis(e.Pos.Z, &e.Dir.Z, bound)
	}
}

// reflectAxis negates dir when pos is beyond the bound and dir heads further out
func reflectAxis(pos float64, dir *float64, bound float64) {
	if (pos > bound && *dir > 0) || (pos < -bound && *dir < 0) {
		*dir = -*dir
	}
}

// SetSpeed assigns speed to every entity except skip (which may be nil)
func SetSpeed(entities []*Entity, speed float64, skip *Entity) {
	for _, e := range entities {
		if e == skip {
			continue
		}
		e.Speed = speed
	}
}
