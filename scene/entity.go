package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Entity is a single dot of the scatter
type Entity struct {
	ID          int64
	Pos         r3.Vec
	Dir         r3.Vec // Unit length
	Speed       float64
	Moving      bool
	Interactive bool
	Label       string
	BaseSize    float64

	// Visual state owned by the highlight effect
	Scale float64
	Glow  float64

	// Pinned is set while a popup is open for this entity
	Pinned bool
}

// Radius returns the current bounding sphere radius used for picking and drawing
func (e *Entity) Radius() float64 {
	return e.BaseSize * e.Scale
}

// Connector is a line between two live entities
type Connector struct {
	ID   int64
	A, B *Entity
	Thin bool

	// Endpoint geometry, refreshed from A and B every tick
	From, To r3.Vec

	// Highlight intensity 0..1 driven by the highlight effect
	Highlight float64
}

// Refresh copies the live entity positions into the endpoint geometry
func (c *Connector) Refresh() {
	c.From = c.A.Pos
	c.To = c.B.Pos
}

// Touches reports whether e is one of the endpoints
func (c *Connector) Touches(e *Entity) bool {
	return c.A == e || c.B == e
}

// Other returns the endpoint opposite e, or nil when e is not an endpoint
func (c *Connector) Other(e *Entity) *Entity {
	switch e {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	return nil
}
