package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NDC is a normalized device coordinate, both axes in [-1,1], +Y up
type NDC struct {
	X, Y float64
}

// Ray is a half-line in world space with unit direction
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// CellAspect is the height/width ratio of a terminal cell
const CellAspect = 2.0

// Camera is a perspective camera on the +Z axis looking toward the origin
type Camera struct {
	FOV      float64 // Vertical, degrees
	Near     float64
	Far      float64
	Distance float64 // Z position

	MinDistance float64
	MaxDistance float64
	WheelFactor float64 // World units per wheel delta unit

	// Aspect is viewport width/height in pixel terms
	Aspect float64

	tanHalf float64
}

// New creates a camera; Aspect defaults to 1 until SetViewport is called
func New(fov, near, far, distance float64) *Camera {
	c := &Camera{
		FOV:         fov,
		Near:        near,
		Far:         far,
		Distance:    distance,
		MinDistance: 50,
		MaxDistance: 200,
		WheelFactor: 0.1,
		Aspect:      1,
	}
	c.updateProjection()
	return c
}

func (c *Camera) updateProjection() {
	c.tanHalf = math.Tan(c.FOV * math.Pi / 360)
}

// SetFOV changes the vertical field of view
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.updateProjection()
}

// SetViewport derives the aspect ratio from a cell grid
func (c *Camera) SetViewport(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	c.Aspect = float64(cols) / (float64(rows) * CellAspect)
}

// Position returns the eye point
func (c *Camera) Position() r3.Vec {
	return r3.Vec{Z: c.Distance}
}

// Zoom moves the camera along Z by deltaY scaled by WheelFactor, clamped to [MinDistance, MaxDistance]
func (c *Camera) Zoom(deltaY float64) {
	c.Distance = max(c.MinDistance, min(c.MaxDistance, c.Distance+deltaY*c.WheelFactor))
}

// RayThrough returns the world ray from the eye through a pointer position
func (c *Camera) RayThrough(p NDC) Ray {
	dir := r3.Vec{
		X: p.X * c.tanHalf * c.Aspect,
		Y: p.Y * c.tanHalf,
		Z: -1,
	}
	return Ray{Origin: c.Position(), Dir: r3.Unit(dir)}
}

// Project maps a world point to NDC and returns its view depth
// ok is false when the point is outside the near/far range
func (c *Camera) Project(p r3.Vec) (ndc NDC, depth float64, ok bool) {
	rel := r3.Sub(p, c.Position())
	depth = -rel.Z
	if depth < c.Near || depth > c.Far {
		return NDC{}, depth, false
	}
	ndc = NDC{
		X: rel.X / (depth * c.tanHalf * c.Aspect),
		Y: rel.Y / (depth * c.tanHalf),
	}
	return ndc, depth, true
}

// ProjectedRadius converts a world radius at a given depth to viewport rows
func (c *Camera) ProjectedRadius(radius, depth float64, rows int) float64 {
	if depth <= 0 {
		return 0
	}
	return radius / (depth * c.tanHalf) * float64(rows) / 2
}

// ToScreen maps NDC to fractional cell coordinates, origin top-left
func ToScreen(p NDC, cols, rows int) (x, y float64) {
	x = (p.X*0.5 + 0.5) * float64(cols)
	y = (-p.Y*0.5 + 0.5) * float64(rows)
	return x, y
}

// FromScreen maps the centre of a cell to NDC
func FromScreen(cellX, cellY, cols, rows int) NDC {
	if cols <= 0 || rows <= 0 {
		return NDC{}
	}
	return NDC{
		X: (float64(cellX)+0.5)/float64(cols)*2 - 1,
		Y: -((float64(cellY)+0.5)/float64(rows)*2 - 1),
	}
}
