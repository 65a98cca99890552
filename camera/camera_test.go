package camera

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/dotfield/scene"
)

func TestZoom_Clamped(t *testing.T) {
	c := New(75, 0.1, 2000, 100)

	c.Zoom(500)
	assert.InDelta(t, 150, c.Distance, 1e-9)

	c.Zoom(500)
	assert.InDelta(t, 200, c.Distance, 1e-9, "max clamp")

	c.Zoom(-5000)
	assert.InDelta(t, 50, c.Distance, 1e-9, "min clamp")
}

func TestProject_RayRoundTrip(t *testing.T) {
	c := New(75, 0.1, 2000, 100)
	c.SetViewport(120, 40)

	p := r3.Vec{X: 12, Y: -7, Z: 20}
	ndc, depth, ok := c.Project(p)
	require.True(t, ok)
	assert.InDelta(t, 80, depth, 1e-9)

	ray := c.RayThrough(ndc)
	closest := ray.At(r3.Dot(r3.Sub(p, ray.Origin), ray.Dir))
	assert.InDelta(t, 0, r3.Norm(r3.Sub(closest, p)), 1e-9)
}

func TestProject_BehindCamera(t *testing.T) {
	c := New(75, 0.1, 2000, 100)

	_, _, ok := c.Project(r3.Vec{Z: 150})
	assert.False(t, ok)
}

func TestScreenMapping(t *testing.T) {
	x, y := ToScreen(NDC{X: 0, Y: 0}, 80, 24)
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 12.0, y)

	x, y = ToScreen(NDC{X: -1, Y: 1}, 80, 24)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	n := FromScreen(79, 23, 80, 24)
	assert.Less(t, n.X, 1.0)
	assert.Greater(t, n.X, 0.95)
	assert.Less(t, n.Y, -0.9)
}

func TestIntersectSphere(t *testing.T) {
	ray := Ray{Origin: r3.Vec{Z: 100}, Dir: r3.Vec{Z: -1}}

	d, ok := IntersectSphere(ray, r3.Vec{}, 2)
	require.True(t, ok)
	assert.InDelta(t, 98, d, 1e-9)

	_, ok = IntersectSphere(ray, r3.Vec{X: 5}, 2)
	assert.False(t, ok)

	_, ok = IntersectSphere(ray, r3.Vec{Z: 150}, 2)
	assert.False(t, ok, "sphere behind the origin")
}

func TestPick_NearestInteractive(t *testing.T) {
	c := New(75, 0.1, 2000, 100)
	near := &scene.Entity{ID: 1, Pos: r3.Vec{Z: 30}, BaseSize: 2, Scale: 1, Interactive: true}
	far := &scene.Entity{ID: 2, Pos: r3.Vec{Z: -30}, BaseSize: 2, Scale: 1, Interactive: true}

	got := c.Pick(NDC{}, []*scene.Entity{far, near})
	assert.Same(t, near, got)
}

func TestPick_ScaleGrowsHitArea(t *testing.T) {
	c := New(75, 0.1, 2000, 100)
	e := &scene.Entity{Pos: r3.Vec{X: 3}, BaseSize: 2, Scale: 1, Interactive: true}

	assert.Nil(t, c.Pick(NDC{}, []*scene.Entity{e}))

	e.Scale = 2.5
	assert.Same(t, e, c.Pick(NDC{}, []*scene.Entity{e}))
}

func TestPick_IgnoresNonInteractive(t *testing.T) {
	store := scene.NewStore()
	store.Populate(rand.New(rand.NewPCG(1, 2)), scene.DefaultGroups(5, []int{15, 15, 15}), 0.005)
	require.Len(t, store.Interactive(), 5)
	require.Len(t, store.NonInteractive(), 45)

	// Park everything far off-axis, then put one decorative dot dead centre
	for i, e := range store.All() {
		angle := float64(i) / 50 * 2 * math.Pi
		e.Pos = r3.Vec{X: 90 * math.Cos(angle), Y: 90 * math.Sin(angle), Z: -90}
	}
	target := store.NonInteractive()[0]
	target.Pos = r3.Vec{}

	c := New(75, 0.1, 2000, 100)
	hit, _ := PickRay(c.RayThrough(NDC{}), store.All())
	require.Same(t, target, hit, "ray must hit the decorative dot")

	assert.Nil(t, c.Pick(NDC{}, store.Interactive()))
}
