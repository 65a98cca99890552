package scene

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Group describes one batch of entities sharing a spawn cuboid and size
type Group struct {
	Count       int
	Min, Max    r3.Vec
	Size        float64
	Interactive bool
}

// Group layout of the default scatter
var (
	mainCloudMin = r3.Vec{X: -50, Y: -50, Z: -50}
	mainCloudMax = r3.Vec{X: 50, Y: 50, Z: 50}
	lowEdgeMin   = r3.Vec{X: -100, Y: -100, Z: -100}
	lowEdgeMax   = r3.Vec{X: -50, Y: -50, Z: -50}
	highEdgeMin  = r3.Vec{X: 50, Y: 50, Z: 50}
	highEdgeMax  = r3.Vec{X: 100, Y: 100, Z: 100}
)

const (
	InteractiveSize = 2.0
	MainCloudSize   = 1.0
	EdgeClusterSize = 0.5
)

// DefaultGroups maps entity counts onto the standard layout:
// interactive dots and the first non-interactive batch share the main cloud,
// the second and third batches form the low and high edge clusters.
// Further batches fall back to the main cloud.
func DefaultGroups(interactive int, nonInteractive []int) []Group {
	groups := make([]Group, 0, 1+len(nonInteractive))
	groups = append(groups, Group{
		Count:       interactive,
		Min:         mainCloudMin,
		Max:         mainCloudMax,
		Size:        InteractiveSize,
		Interactive: true,
	})

	for i, n := range nonInteractive {
		g := Group{Count: n, Min: mainCloudMin, Max: mainCloudMax, Size: MainCloudSize}
		switch i {
		case 1:
			g.Min, g.Max, g.Size = lowEdgeMin, lowEdgeMax, EdgeClusterSize
		case 2:
			g.Min, g.Max, g.Size = highEdgeMin, highEdgeMax, EdgeClusterSize
		}
		groups = append(groups, g)
	}
	return groups
}

// Populate creates entities for every group into the store
// Interactive entities are labelled "Dot N" in creation order starting at 1
func (s *Store) Populate(rng *rand.Rand, groups []Group, speed float64) {
	label := 0
	for _, g := range groups {
		for range g.Count {
			e := &Entity{
				ID:          int64(len(s.entities)),
				Pos:         randomInBox(rng, g.Min, g.Max),
				Dir:         randomUnit(rng),
				Speed:       speed,
				Moving:      true,
				Interactive: g.Interactive,
				BaseSize:    g.Size,
				Scale:       1,
			}
			if g.Interactive {
				label++
				e.Label = fmt.Sprintf("Dot %d", label)
			}
			s.add(e)
		}
	}
}

func randomInBox(rng *rand.Rand, lo, hi r3.Vec) r3.Vec {
	return r3.Vec{
		X: lo.X + rng.Float64()*(hi.X-lo.X),
		Y: lo.Y + rng.Float64()*(hi.Y-lo.Y),
		Z: lo.Z + rng.Float64()*(hi.Z-lo.Z),
	}
}

// randomUnit draws a direction from the [-1,1] cube and normalizes it
// Near-zero draws are rejected so the result is always unit length
func randomUnit(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if r3.Norm2(v) > 1e-6 {
			return r3.Unit(v)
		}
	}
}
