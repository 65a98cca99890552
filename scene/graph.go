package scene

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/graph/simple"
)

// BuildConnectors walks every unordered entity pair and keeps it with probability p
// A connector is thin when either endpoint is non-interactive
// Returns the number of connectors created
func (s *Store) BuildConnectors(rng *rand.Rand, p float64) int {
	created := 0
	all := s.entities
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if !include(rng, p) {
				continue
			}
			s.connect(all[i], all[j])
			created++
		}
	}
	return created
}

// include draws once per pair so the random stream does not depend on p's edge values
func include(rng *rand.Rand, p float64) bool {
	r := rng.Float64()
	switch {
	case p >= 1:
		return true
	case p <= 0:
		return false
	}
	return r < p
}

func (s *Store) connect(a, b *Entity) *Connector {
	if c, ok := s.byPair[keyOf(a.ID, b.ID)]; ok {
		return c
	}
	c := &Connector{
		ID:   int64(len(s.connectors)),
		A:    a,
		B:    b,
		Thin: !a.Interactive || !b.Interactive,
	}
	c.Refresh()
	s.connectors = append(s.connectors, c)
	s.byPair[keyOf(a.ID, b.ID)] = c
	s.graph.SetEdge(simple.Edge{F: simple.Node(a.ID), T: simple.Node(b.ID)})
	return c
}
