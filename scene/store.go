package scene

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Store holds every entity and connector of a session
// Entities and connectors are created once and never removed
type Store struct {
	entities       []*Entity
	interactive    []*Entity
	nonInteractive []*Entity

	connectors []*Connector
	byPair     map[pairKey]*Connector
	graph      *simple.UndirectedGraph
}

type pairKey struct{ lo, hi int64 }

func keyOf(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		byPair: make(map[pairKey]*Connector),
		graph:  simple.NewUndirectedGraph(),
	}
}

func (s *Store) add(e *Entity) {
	s.entities = append(s.entities, e)
	if e.Interactive {
		s.interactive = append(s.interactive, e)
	} else {
		s.nonInteractive = append(s.nonInteractive, e)
	}
	s.graph.AddNode(simple.Node(e.ID))
}

// All returns every entity, interactive first, in creation order
func (s *Store) All() []*Entity { return s.entities }

// Interactive returns the pickable entities
func (s *Store) Interactive() []*Entity { return s.interactive }

// NonInteractive returns the decorative entities
func (s *Store) NonInteractive() []*Entity { return s.nonInteractive }

// Connectors returns every connector in creation order
func (s *Store) Connectors() []*Connector { return s.connectors }

// Entity looks up an entity by ID
func (s *Store) Entity(id int64) (*Entity, bool) {
	if id < 0 || id >= int64(len(s.entities)) {
		return nil, false
	}
	return s.entities[id], true
}

// Connector returns the connector joining a and b, if any
func (s *Store) Connector(a, b *Entity) (*Connector, bool) {
	c, ok := s.byPair[keyOf(a.ID, b.ID)]
	return c, ok
}

// ConnectorsOf returns every connector touching e
func (s *Store) ConnectorsOf(e *Entity) []*Connector {
	nodes := s.graph.From(e.ID)
	out := make([]*Connector, 0, nodes.Len())
	for nodes.Next() {
		if c, ok := s.byPair[keyOf(e.ID, nodes.Node().ID())]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Degree returns the number of connectors touching e
func (s *Store) Degree(e *Entity) int {
	return s.graph.From(e.ID).Len()
}

// Components returns the number of connected components, isolated entities included
func (s *Store) Components() int {
	return len(topo.ConnectedComponents(s.graph))
}

// Isolated returns the entities without any connector
func (s *Store) Isolated() []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if s.Degree(e) == 0 {
			out = append(out, e)
		}
	}
	return out
}

// RefreshConnectors recomputes every connector's endpoints from live positions
func (s *Store) RefreshConnectors() {
	for _, c := range s.connectors {
		c.Refresh()
	}
}
