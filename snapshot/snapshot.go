// Package snapshot runs the simulation without a terminal and exports its state as JSON
package snapshot

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/dotfield/config"
	"github.com/lixenwraith/dotfield/engine"
	"github.com/lixenwraith/dotfield/scene"
)

// Default headless viewport, a common terminal size
const (
	DefaultCols = 120
	DefaultRows = 40
)

// Options controls a headless run
type Options struct {
	Ticks      int
	Cols, Rows int

	// Pointer, when set, is held at this cell for the whole run
	Pointer *Cell
	// Click presses the button at Pointer after the last tick
	Click bool
}

// Cell is a terminal cell position
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec is a JSON friendly 3D vector
type Vec [3]float64

func vec(v r3.Vec) Vec { return Vec{v.X, v.Y, v.Z} }

// Entity is the exported state of one dot
type Entity struct {
	ID          int64   `json:"id"`
	Label       string  `json:"label,omitempty"`
	Interactive bool    `json:"interactive"`
	Pos         Vec     `json:"pos"`
	Dir         Vec     `json:"dir"`
	Speed       float64 `json:"speed"`
	Moving      bool    `json:"moving"`
	Size        float64 `json:"size"`
	Scale       float64 `json:"scale"`
	Glow        float64 `json:"glow"`
	Pinned      bool    `json:"pinned,omitempty"`
	Degree      int     `json:"degree"`
}

// Connector is the exported state of one line
type Connector struct {
	ID        int64   `json:"id"`
	A         int64   `json:"a"`
	B         int64   `json:"b"`
	Thin      bool    `json:"thin"`
	Highlight float64 `json:"highlight"`
}

// Stats summarizes the connector graph
type Stats struct {
	Entities    int     `json:"entities"`
	Interactive int     `json:"interactive"`
	Connectors  int     `json:"connectors"`
	Thin        int     `json:"thin"`
	Components  int     `json:"components"`
	Isolated    []int64 `json:"isolated"`
	MeanDegree  float64 `json:"mean_degree"`
	MaxDegree   int     `json:"max_degree"`
}

// Snapshot is the full exported state after a headless run
type Snapshot struct {
	Seed           uint64      `json:"seed"`
	Ticks          uint64      `json:"ticks"`
	StepHz         int         `json:"step_hz"`
	CameraDistance float64     `json:"camera_distance"`
	Highlight      string      `json:"highlight"`
	Pointer        *Cell       `json:"pointer,omitempty"`
	Selected       string      `json:"selected,omitempty"`
	Popup          string      `json:"popup,omitempty"`
	Entities       []Entity    `json:"entities"`
	Connectors     []Connector `json:"connectors"`
	Stats          Stats       `json:"stats"`
}

// Run builds an app from cfg and advances it opts.Ticks fixed steps
func Run(cfg *config.Config, opts Options, log *zap.Logger) (*Snapshot, error) {
	if opts.Ticks < 0 {
		return nil, fmt.Errorf("ticks must be >= 0, got %d", opts.Ticks)
	}
	if opts.Cols <= 0 || opts.Rows <= 0 {
		opts.Cols, opts.Rows = DefaultCols, DefaultRows
	}
	if p := opts.Pointer; p != nil && (p.X < 0 || p.Y < 0 || p.X >= opts.Cols || p.Y >= opts.Rows) {
		return nil, fmt.Errorf("pointer %d,%d outside %dx%d viewport", p.X, p.Y, opts.Cols, opts.Rows)
	}

	app, err := engine.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	app.SetViewport(opts.Cols, opts.Rows)
	if opts.Pointer != nil {
		app.MovePointer(opts.Pointer.X, opts.Pointer.Y)
	}

	for range opts.Ticks {
		app.Tick()
	}
	if opts.Click && opts.Pointer != nil {
		app.Popup.Click(opts.Pointer.X, opts.Pointer.Y)
	}

	s := Capture(app)
	s.Pointer = opts.Pointer
	return s, nil
}

// Capture copies the current app state
func Capture(app *engine.App) *Snapshot {
	store := app.Store
	s := &Snapshot{
		Seed:           app.Seed(),
		Ticks:          app.Ticks(),
		StepHz:         app.Config().Motion.StepHz,
		CameraDistance: app.Camera.Distance,
		Highlight:      app.Highlight.Effect().Name(),
		Entities:       make([]Entity, 0, len(store.All())),
		Connectors:     make([]Connector, 0, len(store.Connectors())),
		Stats:          ComputeStats(store),
	}
	if e := app.Highlight.Selected(); e != nil {
		s.Selected = e.Label
	}
	if app.Popup.Open() {
		s.Popup = app.Popup.Text()
	}

	for _, e := range store.All() {
		s.Entities = append(s.Entities, Entity{
			ID:          e.ID,
			Label:       e.Label,
			Interactive: e.Interactive,
			Pos:         vec(e.Pos),
			Dir:         vec(e.Dir),
			Speed:       e.Speed,
			Moving:      e.Moving,
			Size:        e.BaseSize,
			Scale:       e.Scale,
			Glow:        e.Glow,
			Pinned:      e.Pinned,
			Degree:      store.Degree(e),
		})
	}
	for _, c := range store.Connectors() {
		s.Connectors = append(s.Connectors, Connector{
			ID:        c.ID,
			A:         c.A.ID,
			B:         c.B.ID,
			Thin:      c.Thin,
			Highlight: c.Highlight,
		})
	}
	return s
}

// ComputeStats derives graph statistics from the store
func ComputeStats(store *scene.Store) Stats {
	st := Stats{
		Entities:    len(store.All()),
		Interactive: len(store.Interactive()),
		Connectors:  len(store.Connectors()),
		Components:  store.Components(),
		Isolated:    []int64{},
	}
	for _, c := range store.Connectors() {
		if c.Thin {
			st.Thin++
		}
	}
	for _, e := range store.Isolated() {
		st.Isolated = append(st.Isolated, e.ID)
	}
	sort.Slice(st.Isolated, func(i, j int) bool { return st.Isolated[i] < st.Isolated[j] })

	total := 0
	for _, e := range store.All() {
		d := store.Degree(e)
		total += d
		st.MaxDegree = max(st.MaxDegree, d)
	}
	if st.Entities > 0 {
		st.MeanDegree = float64(total) / float64(st.Entities)
	}
	return st
}

// Write encodes s as indented JSON
func Write(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot written by Write
func Read(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
