package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/dotfield/camera"
	"github.com/lixenwraith/dotfield/highlight"
	"github.com/lixenwraith/dotfield/popup"
	"github.com/lixenwraith/dotfield/scene"
)

// Pointer is the last known pointer cell
type Pointer struct {
	X, Y    int
	Present bool
}

// HUD carries the status line values
type HUD struct {
	Mode     string
	FPS      float64
	Distance float64
	Hovered  string
}

// Frame is everything needed to draw one picture
type Frame struct {
	Store   *scene.Store
	Camera  *camera.Camera
	Popup   *popup.Controller // Optional
	Cursor  highlight.Cursor
	Pointer Pointer
	HUD     HUD
}

const (
	thinAlpha   = 0.5 // Opacity of connectors touching a non-interactive dot
	fogStrength = 0.35
	glowReach   = 2.2 // Squared normalized distance covered by the halo
	discMin     = 0.5 // Projected radius in rows below which a glyph replaces the disc

	glyphCursor  = '+'
	glyphPointer = '☛'
)

// Renderer draws frames into a RenderBuffer and flushes them to a tcell screen
type Renderer struct {
	screen  tcell.Screen
	buf     *RenderBuffer
	palette Palette

	ShowHUD bool

	lightDir r3.Vec
	halfDir  r3.Vec

	order []projected
}

type projected struct {
	e      *scene.Entity
	cx, cy float64
	radius float64
	depth  float64
}

// NewRenderer creates a renderer; screen may be nil for offscreen composition
func NewRenderer(screen tcell.Screen, palette Palette) *Renderer {
	light := r3.Unit(r3.Vec{X: -0.35, Y: -0.55, Z: 0.75})
	return &Renderer{
		screen:   screen,
		buf:      NewRenderBuffer(0, 0, palette.Background),
		palette:  palette,
		ShowHUD:  true,
		lightDir: light,
		// Blinn-Phong half vector with view along +Z
		halfDir: r3.Unit(r3.Add(light, r3.Vec{Z: 1})),
	}
}

// SetPalette swaps colours from the next frame on
func (r *Renderer) SetPalette(p Palette) {
	r.palette = p
}

// Palette returns the active colours
func (r *Renderer) Palette() Palette {
	return r.palette
}

// Buffer exposes the composited frame
func (r *Renderer) Buffer() *RenderBuffer {
	return r.buf
}

// Draw composes the frame at the screen size and presents it
func (r *Renderer) Draw(f Frame) {
	if r.screen == nil {
		return
	}
	cols, rows := r.screen.Size()
	r.Compose(f, cols, rows)
	r.buf.FlushToScreen(r.screen)

	r.screen.HideCursor()
	r.screen.Show()
}

// Compose draws the frame into the buffer without touching the screen
// Order: connectors, dots far to near, popup, HUD, pointer
func (r *Renderer) Compose(f Frame, cols, rows int) {
	if w, h := r.buf.Size(); w != cols || h != rows {
		r.buf.Resize(cols, rows)
	}
	r.buf.Clear(r.palette.Background)
	if cols <= 0 || rows <= 0 || f.Store == nil || f.Camera == nil {
		return
	}

	r.drawConnectors(f, cols, rows)
	r.drawEntities(f, cols, rows)
	if f.Popup != nil {
		r.drawPopup(f.Popup)
	}
	if r.ShowHUD {
		r.drawHUD(f.HUD, cols, rows)
	}
	if f.Pointer.Present {
		r.drawPointer(f.Pointer, f.Cursor)
	}
}

func (r *Renderer) drawConnectors(f Frame, cols, rows int) {
	for _, c := range f.Store.Connectors() {
		a, _, okA := f.Camera.Project(c.From)
		b, _, okB := f.Camera.Project(c.To)
		if !okA || !okB {
			continue
		}
		x0, y0 := camera.ToScreen(a, cols, rows)
		x1, y1 := camera.ToScreen(b, cols, rows)

		x0, y0, x1, y1, visible := clipLine(x0, y0, x1, y1, float64(cols), float64(rows))
		if !visible {
			continue
		}

		color := r.palette.Line
		if c.Thin {
			color = Blend(r.palette.Background, color, thinAlpha)
		}
		color = Lerp(color, r.palette.Accent, c.Highlight)
		glyph := lineGlyph(x1-x0, y1-y0)
		bold := c.Highlight > 0.5

		bresenham(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)), func(x, y int) {
			r.buf.SetFgOnly(x, y, glyph, color)
			if bold {
				r.buf.SetBold(x, y, true)
			}
		})
	}
}

func (r *Renderer) drawEntities(f Frame, cols, rows int) {
	r.order = r.order[:0]
	for _, e := range f.Store.All() {
		ndc, depth, ok := f.Camera.Project(e.Pos)
		if !ok {
			continue
		}
		cx, cy := camera.ToScreen(ndc, cols, rows)
		r.order = append(r.order, projected{
			e:      e,
			cx:     cx,
			cy:     cy,
			radius: f.Camera.ProjectedRadius(e.Radius(), depth, rows),
			depth:  depth,
		})
	}

	// Painter's order: far first, ties by ID for stable frames
	sort.Slice(r.order, func(i, j int) bool {
		if r.order[i].depth != r.order[j].depth {
			return r.order[i].depth > r.order[j].depth
		}
		return r.order[i].e.ID < r.order[j].e.ID
	})

	fogStart := f.Camera.Distance - scene.DefaultBound
	for _, p := range r.order {
		base := r.palette.NonInteractive
		if p.e.Interactive {
			base = r.palette.Interactive
		}
		fog := (p.depth - fogStart) / (2 * scene.DefaultBound)
		fog = math.Max(0, math.Min(1, fog)) * fogStrength
		base = Blend(base, r.palette.Background, fog)

		if p.radius < discMin {
			r.drawGlyph(p, base)
			continue
		}
		r.drawDisc(p, base, cols, rows)
	}
}

// drawGlyph renders a sub-cell dot as a single character sized by radius
func (r *Renderer) drawGlyph(p projected, base RGB) {
	glyph := '●'
	switch {
	case p.radius < 0.15:
		glyph = '·'
	case p.radius < 0.3:
		glyph = '•'
	}
	x, y := int(math.Floor(p.cx)), int(math.Floor(p.cy))
	if p.e.Glow > 0 {
		r.buf.BlendBg(x, y, r.palette.Accent, p.e.Glow*0.35)
		base = Lerp(base, r.palette.Accent, p.e.Glow)
	}
	r.buf.SetFgOnly(x, y, glyph, base)
}

// drawDisc shades a sphere silhouette; cells are twice as tall as wide
func (r *Renderer) drawDisc(p projected, base RGB, cols, rows int) {
	reach := 1.0
	if p.e.Glow > 0 {
		reach = math.Sqrt(glowReach)
	}
	rx := p.radius * camera.CellAspect * reach
	ry := p.radius * reach

	minX := max(0, int(p.cx-rx-1))
	maxX := min(cols-1, int(p.cx+rx+1))
	minY := max(0, int(p.cy-ry-1))
	maxY := min(rows-1, int(p.cy+ry+1))

	for sy := minY; sy <= maxY; sy++ {
		for sx := minX; sx <= maxX; sx++ {
			nx := (float64(sx) + 0.5 - p.cx) / (p.radius * camera.CellAspect)
			ny := (float64(sy) + 0.5 - p.cy) / p.radius
			distSq := nx*nx + ny*ny

			if distSq <= 1 {
				n := r3.Vec{X: nx, Y: ny, Z: math.Sqrt(1 - distSq)}
				lambert := math.Max(0, r3.Dot(n, r.lightDir))
				shine := math.Pow(math.Max(0, r3.Dot(n, r.halfDir)), 24) * 0.6

				c := Scale(base, 0.55+0.45*lambert)
				c = Lerp(c, r.palette.Accent, p.e.Glow*0.5)
				c = Add(c, Scale(RGBWhite, shine))
				r.buf.SetBgOnly(sx, sy, c)
				continue
			}

			if p.e.Glow > 0 && distSq <= glowReach {
				falloff := math.Exp(-(math.Sqrt(distSq) - 1) * 3)
				r.buf.BlendBg(sx, sy, r.palette.Accent, falloff*0.5*p.e.Glow)
			}
		}
	}
}

func (r *Renderer) drawPopup(p *popup.Controller) {
	if !p.Visible() || p.Opacity() <= 0 {
		return
	}
	alpha := p.Opacity()
	box := p.Rect()

	for y := box.Y; y < box.Y+box.H; y++ {
		for x := box.X; x < box.X+box.W; x++ {
			r.buf.BlendBg(x, y, r.palette.PopupBg, alpha)
			r.buf.SetFgOnly(x, y, ' ', r.buf.Get(x, y).Bg)
		}
	}

	ink := func(x, y int, c RGB) RGB {
		return Blend(r.buf.Get(x, y).Bg, c, alpha)
	}

	right, bottom := box.X+box.W-1, box.Y+box.H-1
	for x := box.X; x <= right; x++ {
		r.buf.SetFgOnly(x, box.Y, '─', ink(x, box.Y, r.palette.HUD))
		r.buf.SetFgOnly(x, bottom, '─', ink(x, bottom, r.palette.HUD))
	}
	for y := box.Y; y <= bottom; y++ {
		r.buf.SetFgOnly(box.X, y, '│', ink(box.X, y, r.palette.HUD))
		r.buf.SetFgOnly(right, y, '│', ink(right, y, r.palette.HUD))
	}
	r.buf.SetFgOnly(box.X, box.Y, '┌', ink(box.X, box.Y, r.palette.HUD))
	r.buf.SetFgOnly(right, box.Y, '┐', ink(right, box.Y, r.palette.HUD))
	r.buf.SetFgOnly(box.X, bottom, '└', ink(box.X, bottom, r.palette.HUD))
	r.buf.SetFgOnly(right, bottom, '┘', ink(right, bottom, r.palette.HUD))

	tx, ty := p.TextOrigin()
	bg := r.buf.Get(tx, ty).Bg
	r.buf.SetString(tx, ty, p.Text(), ink(tx, ty, r.palette.Text), bg)

	cr := p.CloseRect()
	r.buf.SetString(cr.X, cr.Y, popup.CloseLabel, ink(cr.X, cr.Y, r.palette.Accent), r.buf.Get(cr.X, cr.Y).Bg)
	for x := cr.X; x < cr.X+cr.W; x++ {
		r.buf.SetBold(x, cr.Y, true)
	}
}

func (r *Renderer) drawHUD(h HUD, cols, rows int) {
	y := rows - 1
	bg := r.palette.Background
	line := fmt.Sprintf(" %s │ zoom %.0f │ %.0f fps", h.Mode, h.Distance, h.FPS)
	if h.Hovered != "" {
		line += " │ " + h.Hovered
	}
	for x := 0; x < cols; x++ {
		r.buf.Set(x, y, ' ', bg, bg)
	}
	r.buf.SetString(0, y, line, r.palette.HUD, bg)

	if x := hintColumn(line, cols); x >= 0 {
		r.buf.SetString(x, y, hudHint, r.palette.HUD, bg)
	}
}

const hudHint = "click: label  wheel: zoom  q: quit "

// hintColumn returns where the right-aligned hint starts, or -1 when it would touch the status text
func hintColumn(line string, cols int) int {
	x := cols - runewidth.StringWidth(hudHint)
	if x <= runewidth.StringWidth(line)+1 {
		return -1
	}
	return x
}

func (r *Renderer) drawPointer(p Pointer, cursor highlight.Cursor) {
	glyph := glyphCursor
	if cursor == highlight.CursorPointer {
		glyph = glyphPointer
	}
	r.buf.SetFgOnly(p.X, p.Y, glyph, r.palette.Text)
	r.buf.SetBold(p.X, p.Y, true)
}

// lineGlyph picks a stroke character for a screen-space direction
// Vertical extent is doubled to account for cell aspect
func lineGlyph(dx, dy float64) rune {
	ax := math.Abs(dx)
	ay := math.Abs(dy) * camera.CellAspect
	switch {
	case ay < ax*0.414:
		return '─'
	case ay > ax*2.414:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// bresenham visits every cell on the integer line from (x0,y0) to (x1,y1) inclusive
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine clips a segment to [0,w)x[0,h) with Liang-Barsky
func clipLine(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	const eps = 1e-9
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0},
		{dx, w - eps - x0},
		{-dy, y0},
		{dy, h - eps - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
