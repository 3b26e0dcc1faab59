package surface

import (
	"image/color"
	"math"
	"sync"
	"time"

	"InkCalc/internal/state"
)

const (
	// jitterThreshold drops samples closer than this to the last point, so
	// micro-tremor never reaches the raster.
	jitterThreshold = 2.0

	// minWidthFactor floors the dynamic width at half the configured width.
	minWidthFactor = 0.5

	// speedForMinWidth is the movement speed, in CSS px/ms, at which the
	// dynamic width reaches its floor.
	speedForMinWidth = 8.0
)

// Pen turns a stream of pointer positions into smoothed segments on the
// surface. Color and width are read at the moment of each draw call, so a
// toolbar change mid-stroke takes effect on the next segment.
type Pen struct {
	surface *Surface

	mu      sync.Mutex
	width   float64
	color   color.Color
	dynamic bool
	last    *state.Point
	lastAt  time.Time
}

// NewPen creates a pen drawing onto s with a white 3px default, matching the
// dark background.
func NewPen(s *Surface) *Pen {
	return &Pen{
		surface: s,
		width:   3.0,
		color:   color.White,
	}
}

// SetColor changes the live stroke color.
func (p *Pen) SetColor(c color.Color) {
	p.mu.Lock()
	p.color = c
	p.mu.Unlock()
}

// SetWidth changes the live stroke width in CSS pixels.
func (p *Pen) SetWidth(w float64) {
	p.mu.Lock()
	p.width = w
	p.mu.Unlock()
}

// SetDynamicWidth toggles speed-modulated width, an emulation of pressure
// when true pressure input is unavailable.
func (p *Pen) SetDynamicWidth(on bool) {
	p.mu.Lock()
	p.dynamic = on
	p.mu.Unlock()
}

// Color returns the live stroke color.
func (p *Pen) Color() color.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.color
}

// Begin starts a new stroke at pt.
func (p *Pen) Begin(pt state.Point) {
	p.mu.Lock()
	p.last = &state.Point{X: pt.X, Y: pt.Y}
	p.lastAt = time.Now()
	p.mu.Unlock()
}

// Extend draws one segment toward pt and reports whether anything was drawn.
// Samples within the jitter threshold are dropped entirely: no draw call and
// no last-point update.
func (p *Pen) Extend(pt state.Point) bool {
	p.mu.Lock()
	if p.last == nil {
		p.last = &state.Point{X: pt.X, Y: pt.Y}
		p.lastAt = time.Now()
		p.mu.Unlock()
		return false
	}

	last := *p.last
	dist := math.Hypot(pt.X-last.X, pt.Y-last.Y)
	if dist < jitterThreshold {
		p.mu.Unlock()
		return false
	}

	width := p.width
	if p.dynamic {
		width = p.dynamicWidth(dist)
	}
	col := p.color

	p.last = &state.Point{X: pt.X, Y: pt.Y}
	p.lastAt = time.Now()
	p.mu.Unlock()

	mid := point{x: (last.X + pt.X) / 2, y: (last.Y + pt.Y) / 2}
	p.surface.strokeSegment(point{last.X, last.Y}, point{pt.X, pt.Y}, mid, width, col)
	return true
}

// dynamicWidth thins the line as movement speeds up, clamped to the floor.
// Caller holds p.mu.
func (p *Pen) dynamicWidth(dist float64) float64 {
	elapsed := time.Since(p.lastAt)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	speed := dist / (float64(elapsed) / float64(time.Millisecond))
	factor := 1 - speed/speedForMinWidth
	if factor < minWidthFactor {
		factor = minWidthFactor
	}
	if factor > 1 {
		factor = 1
	}
	return p.width * factor
}

// End closes the current stroke session.
func (p *Pen) End() {
	p.mu.Lock()
	p.last = nil
	p.mu.Unlock()
}

// Last returns a copy of the session's last point, or nil outside a stroke.
func (p *Pen) Last() *state.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return nil
	}
	cp := *p.last
	return &cp
}
