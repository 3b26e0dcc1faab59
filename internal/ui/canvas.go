package ui

import (
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"InkCalc/internal/state"
	"InkCalc/internal/surface"
)

const (
	// frameInterval rate-limits visual updates to roughly one animation
	// frame; samples arriving faster are coalesced in arrival order.
	frameInterval = 16 * time.Millisecond

	// resizeQuiet is the debounce window before a resize is applied.
	resizeQuiet = 100 * time.Millisecond
)

// SketchPad is the drawing widget: it gates the stroke lifecycle
// (idle, drawing, idle), feeds coalesced pointer samples to the pen, and
// keeps the undo and redo snapshot stacks. Only the primary pointer draws;
// other buttons and extra contacts are ignored.
type SketchPad struct {
	widget.BaseWidget

	surface *surface.Surface
	pen     *surface.Pen

	mu        sync.Mutex
	drawing   bool
	pending   []state.Point
	lastFlush time.Time
	undo      snapshotStack
	redo      snapshotStack

	view        *canvas.Image
	resizeTimer *time.Timer

	// snapshotsOff disables undo bookkeeping entirely.
	snapshotsOff bool

	// OnChange fires after a stroke is finalized or the surface is
	// cleared or restored.
	OnChange func()
}

var _ fyne.Widget = (*SketchPad)(nil)
var _ fyne.Draggable = (*SketchPad)(nil)
var _ desktop.Mouseable = (*SketchPad)(nil)
var _ desktop.Hoverable = (*SketchPad)(nil)

func NewSketchPad(s *surface.Surface, pen *surface.Pen) *SketchPad {
	p := &SketchPad{
		surface: s,
		pen:     pen,
	}
	p.view = canvas.NewImageFromImage(s.Image())
	p.view.FillMode = canvas.ImageFillStretch
	p.ExtendBaseWidget(p)
	return p
}

// SetAutoSnapshot toggles undo bookkeeping; on by default.
func (p *SketchPad) SetAutoSnapshot(on bool) {
	p.mu.Lock()
	p.snapshotsOff = !on
	p.mu.Unlock()
}

// MouseDown transitions idle to drawing. A new edit invalidates any
// previously-undone futures, so the redo stack is cleared here, and the
// pre-stroke raster goes onto the undo stack: the stacks hold past states,
// never the live one.
func (p *SketchPad) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.mu.Lock()
	takeSnap := !p.snapshotsOff
	p.mu.Unlock()

	var snap []byte
	if takeSnap {
		var err error
		if snap, err = p.surface.Snapshot(); err != nil {
			log.Printf("[pad] snapshot failed: %v", err)
			snap = nil
		}
	}

	p.mu.Lock()
	p.drawing = true
	p.pending = p.pending[:0]
	p.lastFlush = time.Time{}
	p.redo.Reset()
	if snap != nil {
		p.undo.Push(snap)
	}
	p.mu.Unlock()

	p.pen.Begin(pointOf(e.Position))
}

// Dragged extends the active stroke. Samples are queued and flushed at most
// once per frame interval, in arrival order, so spatial information is never
// dropped even though visual updates are rate-limited. This path never
// blocks: it is synchronous draw calls gated by the same-frame throttle.
func (p *SketchPad) Dragged(e *fyne.DragEvent) {
	p.mu.Lock()
	if !p.drawing {
		p.mu.Unlock()
		return
	}
	p.pending = append(p.pending, pointOf(e.Position))
	drew := false
	if time.Since(p.lastFlush) >= frameInterval {
		drew = p.flushLocked()
	}
	p.mu.Unlock()

	if drew {
		p.refresh()
	}
}

func (p *SketchPad) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.finalizeStroke()
}

// DragEnd finalizes a stroke released outside the widget.
func (p *SketchPad) DragEnd() {
	p.finalizeStroke()
}

// MouseOut cancels the stroke when the pointer leaves the surface.
func (p *SketchPad) MouseOut() {
	p.finalizeStroke()
}

func (p *SketchPad) MouseIn(*desktop.MouseEvent)    {}
func (p *SketchPad) MouseMoved(*desktop.MouseEvent) {}

// flushLocked runs every queued sample through the pen and reports whether
// any segment was drawn. Caller holds p.mu.
func (p *SketchPad) flushLocked() bool {
	drew := false
	for _, pt := range p.pending {
		if p.pen.Extend(pt) {
			drew = true
		}
	}
	p.pending = p.pending[:0]
	p.lastFlush = time.Now()
	return drew
}

// finalizeStroke transitions drawing back to idle.
func (p *SketchPad) finalizeStroke() {
	p.mu.Lock()
	if !p.drawing {
		p.mu.Unlock()
		return
	}
	p.flushLocked()
	p.drawing = false
	p.mu.Unlock()

	p.pen.End()
	p.refresh()
	p.notify()
}

// Undo pops the most recent snapshot, pushes the current state onto the redo
// stack, and restores the popped snapshot. No-op when the stack is empty.
func (p *SketchPad) Undo() {
	p.mu.Lock()
	snap, ok := p.undo.Pop()
	p.mu.Unlock()
	if !ok {
		return
	}

	if cur, err := p.surface.Snapshot(); err == nil {
		p.mu.Lock()
		p.redo.Push(cur)
		p.mu.Unlock()
	}
	if err := p.surface.Restore(snap); err != nil {
		log.Printf("[pad] undo restore failed: %v", err)
		return
	}
	p.refresh()
	p.notify()
}

// Redo is the inverse of Undo.
func (p *SketchPad) Redo() {
	p.mu.Lock()
	snap, ok := p.redo.Pop()
	p.mu.Unlock()
	if !ok {
		return
	}

	if cur, err := p.surface.Snapshot(); err == nil {
		p.mu.Lock()
		p.undo.Push(cur)
		p.mu.Unlock()
	}
	if err := p.surface.Restore(snap); err != nil {
		log.Printf("[pad] redo restore failed: %v", err)
		return
	}
	p.refresh()
	p.notify()
}

// Clear resets the surface to the background fill. The wiped state is
// undoable: the pre-clear raster goes onto the undo stack first.
func (p *SketchPad) Clear() {
	if snap, err := p.surface.Snapshot(); err == nil {
		p.mu.Lock()
		p.undo.Push(snap)
		p.redo.Reset()
		p.mu.Unlock()
	}
	p.surface.Reset()
	p.refresh()
	p.notify()
}

// UndoDepth reports how many snapshots the undo stack holds.
func (p *SketchPad) UndoDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.undo.Len()
}

func (p *SketchPad) refresh() {
	p.view.Image = p.surface.Image()
	p.view.Refresh()
}

func (p *SketchPad) notify() {
	if p.OnChange != nil {
		p.OnChange()
	}
}

// scheduleResize debounces re-measurement: the surface is reinitialized only
// after a quiet period. Existing snapshots record the old backing geometry,
// so both stacks are dropped when the geometry actually changes.
func (p *SketchPad) scheduleResize(size fyne.Size) {
	p.mu.Lock()
	if p.resizeTimer != nil {
		p.resizeTimer.Stop()
	}
	w, h := float64(size.Width), float64(size.Height)
	p.resizeTimer = time.AfterFunc(resizeQuiet, func() {
		fyne.Do(func() {
			p.applyResize(w, h)
		})
	})
	p.mu.Unlock()
}

func (p *SketchPad) applyResize(w, h float64) {
	ow, oh := p.surface.Size()
	or := p.surface.PixelRatio()

	p.surface.Resize(w, h, p.displayRatio())

	nw, nh := p.surface.Size()
	if nw != ow || nh != oh || p.surface.PixelRatio() != or {
		p.mu.Lock()
		p.undo.Reset()
		p.redo.Reset()
		p.mu.Unlock()
	}
	p.refresh()
}

// displayRatio reads the device pixel ratio from the rendering canvas,
// falling back to 1 when the widget is not mounted yet.
func (p *SketchPad) displayRatio() float64 {
	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil {
		return 1
	}
	if c := app.Driver().CanvasForObject(p); c != nil {
		return float64(c.Scale())
	}
	return 1
}

func (p *SketchPad) CreateRenderer() fyne.WidgetRenderer {
	return &sketchPadRenderer{pad: p}
}

type sketchPadRenderer struct {
	pad *SketchPad
}

func (r *sketchPadRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.pad.view}
}

func (r *sketchPadRenderer) Layout(size fyne.Size) {
	r.pad.view.Resize(size)
	r.pad.scheduleResize(size)
}

func (r *sketchPadRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *sketchPadRenderer) Refresh() {
	r.pad.view.Refresh()
}

func (r *sketchPadRenderer) Destroy() {}

func pointOf(pos fyne.Position) state.Point {
	return state.Point{X: float64(pos.X), Y: float64(pos.Y)}
}
