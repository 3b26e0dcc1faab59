// Package surface owns the drawing raster: a gg-backed backing store scaled
// by the device pixel ratio, with a persistent dark background as the
// zero-state. All coordinates exposed by this package are CSS-pixel units;
// the scale transform maps them onto backing-store pixels.
package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"sync"

	"github.com/gogpu/gg"
)

// maxPixelRatio bounds the backing-store blowup on high-density displays.
const maxPixelRatio = 2.0

// Background is the fixed dark fill the surface resets to.
var Background = color.NRGBA{R: 18, G: 18, B: 18, A: 255}

// ResizePolicy decides what happens to drawn content when the surface is
// re-measured.
type ResizePolicy int

const (
	// WipeOnResize throws the content away and refills the background.
	WipeOnResize ResizePolicy = iota
	// PreserveOnResize redraws the old raster scaled into the new geometry.
	PreserveOnResize
)

// Surface is the single shared drawing surface. All mutation goes through
// its lock; no two components write to it concurrently.
type Surface struct {
	mu     sync.Mutex
	dc     *gg.Context
	width  float64 // CSS pixels
	height float64
	scale  float64 // clamped pixel ratio
	policy ResizePolicy
}

// New creates a surface whose backing resolution is width×height CSS pixels
// scaled by the clamped pixel ratio, filled with the dark background.
func New(width, height, pixelRatio float64, policy ResizePolicy) *Surface {
	s := &Surface{policy: policy}
	s.init(width, height, pixelRatio)
	return s
}

func clampRatio(r float64) float64 {
	if r < 1 {
		return 1
	}
	if r > maxPixelRatio {
		return maxPixelRatio
	}
	return r
}

// init builds a fresh context. After init, drawing at CSS (0,0) lands on
// backing pixel (0,0). Callers other than the constructor hold s.mu.
func (s *Surface) init(width, height, pixelRatio float64) {
	scale := clampRatio(pixelRatio)
	dc := gg.NewContext(int(width*scale), int(height*scale))
	dc.Scale(scale, scale)
	dc.ClearWithColor(gg.FromColor(Background))

	s.dc = dc
	s.width = width
	s.height = height
	s.scale = scale
}

// Reset re-fills the visible area with the background, preserving the
// current geometry and scale transform.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dc == nil {
		return
	}
	s.dc.ClearWithColor(gg.FromColor(Background))
}

// Resize re-measures the surface. Content survives only under
// PreserveOnResize, via a raster snapshot redrawn scaled into the new
// dimensions. Debouncing is the caller's job; this applies immediately.
func (s *Surface) Resize(width, height, pixelRatio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.width && height == s.height && clampRatio(pixelRatio) == s.scale {
		return
	}

	var old image.Image
	if s.policy == PreserveOnResize && s.dc != nil {
		old = s.dc.Image()
	}

	s.init(width, height, pixelRatio)

	if old != nil {
		buf := gg.ImageBufFromImage(old)
		s.dc.Push()
		s.dc.Identity()
		s.dc.DrawImageEx(buf, gg.DrawImageOptions{
			DstWidth:  float64(s.dc.Width()),
			DstHeight: float64(s.dc.Height()),
		})
		s.dc.Pop()
	}
	log.Printf("[surface] resized to %.0fx%.0f @%.2gx", width, height, s.scale)
}

// Size returns the CSS-pixel dimensions.
func (s *Surface) Size() (width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// PixelRatio returns the clamped device pixel ratio in effect.
func (s *Surface) PixelRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// Image returns a copy of the backing store for display or export.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dc == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return s.dc.Image()
}

// Snapshot serializes the backing store to PNG, the opaque format used by
// the undo and redo stacks.
func (s *Surface) Snapshot() ([]byte, error) {
	img := s.Image()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore replaces the backing store with a previously captured snapshot.
// The snapshot must match the current backing geometry; stacks are dropped
// on resize for exactly that reason.
func (s *Surface) Restore(snap []byte) error {
	img, err := png.Decode(bytes.NewReader(snap))
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dc == nil {
		return nil
	}
	// Copy the decoded raster straight into a fresh pixmap so the restore
	// is byte-exact; drawing the image over the old content would blend
	// and resample instead.
	pm := gg.NewPixmap(bounds.Dx(), bounds.Dy())
	copy(pm.Data(), rgba.Pix)
	dc := gg.NewContext(bounds.Dx(), bounds.Dy(), gg.WithPixmap(pm))
	dc.Scale(s.scale, s.scale)
	s.dc = dc
	return nil
}

// DataURL encodes the backing store as a self-describing inline PNG, the
// payload format the solver contract expects.
func (s *Surface) DataURL() (string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(snap), nil
}

// strokeSegment draws one smoothed stroke segment: a quadratic curve from
// the previous point to the midpoint of (previous, current), with the
// current point as control. Called by Pen only.
func (s *Surface) strokeSegment(from, ctrl, to point, width float64, col color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dc == nil {
		return
	}
	s.dc.SetColor(col)
	s.dc.SetLineWidth(width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.MoveTo(from.x, from.y)
	s.dc.QuadraticTo(ctrl.x, ctrl.y, to.x, to.y)
	if err := s.dc.Stroke(); err != nil {
		log.Printf("[surface] stroke failed: %v", err)
	}
	s.dc.ClearPath()
}

type point struct{ x, y float64 }
