package surface

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkCalc/internal/state"
)

func TestJitterRejected(t *testing.T) {
	s := New(60, 60, 1, WipeOnResize)
	pen := NewPen(s)
	pen.Begin(state.Point{X: 10, Y: 10})

	before, err := s.Snapshot()
	require.NoError(t, err)

	assert.False(t, pen.Extend(state.Point{X: 10.5, Y: 10.3}), "sub-threshold sample must not draw")

	last := pen.Last()
	require.NotNil(t, last)
	assert.Equal(t, state.Point{X: 10, Y: 10}, *last, "sub-threshold sample must not move the last point")

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after, "no draw calls on a rejected sample")
}

func TestExtendDrawsAndAdvances(t *testing.T) {
	s := New(60, 60, 1, WipeOnResize)
	pen := NewPen(s)
	pen.SetWidth(4)
	pen.Begin(state.Point{X: 10, Y: 30})

	before, err := s.Snapshot()
	require.NoError(t, err)
	require.True(t, pen.Extend(state.Point{X: 50, Y: 30}))

	last := pen.Last()
	require.NotNil(t, last)
	assert.Equal(t, state.Point{X: 50, Y: 30}, *last)

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	// Segment runs from (10,30) to the midpoint (30,30).
	assert.False(t, isBackground(s.Image().At(20, 30)))
}

func TestExtendWithoutBeginIsANoop(t *testing.T) {
	s := New(60, 60, 1, WipeOnResize)
	pen := NewPen(s)

	before, err := s.Snapshot()
	require.NoError(t, err)
	assert.False(t, pen.Extend(state.Point{X: 30, Y: 30}), "first sample only seeds the session")
	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NotNil(t, pen.Last())
}

func TestLiveColorChangeMidStroke(t *testing.T) {
	s := New(120, 60, 1, WipeOnResize)
	pen := NewPen(s)
	pen.SetWidth(6)
	pen.SetColor(color.White)

	pen.Begin(state.Point{X: 10, Y: 20})
	require.True(t, pen.Extend(state.Point{X: 50, Y: 20}))

	pen.SetColor(color.NRGBA{R: 255, A: 255})
	require.True(t, pen.Extend(state.Point{X: 90, Y: 20}))

	img := s.Image()
	// First segment (around x=20) is white.
	r, g, b, _ := img.At(20, 20).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
	// Second segment (around x=60) picked up the live red.
	r, g, _, _ = img.At(60, 20).RGBA()
	assert.Greater(t, r, g, "mid-stroke color change applies to the next segment")
}

func TestDynamicWidthFloorsAtHalf(t *testing.T) {
	s := New(60, 60, 1, WipeOnResize)
	pen := NewPen(s)
	pen.SetWidth(10)

	pen.lastAt = time.Now().Add(-time.Millisecond)
	assert.InDelta(t, 5.0, pen.dynamicWidth(1000), 0.001, "very fast motion clamps to half width")

	pen.lastAt = time.Now().Add(-time.Second)
	w := pen.dynamicWidth(1)
	assert.LessOrEqual(t, w, 10.0)
	assert.Greater(t, w, 9.0, "slow motion keeps nearly full width")
}

func TestEndClosesSession(t *testing.T) {
	s := New(60, 60, 1, WipeOnResize)
	pen := NewPen(s)
	pen.Begin(state.Point{X: 5, Y: 5})
	require.NotNil(t, pen.Last())
	pen.End()
	assert.Nil(t, pen.Last())
}
