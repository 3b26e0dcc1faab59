package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkCalc/internal/state"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

func TestWriteWorksheet(t *testing.T) {
	entries := []state.HistoryEntry{
		{
			At:      time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
			Subject: "math",
			Results: []state.ResultEntry{
				{Expr: "2+2", Result: 4.0},
				{Expr: "x", Result: 9.0, Assign: true, Steps: []state.Step{
					{Latex: "x = 3^2", Explanation: "square the base"},
				}},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorksheet(&buf, testImage(), entries))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output starts with the PDF magic")
	assert.Greater(t, buf.Len(), 500)
}

func TestWriteWorksheetWithoutImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorksheet(&buf, nil, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
