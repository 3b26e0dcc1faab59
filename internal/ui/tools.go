package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InkCalc/internal/state"
	"InkCalc/internal/surface"
)

// Ink palette tuned for the dark surface.
var palette = []color.Color{
	color.White,
	color.NRGBA{R: 255, G: 107, B: 107, A: 255}, // red
	color.NRGBA{R: 106, G: 176, B: 255, A: 255}, // blue
	color.NRGBA{R: 120, G: 224, B: 143, A: 255}, // green
	color.NRGBA{R: 255, G: 214, B: 102, A: 255}, // yellow
	color.NRGBA{R: 255, G: 159, B: 243, A: 255}, // pink
}

// colorSwatch is a tappable color square.
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 120}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar assembles the drawing controls: pen/eraser, palette, width
// slider, pressure emulation toggle, subject selector, and the
// undo/redo/clear actions.
func NewToolbar(pad *SketchPad, pen *surface.Pen, onSubject func(string)) fyne.CanvasObject {
	// Remember the ink color while the eraser is active.
	lastInk := pen.Color()

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			pen.SetColor(lastInk)
			pen.SetWidth(3.0)
		}), // Pen
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			pen.SetColor(surface.Background)
			pen.SetWidth(24.0)
		}), // Eraser
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), pad.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), pad.Redo),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), pad.Clear),
	)

	onColorTapped := func(c color.Color) {
		lastInk = c
		pen.SetColor(c)
	}
	swatches := make([]fyne.CanvasObject, 0, len(palette))
	for _, c := range palette {
		swatches = append(swatches, newColorSwatch(c, onColorTapped))
	}
	colorBox := container.NewHBox(swatches...)

	widthSlider := widget.NewSlider(1.0, 24.0)
	widthSlider.SetValue(3.0)
	widthSlider.OnChanged = func(val float64) {
		pen.SetWidth(val)
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), widthSlider)

	pressure := widget.NewCheck("Pressure", func(on bool) {
		pen.SetDynamicWidth(on)
	})

	subjectSelect := widget.NewSelect(state.Subjects, onSubject)
	subjectSelect.SetSelected(state.DefaultSubject)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		pressure,
		widget.NewSeparator(),
		widget.NewLabel("Subject:"),
		subjectSelect,
		layout.NewSpacer(),
	)
}
