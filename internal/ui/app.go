package ui

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InkCalc/internal/export"
	"InkCalc/internal/solve"
	"InkCalc/internal/state"
	"InkCalc/internal/surface"
)

// Config carries the wiring decided in main.
type Config struct {
	Endpoints        []string
	Subject          string
	PreserveOnResize bool
}

// RunApp builds the window and blocks until it closes.
func RunApp(cfg Config) {
	a := app.New()
	w := a.NewWindow("InkCalc")
	w.Resize(fyne.NewSize(1200, 720))

	policy := surface.WipeOnResize
	if cfg.PreserveOnResize {
		policy = surface.PreserveOnResize
	}
	surf := surface.New(900, 560, 1, policy)
	pen := surface.NewPen(surf)
	pad := NewSketchPad(surf, pen)

	vars := state.NewVarStore()
	hist := state.NewHistory()
	client := solve.NewClient(cfg.Endpoints...)
	// Any edit to the canvas supersedes an in-flight submission; its answer
	// would describe a drawing that no longer exists.
	pad.OnChange = client.Invalidate
	results := NewResultsPanel(hist)
	status := widget.NewLabel("Ready")

	subject := cfg.Subject
	if subject == "" {
		subject = state.DefaultSubject
	}
	toolbar := NewToolbar(pad, pen, func(s string) {
		subject = s
	})

	varsEntry := widget.NewEntry()
	varsEntry.SetPlaceHolder("x=5, y=10")
	varsEntry.OnChanged = func(text string) {
		// The text field is the authoritative manual source: every edit
		// replaces the whole table. Solver assignments merge on top later.
		vars.ReplaceFromText(text)
	}

	var solveBtn *widget.Button
	solveBtn = widget.NewButtonWithIcon("Solve", theme.MailSendIcon(), func() {
		submit(client, surf, vars, hist, results, status, solveBtn, &subject)
	})

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer wc.Close()
			if err := export.WriteWorksheet(wc, surf.Image(), hist.Entries()); err != nil {
				log.Printf("[app] worksheet export failed: %v", err)
				status.SetText("Export failed")
				return
			}
			status.SetText("Worksheet exported")
		}, w)
	})

	bottom := container.NewBorder(nil, status, widget.NewLabel("Variables:"),
		container.NewHBox(solveBtn, exportBtn), varsEntry)

	content := container.NewBorder(toolbar, bottom, nil, nil,
		container.NewHSplit(pad, results.Object()))

	w.SetContent(content)
	w.ShowAndRun()
}

// submit serializes the surface and runs the network round trip off the UI
// thread; all UI mutation re-enters through fyne.Do.
func submit(client *solve.Client, surf *surface.Surface, vars *state.VarStore,
	hist *state.History, results *ResultsPanel, status *widget.Label,
	solveBtn *widget.Button, subject *string) {

	dataURL, err := surf.DataURL()
	if err != nil {
		log.Printf("[app] serialize failed: %v", err)
		status.SetText("Could not serialize the canvas")
		return
	}

	req := solve.Request{
		Image:      dataURL,
		DictOfVars: vars.Snapshot(),
		Subject:    *subject,
	}
	subj := *subject

	status.SetText("Solving…")
	solveBtn.Disable()

	go func() {
		res, err := client.Submit(context.Background(), req)
		fyne.Do(func() {
			solveBtn.Enable()
			switch {
			case errors.Is(err, solve.ErrBusy):
				status.SetText("A submission is already running")
			case errors.Is(err, solve.ErrStale):
				// Superseded response; nothing to show.
				status.SetText("Ready")
			case err != nil:
				status.SetText(err.Error())
			default:
				hist.Add(subj, req.DictOfVars, res)
				for _, r := range res {
					if r.Assign && state.Primitive(r.Result) {
						vars.UpsertFromResult(r.Expr, r.Result)
					}
				}
				results.Show(res)
				results.RefreshHistory()
				status.SetText(fmt.Sprintf("Solved %d expression(s)", len(res)))
			}
		})
	}()
}
