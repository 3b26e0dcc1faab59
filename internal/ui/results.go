package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"InkCalc/internal/state"
)

// ResultsPanel shows the latest submission's results and the session
// history. Step latex is displayed as raw text; typesetting it is an
// external collaborator's job.
type ResultsPanel struct {
	history *state.History

	latest      *fyne.Container
	historyList *widget.List
	root        fyne.CanvasObject
}

func NewResultsPanel(hist *state.History) *ResultsPanel {
	rp := &ResultsPanel{
		history: hist,
		latest:  container.NewVBox(widget.NewLabel("Draw an expression and hit Solve.")),
	}

	rp.historyList = widget.NewList(
		func() int { return rp.history.Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			entries := rp.history.Entries()
			if i < 0 || i >= len(entries) {
				return
			}
			o.(*widget.Label).SetText(summarize(entries[i]))
		},
	)

	rp.root = container.NewBorder(
		widget.NewLabel("Results"), nil, nil, nil,
		container.NewVSplit(container.NewVScroll(rp.latest), rp.historyList),
	)
	return rp
}

// Object returns the panel's root canvas object.
func (rp *ResultsPanel) Object() fyne.CanvasObject {
	return rp.root
}

// Show replaces the latest-results section.
func (rp *ResultsPanel) Show(results []state.ResultEntry) {
	rp.latest.RemoveAll()
	if len(results) == 0 {
		rp.latest.Add(widget.NewLabel("No expressions recognized."))
	}
	for _, r := range results {
		line := fmt.Sprintf("%s = %s", r.Expr, formatValue(r.Result))
		if r.Assign {
			line += "  (assigned)"
		}
		header := widget.NewLabel(line)
		header.TextStyle = fyne.TextStyle{Bold: true}
		header.Wrapping = fyne.TextWrapWord
		rp.latest.Add(header)

		for i, step := range r.Steps {
			text := step.Latex
			if step.Explanation != "" {
				text += " : " + step.Explanation
			}
			stepLabel := widget.NewLabel(fmt.Sprintf("  %d. %s", i+1, text))
			stepLabel.Wrapping = fyne.TextWrapWord
			rp.latest.Add(stepLabel)
		}
	}
	rp.latest.Refresh()
}

// RefreshHistory re-renders the history list after a new entry.
func (rp *ResultsPanel) RefreshHistory() {
	rp.historyList.Refresh()
}

func summarize(e state.HistoryEntry) string {
	head := fmt.Sprintf("%s [%s]", e.At.Format("15:04:05"), e.Subject)
	if len(e.Results) == 0 {
		return head + " (no results)"
	}
	first := e.Results[0]
	s := fmt.Sprintf("%s %s = %s", head, first.Expr, formatValue(first.Result))
	if extra := len(e.Results) - 1; extra > 0 {
		s += fmt.Sprintf(" (+%d more)", extra)
	}
	return s
}

// formatValue renders a solver value for display, trimming float noise.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "?"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
