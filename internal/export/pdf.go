// Package export renders a session worksheet: the current canvas raster
// followed by the history of solved expressions.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"InkCalc/internal/state"
)

// WriteWorksheet writes an A4 portrait PDF to w.
func WriteWorksheet(w io.Writer, img image.Image, entries []state.HistoryEntry) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "InkCalc worksheet")
	pdf.Ln(12)

	if img != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode canvas: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("canvas", opts, &buf)
		// Fit to the printable width, keep aspect via zero height.
		pdf.ImageOptions("canvas", 10, pdf.GetY(), 190, 0, true, opts, 0, "")
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, e := range entries {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%s  [%s]", e.At.Format("2006-01-02 15:04:05"), e.Subject))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, r := range e.Results {
			line := fmt.Sprintf("%s = %v", r.Expr, r.Result)
			if r.Assign {
				line += "  (assigned)"
			}
			pdf.MultiCell(0, 6, line, "", "L", false)
			for i, s := range r.Steps {
				step := fmt.Sprintf("    %d. %s", i+1, s.Latex)
				if s.Explanation != "" {
					step += " : " + s.Explanation
				}
				pdf.MultiCell(0, 6, step, "", "L", false)
			}
		}
		pdf.Ln(3)
	}

	return pdf.Output(w)
}
