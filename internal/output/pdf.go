package output

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/jung-kurt/gofpdf"
	"github.com/mvp-joe/project-neo/internal/neo"
)

// Column widths in millimetres on a landscape A4 page.
var pdfWidths = []float64{36, 30, 30, 40, 50, 30, 40}

// PDFWriter renders a printable table of approaches.
type PDFWriter struct {
	w     io.Writer
	title string
}

// NewPDFWriter creates a PDF writer.
func NewPDFWriter(w io.Writer) *PDFWriter {
	return &PDFWriter{w: w, title: "Close Approaches"}
}

// Write implements Writer.
func (pw *PDFWriter) Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()
	pdf.Cell(0, 8, pw.title)
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		for i, c := range columns {
			pdf.CellFormat(pdfWidths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	header()

	n, err := each(ctx, approaches, func(a *neo.CloseApproach) error {
		for i, v := range NewRecord(a).fields() {
			align := "L"
			if i == 1 || i == 2 || i == 5 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		return pdf.Error()
	})
	if err != nil {
		return n, fmt.Errorf("failed to render PDF: %w", err)
	}

	if err := pdf.Output(pw.w); err != nil {
		return n, fmt.Errorf("failed to write PDF: %w", err)
	}
	return n, nil
}
