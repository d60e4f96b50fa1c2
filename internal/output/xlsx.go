package output

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the approaches.
const SheetName = "approaches"

// XLSXWriter writes a workbook with a single approaches sheet using the
// excelize stream writer.
type XLSXWriter struct {
	w io.Writer
}

// NewXLSXWriter creates an XLSX writer.
func NewXLSXWriter(w io.Writer) *XLSXWriter {
	return &XLSXWriter{w: w}
}

// Write implements Writer.
func (xw *XLSXWriter) Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	row := 1
	n, err := each(ctx, approaches, func(a *neo.CloseApproach) error {
		row++
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, NewRecord(a).values())
	})
	if err != nil {
		return n, fmt.Errorf("failed to write XLSX row: %w", err)
	}

	if err := sw.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(xw.w); err != nil {
		return n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return n, nil
}
