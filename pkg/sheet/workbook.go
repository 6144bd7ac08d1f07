package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gardar/inspectdoc/pkg/record"
)

// workbook wraps an excelize file with the shared cell styles
type workbook struct {
	f      *excelize.File
	header int
	bold   int
	money  int
	status map[record.Status]int
}

func newWorkbook(first string) (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", first); err != nil {
		f.Close()
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}
	w := &workbook{f: f, status: make(map[record.Status]int)}

	var err error
	if w.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2C3E50"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating style: %w", err)
	}
	if w.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating style: %w", err)
	}
	if w.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating style: %w", err)
	}
	for s, color := range map[record.Status]string{
		record.StatusPass: "27AE60",
		record.StatusFail: "C0392B",
		record.StatusNA:   "7F8C8D",
	} {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("error creating style: %w", err)
		}
		w.status[s] = id
	}
	return w, nil
}

// writeRows writes rows starting at column A of row first
func (w *workbook) writeRows(sheet string, first int, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, first+i)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", sheet, first+i, err)
		}
	}
	return nil
}

// styleHeader styles the first row and freezes it
func (w *workbook) styleHeader(sheet string, cols int) error {
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		return err
	}
	return w.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *workbook) widths(sheet string, widths ...float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
