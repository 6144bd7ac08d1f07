// Package sheet exports inspection findings and invoices as XLSX workbooks, the
// spreadsheet companion of the generated PDF documents.
package sheet

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gardar/inspectdoc/pkg/record"
	"github.com/gardar/inspectdoc/pkg/richtext"
)

const (
	FindingsSheet = "Findings"
	SummarySheet  = "Summary"
	InvoiceSheet  = "Invoice"
)

var findingsHeader = []interface{}{
	"Area", "#", "Category", "Inspection Point", "Status", "الحالة", "Comments", "Location", "Photos",
}

// Inspection returns a workbook with a Findings sheet listing every item and a
// Summary sheet with the overall and per-area tallies
func Inspection(rec *record.Inspection) ([]byte, error) {
	w, err := newWorkbook(FindingsSheet)
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	rows := [][]interface{}{findingsHeader}
	var statuses []record.Status
	for ai, a := range rec.Areas {
		for ii, it := range a.Items {
			s := it.Status.Normalize()
			statuses = append(statuses, s)
			rows = append(rows, []interface{}{
				record.OrNotSpecified(a.Name),
				fmt.Sprintf("%d.%d", ai+1, ii+1),
				it.Category,
				it.Point,
				string(s),
				s.Arabic(),
				richtext.PlainText(it.Comments),
				it.Location,
				len(it.Photos),
			})
		}
	}
	if err := w.writeRows(FindingsSheet, 1, rows); err != nil {
		return nil, err
	}
	if err := w.styleHeader(FindingsSheet, len(findingsHeader)); err != nil {
		return nil, err
	}
	for i, s := range statuses {
		cell, _ := excelize.CoordinatesToCellName(5, i+2)
		if err := w.f.SetCellStyle(FindingsSheet, cell, cell, w.status[s]); err != nil {
			return nil, err
		}
	}
	if len(statuses) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(findingsHeader), len(statuses)+1)
		if err := w.f.AutoFilter(FindingsSheet, "A1:"+last, nil); err != nil {
			return nil, fmt.Errorf("error adding filter: %w", err)
		}
	}
	if err := w.widths(FindingsSheet, 18, 6, 18, 28, 10, 12, 40, 18, 8); err != nil {
		return nil, err
	}

	if err := w.summary(rec); err != nil {
		return nil, err
	}
	return w.bytes()
}

func (w *workbook) summary(rec *record.Inspection) error {
	if _, err := w.f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	t := rec.Summarize()
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Items", t.Total()},
		{"Passed", t.Pass},
		{"Failed", t.Fail},
		{"Not Applicable", t.NA},
		{"Pass Rate (%)", t.PassRate()},
		{},
		{"Area", "Total", "Passed", "Failed", "Not Applicable", "Pass Rate (%)"},
	}
	for _, a := range rec.Areas {
		var at record.Tally
		for _, it := range a.Items {
			at.Add(it.Status)
		}
		rows = append(rows, []interface{}{record.OrNotSpecified(a.Name), at.Total(), at.Pass, at.Fail, at.NA, at.PassRate()})
	}
	if err := w.writeRows(SummarySheet, 1, rows); err != nil {
		return err
	}
	if err := w.styleHeader(SummarySheet, 2); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(SummarySheet, "A8", "F8", w.header); err != nil {
		return err
	}
	return w.widths(SummarySheet, 22, 10, 10, 10, 16, 14)
}

// Invoice returns a workbook with one Invoice sheet: header fields, service lines and totals
func Invoice(inv *record.Invoice, p record.Pricing) ([]byte, error) {
	w, err := newWorkbook(InvoiceSheet)
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	rows := [][]interface{}{
		{"Invoice Number", record.OrNotSpecified(inv.InvoiceNumber)},
		{"Client", record.OrNotSpecified(inv.ClientName)},
		{"Property", record.OrNotSpecified(inv.PropertyLocation)},
		{"Issue Date", record.FormatDate(inv.IssueDate)},
		{"Due Date", record.FormatDate(inv.DueDate)},
		{"Currency", p.Currency},
		{},
		{"#", "Description", "الوصف", "Quantity", "Unit Price", "Total"},
	}
	headerRow := len(rows)
	services := inv.EffectiveServices(p)
	for i, s := range services {
		rows = append(rows, []interface{}{
			i + 1, s.Description, s.DescriptionAr, s.Quantity, s.UnitPrice, s.LineTotal().InexactFloat64(),
		})
	}
	rows = append(rows, []interface{}{})
	totalsRow := len(rows) + 1

	tt := inv.Totals(p)
	vat := strconv.FormatFloat(p.VATRatePercent, 'f', -1, 64)
	for _, l := range []struct {
		label  string
		amount float64
	}{
		{"Subtotal", tt.Subtotal.InexactFloat64()},
		{"VAT (" + vat + "%)", tt.Tax.InexactFloat64()},
		{"Total", tt.Total.InexactFloat64()},
		{"Amount Paid", tt.Paid.InexactFloat64()},
		{"Balance Due", tt.Balance.InexactFloat64()},
	} {
		rows = append(rows, []interface{}{nil, nil, nil, nil, l.label, l.amount})
	}

	if err := w.writeRows(InvoiceSheet, 1, rows); err != nil {
		return nil, err
	}
	if err := w.f.SetCellStyle(InvoiceSheet, "A1", fmt.Sprintf("A%d", headerRow-2), w.bold); err != nil {
		return nil, err
	}
	if err := w.f.SetCellStyle(InvoiceSheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("F%d", headerRow), w.header); err != nil {
		return nil, err
	}
	if len(services) > 0 {
		if err := w.f.SetCellStyle(InvoiceSheet, fmt.Sprintf("E%d", headerRow+1), fmt.Sprintf("F%d", headerRow+len(services)), w.money); err != nil {
			return nil, err
		}
	}
	if err := w.f.SetCellStyle(InvoiceSheet, fmt.Sprintf("F%d", totalsRow), fmt.Sprintf("F%d", totalsRow+4), w.money); err != nil {
		return nil, err
	}
	if err := w.f.SetCellStyle(InvoiceSheet, fmt.Sprintf("E%d", totalsRow), fmt.Sprintf("E%d", totalsRow+4), w.bold); err != nil {
		return nil, err
	}
	if err := w.widths(InvoiceSheet, 16, 40, 30, 10, 14, 14); err != nil {
		return nil, err
	}
	return w.bytes()
}
