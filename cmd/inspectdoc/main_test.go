package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const inspectionYAML = `
clientName: "Sara Al-Harbi"
propertyLocation: "Riyadh, Al Olaya"
propertyType: "Villa"
inspectorName: "Omar"
inspectionDate: "2024-05-20"
areas:
  - name: Kitchen
    items:
      - category: Plumbing
        point: Sink drain
        status: Pass
      - category: Electrical
        point: Sockets
        status: Fail
        comments: "<p>Loose socket near <b>oven</b></p>"
`

const invoiceYAML = `
invoiceNumber: "INV-7"
clientName: "Sara Al-Harbi"
propertyType: "Villa"
areaSqm: 200
issueDate: "2024-05-21"
`

const clientsYAML = `
- name: "Sara Al-Harbi"
  phone: "+966 50 123 4567"
- name: "Omar Saleh"
  phone: "0551112222"
- name: "Acme Holdings"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "villa.yml", inspectionYAML)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "--log-level", "error", "report", rec, "-o", outDir, "--report-id", "ABC123", "--xlsx")
	require.NoError(t, err)

	pdfPath := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(outDir, "Inspection_Report_Sara_Al_Harbi_2024-05-20_ABC123.pdf"), pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	f, err := excelize.OpenFile(xlsxPath(pdfPath))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Findings")

	// Same output again is refused unless --overwrite is given
	_, err = run(t, "--log-level", "error", "report", rec, "-o", outDir, "--report-id", "ABC123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--overwrite")

	_, err = run(t, "--log-level", "error", "report", rec, "-o", outDir, "--report-id", "ABC123", "--overwrite")
	require.NoError(t, err)
}

func TestReportCommandExplicitPath(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "villa.yml", inspectionYAML)
	target := filepath.Join(dir, "custom.pdf")

	out, err := run(t, "--log-level", "error", "report", rec, "-o", target, "--style", "compact")
	require.NoError(t, err)
	assert.Equal(t, target, strings.TrimSpace(out))
	assert.FileExists(t, target)
}

func TestReportCommandErrors(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "villa.yml", inspectionYAML)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing record", []string{"report", filepath.Join(dir, "nope.yml")}, "failed to open record file"},
		{"bad style", []string{"report", rec, "-o", dir, "--style", "fancy"}, "fancy"},
		{"bad log level", []string{"--log-level", "loud", "report", rec}, "loud"},
		{"missing config", []string{"--config", filepath.Join(dir, "none.yml"), "report", rec}, "error reading config"},
		{"no args", []string{"report"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInvoiceCommand(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "invoice.yml", invoiceYAML)
	cfg := writeFile(t, dir, "config.yml", "company:\n  name: Acme Inspections\nlog_level: error\n")

	out, err := run(t, "--config", cfg, "invoice", rec, "-o", dir, "--xlsx")
	require.NoError(t, err)
	pdfPath := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(filepath.Base(pdfPath), "Invoice_Sara_Al_Harbi_2024-05-21_"), pdfPath)

	f, err := excelize.OpenFile(xlsxPath(pdfPath))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Invoice")
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "villa.yml", inspectionYAML)
	cfg := writeFile(t, dir, "config.yml", "company:\n  name: Acme Inspections\nlayout:\n  watermark: DRAFT\nlog_level: error\n")
	target := filepath.Join(dir, "report.pdf")

	_, err := run(t, "--config", cfg, "report", rec, "-o", target)
	require.NoError(t, err)

	out, err := run(t, "info", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Pages:")
	assert.Contains(t, out, "Size:    210 x 297 mm")
	assert.Contains(t, out, "Author:  Acme Inspections")
	assert.Contains(t, out, "Creator: inspectdoc")
	assert.Contains(t, out, "Layers:  Watermark")

	_, err = run(t, "info", rec)
	assert.Error(t, err)
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	clients := writeFile(t, dir, "clients.yml", clientsYAML)

	tests := []struct {
		name    string
		args    []string
		want    string
		notWant string
	}{
		{"by name", []string{"match", clients, "sara"}, "Sara Al-Harbi  +966 50 123 4567", "Acme"},
		{"by phone", []string{"match", clients, "1112222"}, "Omar Saleh", "Sara"},
		{"no match", []string{"match", clients, "zzzzzz"}, "no matching clients", "Omar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, tt.notWant)
		})
	}
}
