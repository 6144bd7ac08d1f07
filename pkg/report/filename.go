package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"
)

const (
	InspectionPrefix = "Inspection_Report"
	InvoicePrefix    = "Invoice"

	reportIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	reportIDLength   = 12
)

// NewReportID returns a random 12 character alphanumeric report identifier
func NewReportID() (string, error) {
	id, err := gonanoid.Generate(reportIDAlphabet, reportIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate report ID: %w", err)
	}
	return id, nil
}

// SanitizeName turns a client name into a filename component. Every run of
// characters other than letters and digits becomes one underscore; an empty
// result becomes "Client".
func SanitizeName(name string) string {
	if s := sanitize(name); s != "" {
		return s
	}
	return "Client"
}

func sanitize(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Filename builds <prefix>_<client>_<date>_<id>.pdf. An empty report ID is left out.
func Filename(prefix, clientName string, date time.Time, reportID string) string {
	parts := []string{prefix, SanitizeName(clientName), date.Format("2006-01-02")}
	if id := sanitize(reportID); id != "" {
		parts = append(parts, id)
	}
	return strings.Join(parts, "_") + ".pdf"
}

// FormatAmount formats a money amount with thousands separators, two decimals and the currency code
func FormatAmount(d decimal.Decimal, currency string) string {
	s := humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
	if currency == "" {
		return s
	}
	return s + " " + currency
}
