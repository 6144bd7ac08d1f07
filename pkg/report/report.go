// Package report builds bilingual inspection reports and invoices on top of the layout engine.
//
// A document is a script of named sections rendered in order onto one RenderContext. The
// builders expose each section as a chainable method so callers can assemble custom documents,
// and the predefined styles (standard, compact, detailed) are just section scripts.
//
// Key Types:
//
// - InspectionBuilder: cover, disclaimer, findings, summary, overview, photos and signatures
// - InvoiceBuilder: invoice header, bill-to, services, totals, terms and signatures
// - Options: layout, company branding, pricing and style
// - Document: the rendered PDF with its filename, report ID and page count
//
// Main Functions:
//
// - Generate: renders a *record.Inspection or *record.Invoice with the configured style
// - Filename: deterministic, filesystem-safe document names
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gardar/inspectdoc/pkg/layout"
	"github.com/gardar/inspectdoc/pkg/record"
)

// Style selects a predefined section script for inspection reports
type Style string

const (
	StyleStandard Style = "standard"
	StyleCompact  Style = "compact"
	StyleDetailed Style = "detailed"
)

// ParseStyle validates a style name. The empty string is the standard style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleStandard:
		return StyleStandard, nil
	case StyleCompact:
		return StyleCompact, nil
	case StyleDetailed:
		return StyleDetailed, nil
	}
	return "", fmt.Errorf("unknown report style %q (want standard, compact or detailed)", s)
}

// Company is the branding printed in the page header
type Company struct {
	Name      string
	NameAr    string
	Address   string
	AddressAr string
	Phone     string
	Email     string
	VATNumber string
	Logo      []byte // Raw PNG, JPEG, GIF or WebP bytes
}

// Options configures document generation
type Options struct {
	Layout    layout.Config
	Company   Company
	Pricing   record.Pricing
	Style     Style
	MaxPhotos int              // Inline photo limit; 0 uses the style default, negative renders all
	ReportID  string           // Generated when empty
	Now       func() time.Time // Clock for undated records, time.Now when nil
	Texts     Texts            // Boilerplate override, the embedded texts when nil
}

// DefaultOptions returns options with the default layout, pricing and style
func DefaultOptions() Options {
	return Options{
		Layout:  layout.DefaultConfig(),
		Pricing: record.DefaultPricing(),
		Style:   StyleStandard,
	}
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Document is a rendered PDF
type Document struct {
	Filename      string
	ReportID      string
	Data          []byte
	Pages         int
	PhotoFailures int // Photos drawn as placeholders
}

// Generate renders input, a *record.Inspection or *record.Invoice, with opts.
// Inspections use the section script of opts.Style.
func Generate(ctx context.Context, input interface{}, opts Options) (*Document, error) {
	switch v := input.(type) {
	case *record.Inspection:
		if v == nil {
			return nil, fmt.Errorf("inspection record is nil")
		}
		return NewInspectionBuilder(v, opts).WithStyle(opts.Style).Build(ctx)
	case record.Inspection:
		return NewInspectionBuilder(&v, opts).WithStyle(opts.Style).Build(ctx)
	case *record.Invoice:
		if v == nil {
			return nil, fmt.Errorf("invoice record is nil")
		}
		return NewInvoiceBuilder(v, opts).Standard().Build(ctx)
	case record.Invoice:
		return NewInvoiceBuilder(&v, opts).Standard().Build(ctx)
	default:
		return nil, fmt.Errorf("unsupported record type: %T", input)
	}
}
