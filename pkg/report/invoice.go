package report

import (
	"context"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/gardar/inspectdoc/pkg/layout"
	"github.com/gardar/inspectdoc/pkg/record"
	"github.com/gardar/inspectdoc/pkg/richtext"
)

// InvoiceBuilder assembles an invoice section by section
type InvoiceBuilder struct {
	builder
	inv      *record.Invoice
	services []record.ServiceItem
	totals   record.Totals
}

// NewInvoiceBuilder returns a builder with no sections. inv is not modified.
func NewInvoiceBuilder(inv *record.Invoice, opts Options) *InvoiceBuilder {
	b := &InvoiceBuilder{inv: inv}
	b.init(opts)
	b.services = inv.EffectiveServices(b.opts.Pricing)
	b.totals = inv.Totals(b.opts.Pricing)

	companyAr := opts.Company.NameAr
	if companyAr == "" {
		companyAr = opts.Company.Name
	}
	b.data = templateData{
		Company:       opts.Company.Name,
		CompanyAr:     companyAr,
		ClientName:    record.OrNotSpecified(inv.ClientName),
		Location:      record.OrNotSpecified(inv.PropertyLocation),
		Date:          record.FormatDate(inv.IssueDate),
		InvoiceNumber: record.OrNotSpecified(inv.InvoiceNumber),
		DueDate:       record.FormatDate(inv.DueDate),
		Currency:      b.opts.Pricing.Currency,
		VATRate:       strconv.FormatFloat(b.opts.Pricing.VATRatePercent, 'f', -1, 64),
	}
	return b
}

// Standard appends the full invoice section script
func (b *InvoiceBuilder) Standard() *InvoiceBuilder {
	return b.AddInvoiceHeader().AddBillTo().AddServices().AddTotals().AddTerms().AddSignaturePage()
}

// AddInvoiceHeader adds the invoice title, number and dates
func (b *InvoiceBuilder) AddInvoiceHeader() *InvoiceBuilder {
	b.add("invoice_header", func() {
		b.title("invoice_title")
		rows := []infoRow{
			{key: "label_invoice_number", value: b.inv.InvoiceNumber},
			{key: "label_issue_date", value: formatDateOrBlank(b.inv.IssueDate)},
			{key: "label_due_date", value: formatDateOrBlank(b.inv.DueDate)},
			{key: "label_report_id", value: b.reportID},
		}
		if vat := b.opts.Company.VATNumber; vat != "" {
			rows = append(rows, infoRow{key: "label_vat_number", value: vat})
		}
		b.infoTable(rows)
	})
	return b
}

// AddBillTo adds the client and property details
func (b *InvoiceBuilder) AddBillTo() *InvoiceBuilder {
	b.add("bill_to", func() {
		inv := b.inv
		b.heading("section_bill_to")
		rows := []infoRow{
			{key: "label_client", value: inv.ClientName},
			{key: "label_phone", value: inv.ClientPhone},
			{key: "label_email", value: inv.ClientEmail},
			{key: "label_location", value: inv.PropertyLocation},
			{key: "label_property_type", value: inv.PropertyType},
		}
		if inv.AreaSqm > 0 {
			rows = append(rows, infoRow{key: "label_area", value: humanize.Ftoa(inv.AreaSqm)})
		}
		b.infoTable(rows)
	})
	return b
}

// AddServices adds the service lines table
func (b *InvoiceBuilder) AddServices() *InvoiceBuilder {
	b.add("services", func() {
		b.heading("section_services")
		if len(b.services) == 0 {
			b.rc.SetTextColor(layout.MidGray)
			b.bilingualText(b.text("no_services"), b.params.body)
			b.rc.SetTextColor(layout.Black)
			return
		}

		desc, qty := b.text("col_description"), b.text("col_quantity")
		unit, total := b.text("col_unit_price"), b.text("col_total")
		t := layout.NewTable([]layout.Column{
			{Header: "#", HeaderAr: "م", Width: 0.06, Align: "C"},
			{Header: desc.En, HeaderAr: desc.Ar, Width: 0.46},
			{Header: qty.En, HeaderAr: qty.Ar, Width: 0.12, Align: "R"},
			{Header: unit.En, HeaderAr: unit.Ar, Width: 0.18, Align: "R"},
			{Header: total.En, HeaderAr: total.Ar, Width: 0.18, Align: "R"},
		}, b.params.table)
		t.Begin(b.rc)

		cur := b.opts.Pricing.Currency
		for i, s := range b.services {
			t.Row(b.rc, []layout.Cell{
				{Text: strconv.Itoa(i + 1)},
				{Text: s.Description, Script: layout.DetectScript(s.Description), TextAr: s.DescriptionAr},
				{Text: humanize.Ftoa(s.Quantity)},
				{Text: FormatAmount(decimal.NewFromFloat(s.UnitPrice), cur)},
				{Text: FormatAmount(s.LineTotal(), cur)},
			})
		}
	})
	return b
}

// AddTotals adds subtotal, VAT, total, amount paid and balance
func (b *InvoiceBuilder) AddTotals() *InvoiceBuilder {
	b.add("totals", func() {
		tt, cur := b.totals, b.opts.Pricing.Currency
		lines := []struct {
			key    string
			amount decimal.Decimal
			strong bool
		}{
			{"label_subtotal", tt.Subtotal, false},
			{"label_vat", tt.Tax, false},
			{"label_total", tt.Total, true},
			{"label_paid", tt.Paid, false},
			{"label_balance", tt.Balance, true},
		}

		t := layout.NewTable([]layout.Column{
			{Width: 0.35},
			{Width: 0.30, Align: "R"},
			{Width: 0.35, Align: "R"},
		}, b.params.table)
		t.HideHeader = true

		b.rc.Space(4)
		b.rc.Ensure(float64(len(lines)) * (b.rc.LineHeight(b.params.table.FontSize) + 2*t.Padding))
		for _, l := range lines {
			label := b.text(l.key)
			var fill *layout.Color
			if l.strong {
				fill = &labelFill
			}
			t.Row(b.rc, []layout.Cell{
				{Text: label.En, Bold: l.strong, Fill: fill},
				{Text: FormatAmount(l.amount, cur), Bold: l.strong, Fill: fill},
				{Text: label.Ar, Script: layout.Arabic, Bold: l.strong, Fill: fill},
			})
		}
	})
	return b
}

// AddTerms adds the payment terms and any invoice notes
func (b *InvoiceBuilder) AddTerms() *InvoiceBuilder {
	b.add("terms", func() {
		b.heading("section_terms")
		b.bilingualText(b.text("terms_body"), b.params.body)
		if notes := richtext.Paragraphs(b.inv.Notes); len(notes) > 0 {
			b.rc.Space(2)
			b.flow(notes)
		}
	})
	return b
}

// AddSignaturePage adds the company and client signature boxes
func (b *InvoiceBuilder) AddSignaturePage() *InvoiceBuilder {
	b.add("signature", func() {
		b.rc.Ensure(50)
		b.heading("section_signature")
		b.signatureBlock([]signer{
			{labelKey: "label_authorized_signature", name: b.opts.Company.Name},
			{labelKey: "label_client_signature", name: b.inv.ClientName},
		})
	})
	return b
}

// Build renders the sections. With no sections added the standard script is used.
func (b *InvoiceBuilder) Build(ctx context.Context) (*Document, error) {
	if len(b.sections) == 0 {
		b.Standard()
	}
	data, pages, err := b.run(ctx, "invoice_title")
	if err != nil {
		return nil, err
	}

	date, ok := record.ParseDate(b.inv.IssueDate)
	if !ok {
		date = b.opts.now()
	}
	doc := &Document{
		Filename: Filename(InvoicePrefix, b.inv.ClientName, date, b.reportID),
		ReportID: b.reportID,
		Data:     data,
		Pages:    pages,
	}
	b.log.Info().Str("file", doc.Filename).Int("pages", pages).Str("total", b.totals.Total.StringFixed(2)).Msg("invoice generated")
	return doc, nil
}
