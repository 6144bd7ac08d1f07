package report

import (
	"context"
	"strconv"
	"strings"

	"github.com/gardar/inspectdoc/pkg/layout"
	"github.com/gardar/inspectdoc/pkg/record"
	"github.com/gardar/inspectdoc/pkg/richtext"
)

// InspectionBuilder assembles an inspection report section by section
type InspectionBuilder struct {
	builder
	rec      *record.Inspection
	view     *record.Inspection // Copy with rich text comments flattened
	findings *layout.FindingsResult
}

// NewInspectionBuilder returns a builder with no sections. rec is not modified.
func NewInspectionBuilder(rec *record.Inspection, opts Options) *InspectionBuilder {
	b := &InspectionBuilder{rec: rec}
	b.init(opts)

	b.view = rec.Clone()
	for ai := range b.view.Areas {
		items := b.view.Areas[ai].Items
		for ii := range items {
			items[ii].Comments = richtext.PlainText(items[ii].Comments)
		}
	}

	companyAr := opts.Company.NameAr
	if companyAr == "" {
		companyAr = opts.Company.Name
	}
	b.data = templateData{
		Company:    opts.Company.Name,
		CompanyAr:  companyAr,
		ClientName: record.OrNotSpecified(rec.ClientName),
		Location:   record.OrNotSpecified(rec.PropertyLocation),
		Inspector:  record.OrNotSpecified(rec.InspectorName),
		Date:       record.FormatDate(rec.InspectionDate),
	}
	return b
}

// WithStyle appends the section script of s and applies its typography
func (b *InspectionBuilder) WithStyle(s Style) *InspectionBuilder {
	b.params = paramsFor(s)
	switch s {
	case StyleCompact:
		return b.AddCoverPage().AddFindings().AddSummary().AddSignaturePage()
	case StyleDetailed:
		return b.AddCoverPage().AddDisclaimer().AddSummary().AddFindings().
			AddAISummary().AddPhotos().AddSignaturePage()
	default:
		return b.AddCoverPage().AddDisclaimer().AddFindings().AddSummary().
			AddAISummary().AddPhotos().AddSignaturePage()
	}
}

// AddCoverPage adds the report title and the property information table
func (b *InspectionBuilder) AddCoverPage() *InspectionBuilder {
	b.add("cover", func() {
		r := b.rec
		b.title("report_title")
		b.heading("section_property_info")
		b.infoTable([]infoRow{
			{key: "label_client", value: r.ClientName},
			{key: "label_phone", value: r.ClientPhone},
			{key: "label_email", value: r.ClientEmail},
			{key: "label_location", value: r.PropertyLocation},
			{key: "label_property_type", value: r.PropertyType},
			{key: "label_inspector", value: r.InspectorName},
			{key: "label_inspection_date", value: formatDateOrBlank(r.InspectionDate)},
			{key: "label_report_id", value: b.reportID},
		})
		b.breakPending = b.params.coverBreak
	})
	return b
}

// AddDisclaimer adds the scope and limitations text
func (b *InspectionBuilder) AddDisclaimer() *InspectionBuilder {
	b.add("disclaimer", func() {
		b.heading("section_disclaimer")
		b.bilingualText(b.text("disclaimer_body"), b.params.body)
	})
	return b
}

// AddFindings adds the findings table grouped by area
func (b *InspectionBuilder) AddFindings() *InspectionBuilder {
	b.add("findings", func() {
		b.heading("section_findings")
		res := layout.Findings(b.rc, b.view.Areas, b.params.table)
		b.findings = &res
	})
	return b
}

func (b *InspectionBuilder) tally() record.Tally {
	if b.findings != nil {
		return b.findings.Tally
	}
	return b.view.Summarize()
}

// AddSummary adds the status counts, pass rate and overall verdict
func (b *InspectionBuilder) AddSummary() *InspectionBuilder {
	b.add("summary", func() {
		t := b.tally()
		b.data.PassRate = t.PassRate()

		b.heading("section_summary")
		pass, fail, na := layout.PassColor, layout.FailColor, layout.LightGray
		b.infoTable([]infoRow{
			{key: "label_total_items", value: strconv.Itoa(t.Total())},
			{key: "label_passed", value: strconv.Itoa(t.Pass), fill: &pass},
			{key: "label_failed", value: strconv.Itoa(t.Fail), fill: &fail},
			{key: "label_na", value: strconv.Itoa(t.NA), fill: &na},
			{key: "label_pass_rate", value: strconv.Itoa(t.PassRate()) + "%"},
		})
		b.rc.Space(4)
		b.bilingualText(b.text(verdictKey(t)), layout.TextStyle{Bold: true, FontSize: b.params.body.FontSize})
	})
	return b
}

// verdictKey picks the verdict text from the pass rate over decided items
func verdictKey(t record.Tally) string {
	switch rate := t.PassRate(); {
	case t.Pass+t.Fail == 0:
		return "verdict_none"
	case rate >= 80:
		return "verdict_good"
	case rate >= 50:
		return "verdict_fair"
	default:
		return "verdict_poor"
	}
}

// AddAISummary adds the free-text overview. Records without one get no section.
func (b *InspectionBuilder) AddAISummary() *InspectionBuilder {
	b.add("ai_summary", func() {
		paragraphs := richtext.Paragraphs(b.rec.AISummary)
		if len(paragraphs) == 0 {
			return
		}
		b.heading("section_ai_summary")
		b.flow(paragraphs)
	})
	return b
}

func (b *InspectionBuilder) maxPhotos() int {
	switch {
	case b.opts.MaxPhotos > 0:
		return b.opts.MaxPhotos
	case b.opts.MaxPhotos < 0:
		return 0
	}
	return b.params.maxPhotos
}

// AddPhotos adds the photo grid. Records without photos get no section.
func (b *InspectionBuilder) AddPhotos() *InspectionBuilder {
	b.add("photos", func() {
		var photos []layout.Photo
		if b.findings != nil {
			photos = b.findings.Photos
		} else {
			photos = layout.CollectPhotos(b.view.Areas)
		}
		if len(photos) == 0 {
			return
		}
		b.heading("section_photos")
		opts := layout.DefaultPhotoGridOptions()
		opts.MaxPhotos = b.maxPhotos()
		res := layout.PhotoGrid(b.rc, photos, opts)
		b.photoFailures += res.Failed
		if res.Failed > 0 {
			b.log.Warn().Int("failed", res.Failed).Int("rendered", res.Rendered).Msg("photos drawn as placeholders")
		}
	})
	return b
}

// AddSignaturePage adds the inspector and client signature boxes
func (b *InspectionBuilder) AddSignaturePage() *InspectionBuilder {
	b.add("signature", func() {
		b.rc.Ensure(70)
		b.heading("section_signature")
		b.bilingualText(b.text("signature_statement"), b.params.body)
		b.rc.Space(6)
		b.signatureBlock([]signer{
			{labelKey: "label_inspector_signature", name: b.rec.InspectorName},
			{labelKey: "label_client_signature", name: b.rec.ClientName},
		})
	})
	return b
}

// Build renders the sections. With no sections added the style from Options is used.
func (b *InspectionBuilder) Build(ctx context.Context) (*Document, error) {
	if len(b.sections) == 0 {
		b.WithStyle(b.opts.Style)
	}
	data, pages, err := b.run(ctx, "report_title")
	if err != nil {
		return nil, err
	}

	date, ok := record.ParseDate(b.rec.InspectionDate)
	if !ok {
		date = b.opts.now()
	}
	doc := &Document{
		Filename:      Filename(InspectionPrefix, b.rec.ClientName, date, b.reportID),
		ReportID:      b.reportID,
		Data:          data,
		Pages:         pages,
		PhotoFailures: b.photoFailures,
	}
	b.log.Info().Str("file", doc.Filename).Int("pages", pages).Int("items", b.rec.ItemCount()).Msg("inspection report generated")
	return doc, nil
}

func formatDateOrBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return record.FormatDate(s)
}
