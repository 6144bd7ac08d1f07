package report

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gardar/inspectdoc/pkg/layout"
	"github.com/gardar/inspectdoc/pkg/record"
)

// section is one named step of a document script
type section struct {
	name   string
	render func()
}

// styleParams are the typographic settings of a style
type styleParams struct {
	title      layout.TextStyle
	body       layout.TextStyle
	table      layout.TextStyle
	heading    float64
	maxPhotos  int
	coverBreak bool // Content after the cover starts on a new page
}

func paramsFor(s Style) styleParams {
	p := styleParams{
		title:      layout.TextStyle{Bold: true, FontSize: 18},
		body:       layout.TextStyle{FontSize: 10},
		table:      layout.TextStyle{FontSize: 9},
		heading:    12,
		maxPhotos:  12,
		coverBreak: true,
	}
	switch s {
	case StyleCompact:
		p.title.FontSize = 14
		p.body.FontSize = 8.5
		p.table.FontSize = 7.5
		p.heading = 10
		p.maxPhotos = 4
		p.coverBreak = false
	case StyleDetailed:
		p.maxPhotos = 0
	}
	return p
}

// builder holds what the inspection and invoice builders share
type builder struct {
	opts     Options
	texts    Texts
	data     templateData
	params   styleParams
	reportID string
	sections []section

	rc            *layout.RenderContext
	log           zerolog.Logger
	err           error // First boilerplate or setup error
	breakPending  bool
	photoFailures int
}

func (b *builder) init(opts Options) {
	if opts.Pricing == (record.Pricing{}) {
		opts.Pricing = record.DefaultPricing()
	}
	b.opts = opts
	b.params = paramsFor(opts.Style)
	b.log = zerolog.Nop()

	b.texts = opts.Texts
	if b.texts == nil {
		b.texts, b.err = DefaultTexts()
	}

	b.reportID = opts.ReportID
	if b.reportID == "" {
		id, err := NewReportID()
		if err != nil && b.err == nil {
			b.err = err
		}
		b.reportID = id
	}
}

func (b *builder) add(name string, render func()) {
	b.sections = append(b.sections, section{name: name, render: render})
}

// text renders a boilerplate entry; the first failure aborts the current section
func (b *builder) text(key string) Text {
	t, err := b.texts.Render(key, b.data)
	if err != nil && b.err == nil {
		b.err = err
	}
	return t
}

// run renders every section in order and stamps the pages
func (b *builder) run(ctx context.Context, titleKey string) ([]byte, int, error) {
	if b.err != nil {
		return nil, 0, layout.WithSection("setup", b.err)
	}

	cfg := b.opts.Layout
	if cfg.Logger == nil {
		cfg.Logger = zerolog.Ctx(ctx)
	}
	b.log = *cfg.Logger

	rc, err := layout.NewRenderContext(cfg)
	if err != nil {
		return nil, 0, layout.WithSection("setup", err)
	}
	b.rc = rc

	for _, s := range b.sections {
		if err := ctx.Err(); err != nil {
			return nil, 0, layout.WithSection(s.name, err)
		}
		if b.breakPending && !rc.AtPageTop() {
			rc.NewPage()
		}
		b.breakPending = false

		s.render()
		if b.err != nil {
			return nil, 0, layout.WithSection(s.name, b.err)
		}
		if err := rc.Err(); err != nil {
			return nil, 0, layout.WithSection(s.name, err)
		}
		b.log.Debug().Str("section", s.name).Int("page", rc.Page()).Msg("section rendered")
	}

	pages := rc.PageCount()
	data, err := rc.Finish(b.stamp(b.text(titleKey)))
	if err == nil {
		err = b.err
	}
	if err != nil {
		return nil, 0, layout.WithSection("finish", err)
	}
	return data, pages, nil
}

func (b *builder) stamp(title Text) layout.Stamp {
	c := b.opts.Company
	st := layout.Stamp{
		Company:    c.Name,
		CompanyAr:  c.NameAr,
		Title:      title.En,
		TitleAr:    title.Ar,
		FooterNote: b.text("footer_note").En,
	}
	if len(c.Logo) > 0 {
		logo, err := layout.DecodeImage(c.Logo)
		if err != nil {
			b.log.Warn().Err(err).Msg("company logo unusable, header drawn without it")
		} else {
			st.Logo = logo
		}
	}
	return st
}

func (b *builder) heading(key string) {
	t := b.text(key)
	b.rc.Space(4)
	b.rc.Heading(t.En, t.Ar, layout.Navy, layout.White, b.params.heading, 20)
	b.rc.Space(2)
}

func (b *builder) title(key string) {
	t := b.text(key)
	b.rc.Bilingual(t.En, t.Ar, b.params.title)
	b.rc.Space(2)
	b.rc.Rule(layout.Navy, 0.6)
	b.rc.Space(4)
}

// bilingualText lays out paragraph pairs side by side so long texts can break between paragraphs
func (b *builder) bilingualText(t Text, style layout.TextStyle) {
	en := splitParagraphs(t.En)
	ar := splitParagraphs(t.Ar)
	for i := 0; i < max(len(en), len(ar)); i++ {
		var e, a string
		if i < len(en) {
			e = en[i]
		}
		if i < len(ar) {
			a = ar[i]
		}
		b.rc.Bilingual(e, a, style)
		b.rc.Space(2)
	}
}

func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// flow lays out single-language paragraphs, right-aligning Arabic ones
func (b *builder) flow(paragraphs []string) {
	for _, p := range paragraphs {
		script := layout.DetectScript(p)
		align := "L"
		if script == layout.Arabic {
			align = "R"
		}
		b.rc.Paragraph(p, script, b.params.body, align)
		b.rc.Space(2)
	}
}

type infoRow struct {
	key   string
	value string
	fill  *layout.Color
}

var labelFill = layout.LightGray

// infoTable draws label/value rows with the English label left and the Arabic label right.
// Blank values get the bilingual "Not Specified" placeholder.
func (b *builder) infoTable(rows []infoRow) {
	t := layout.NewTable([]layout.Column{
		{Width: 0.28},
		{Width: 0.44},
		{Width: 0.28, Align: "R"},
	}, b.params.table)
	t.HideHeader = true

	for _, r := range rows {
		label := b.text(r.key)
		value := layout.Cell{Text: r.value, Script: layout.DetectScript(r.value), Fill: r.fill}
		if strings.TrimSpace(r.value) == "" {
			value = layout.Cell{Text: record.NotSpecified, TextAr: record.NotSpecifiedAr, TextColor: &layout.MidGray}
		}
		t.Row(b.rc, []layout.Cell{
			{Text: label.En, Bold: true, Fill: &labelFill},
			value,
			{Text: label.Ar, Script: layout.Arabic, Bold: true, Fill: &labelFill},
		})
	}
}

type signer struct {
	labelKey string
	name     string
}

// signatureBlock draws up to two signature boxes side by side
func (b *builder) signatureBlock(signers []signer) {
	rc := b.rc
	body := b.params.body
	bold := layout.TextStyle{Bold: true, FontSize: body.FontSize}
	lh := rc.LineHeight(body.FontSize)
	colW := rc.ColumnWidth()
	date := b.text("label_signature_date")

	labels := make([]Text, len(signers))
	for i, s := range signers {
		labels[i] = b.text(s.labelKey)
	}

	rc.Block(3*lh+18, func(x, y float64) {
		for i, s := range signers {
			if i > 1 {
				break
			}
			sx := x + float64(i)*(colW+rc.Gutter())
			rc.TextLine(sx, y, colW, labels[i].En, layout.Latin, bold, "L")
			rc.TextLine(sx, y, colW, labels[i].Ar, layout.Arabic, bold, "R")
			rc.TextLine(sx, y+lh, colW, s.name, layout.DetectScript(s.name), body, "L")

			lineY := y + 2*lh + 14
			rc.SetDrawColor(layout.DarkGray)
			rc.PDF().SetLineWidth(0.3)
			rc.PDF().Line(sx, lineY, sx+colW, lineY)
			rc.TextLine(sx, lineY+1, colW, date.En, layout.Latin, body, "L")
			rc.TextLine(sx, lineY+1, colW, date.Ar, layout.Arabic, body, "R")
		}
	})
}
