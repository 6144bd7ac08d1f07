package layout

// Column describes one table column. Width is relative to the other columns.
type Column struct {
	Header   string
	HeaderAr string
	Width    float64
	Align    string // "L", "C" or "R"
}

// Cell is one table cell. TextAr, when set, is drawn under Text in the Arabic font.
type Cell struct {
	Text      string
	TextAr    string
	Script    Script
	Bold      bool
	Align     string // Overrides the column alignment
	Fill      *Color
	TextColor *Color
}

// Table draws rows that never split across pages. The header is repeated at the
// top of every page the table continues on.
type Table struct {
	Columns    []Column
	Style      TextStyle
	HeaderFill Color
	HeaderText Color
	Padding    float64
	HideHeader bool // Key/value tables without a column header

	widths     []float64
	band       *band   // Group row waiting for the row it introduces
	headerPage int     // Page the header was last drawn on
	bodyY      float64 // Cursor right after that header
	headerTop  bool    // That header opened its page
}

// NewTable returns a table with the default header colours
func NewTable(cols []Column, style TextStyle) *Table {
	return &Table{
		Columns:    cols,
		Style:      style,
		HeaderFill: Navy,
		HeaderText: White,
		Padding:    1.5,
	}
}

func (t *Table) layout(rc *RenderContext) {
	if len(t.widths) == len(t.Columns) {
		return
	}
	total := 0.0
	for _, c := range t.Columns {
		total += c.Width
	}
	cw := rc.ContentWidth()
	t.widths = make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		if total > 0 {
			t.widths[i] = cw * c.Width / total
		} else {
			t.widths[i] = cw / float64(len(t.Columns))
		}
	}
}

func (t *Table) lineHeight(rc *RenderContext) float64 {
	return rc.LineHeight(rc.fontSize(t.Style))
}

func (t *Table) headerHeight(rc *RenderContext) float64 {
	if t.HideHeader {
		return 0
	}
	lines := 1
	for _, c := range t.Columns {
		if c.HeaderAr != "" {
			lines = 2
			break
		}
	}
	return float64(lines)*t.lineHeight(rc) + 2*t.Padding
}

func (t *Table) minRowHeight(rc *RenderContext) float64 {
	return t.lineHeight(rc) + 2*t.Padding
}

// Begin draws the header, moving to a new page first when the header and one
// row would not fit.
func (t *Table) Begin(rc *RenderContext) {
	t.layout(rc)
	rc.Ensure(t.headerHeight(rc) + t.minRowHeight(rc))
	t.drawHeader(rc)
}

func (t *Table) drawHeader(rc *RenderContext) {
	t.headerTop = rc.AtPageTop()
	if t.HideHeader {
		t.headerPage = rc.Page()
		t.bodyY = rc.Y()
		return
	}
	h := t.headerHeight(rc)
	lh := t.lineHeight(rc)
	style := TextStyle{Bold: true, FontSize: t.Style.FontSize}
	rc.Block(h, func(x, y float64) {
		rc.SetFillColor(t.HeaderFill)
		rc.SetDrawColor(GridGray)
		rc.pdf.SetLineWidth(0.2)
		rc.SetTextColor(t.HeaderText)
		for i, c := range t.Columns {
			w := t.widths[i]
			rc.pdf.Rect(x, y, w, h, "FD")
			rc.drawLines(x, y+t.Padding, w, lh, []string{c.Header}, Latin, style, "C")
			if c.HeaderAr != "" {
				rc.drawLines(x, y+t.Padding+lh, w, lh, []string{c.HeaderAr}, Arabic, style, "C")
			}
			x += w
		}
		rc.SetTextColor(Black)
	})
	t.headerPage = rc.Page()
	t.bodyY = rc.Y()
}

// onFreshPage reports whether the page holds nothing but this table's header
func (t *Table) onFreshPage(rc *RenderContext) bool {
	return t.headerTop && t.headerPage == rc.Page() && rc.Y() <= t.bodyY+epsilon
}

// reserve starts a new page with a repeated header unless h fits. A row taller than
// a page is drawn under a fresh header and allowed to overflow.
func (t *Table) reserve(rc *RenderContext, h float64) {
	if t.headerPage == 0 {
		t.Begin(rc)
	}
	if rc.Fits(h) || t.onFreshPage(rc) {
		return
	}
	rc.NewPage()
	t.drawHeader(rc)
}

type band struct {
	en, ar string
	fill   Color
}

type wrappedCell struct {
	lines   []string
	linesAr []string
}

// Row draws one row. Missing trailing cells are drawn empty.
func (t *Table) Row(rc *RenderContext, cells []Cell) {
	t.layout(rc)
	lh := t.lineHeight(rc)

	wrapped := make([]wrappedCell, len(t.Columns))
	maxLines := 1
	for i := range t.Columns {
		if i >= len(cells) {
			continue
		}
		c := cells[i]
		st := TextStyle{Bold: c.Bold, FontSize: t.Style.FontSize}
		inner := t.widths[i] - 2*t.Padding
		wrapped[i].lines = rc.WrapText(c.Text, inner, c.Script, st)
		wrapped[i].linesAr = rc.WrapText(c.TextAr, inner, Arabic, st)
		maxLines = max(maxLines, len(wrapped[i].lines)+len(wrapped[i].linesAr))
	}
	h := float64(maxLines)*lh + 2*t.Padding

	if b := t.band; b != nil {
		t.band = nil
		t.reserve(rc, t.minRowHeight(rc)+h)
		t.drawBand(rc, b)
	} else {
		t.reserve(rc, h)
	}
	if rc.err != nil {
		return
	}
	x, y := rc.Left(), rc.Y()
	rc.SetDrawColor(GridGray)
	rc.pdf.SetLineWidth(0.2)
	for i, col := range t.Columns {
		w := t.widths[i]
		var c Cell
		if i < len(cells) {
			c = cells[i]
		}
		if c.Fill != nil {
			rc.SetFillColor(*c.Fill)
			rc.pdf.Rect(x, y, w, h, "FD")
		} else {
			rc.pdf.Rect(x, y, w, h, "D")
		}
		if c.TextColor != nil {
			rc.SetTextColor(*c.TextColor)
		} else {
			rc.SetTextColor(Black)
		}
		align := c.Align
		if align == "" {
			align = col.Align
		}
		if align == "" {
			align = "L"
		}
		if c.Script == Arabic && c.Align == "" {
			align = "R"
		}
		st := TextStyle{Bold: c.Bold, FontSize: t.Style.FontSize}
		wc := wrapped[i]
		rc.drawLines(x+t.Padding, y+t.Padding, w-2*t.Padding, lh, wc.lines, c.Script, st, align)
		arAlign := "R"
		if align == "C" {
			arAlign = "C"
		}
		rc.drawLines(x+t.Padding, y+t.Padding+float64(len(wc.lines))*lh, w-2*t.Padding, lh, wc.linesAr, Arabic, st, arAlign)
		x += w
	}
	rc.SetTextColor(Black)
	rc.Advance(h)
}

// Band queues a full-width group row, e.g. an area name. It is drawn together
// with the next Row so both land on the same page; End draws a band left without one.
func (t *Table) Band(rc *RenderContext, en, ar string, fill Color) {
	t.End(rc)
	t.band = &band{en: en, ar: ar, fill: fill}
}

// End draws a queued band that no row followed
func (t *Table) End(rc *RenderContext) {
	b := t.band
	if b == nil {
		return
	}
	t.band = nil
	t.layout(rc)
	t.reserve(rc, 2*t.minRowHeight(rc))
	t.drawBand(rc, b)
}

func (t *Table) drawBand(rc *RenderContext, b *band) {
	if rc.err != nil {
		return
	}
	lh := t.lineHeight(rc)
	h := t.minRowHeight(rc)
	x, y, w := rc.Left(), rc.Y(), rc.ContentWidth()
	style := TextStyle{Bold: true, FontSize: t.Style.FontSize}
	rc.SetFillColor(b.fill)
	rc.SetDrawColor(GridGray)
	rc.pdf.SetLineWidth(0.2)
	rc.pdf.Rect(x, y, w, h, "FD")
	rc.SetTextColor(Black)
	half := w / 2
	rc.drawLines(x+t.Padding, y+t.Padding, half-t.Padding, lh, []string{b.en}, Latin, style, "L")
	rc.drawLines(x+half, y+t.Padding, half-t.Padding, lh, []string{b.ar}, Arabic, style, "R")
	rc.Advance(h)
}

// Widths returns the resolved column widths in mm
func (t *Table) Widths(rc *RenderContext) []float64 {
	t.layout(rc)
	return append([]float64(nil), t.widths...)
}
