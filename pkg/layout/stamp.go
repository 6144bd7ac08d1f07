package layout

import (
	"bytes"
	"fmt"
)

// Stamp is the per-page chrome drawn once the page count is known
type Stamp struct {
	Company    string
	CompanyAr  string
	Title      string
	TitleAr    string
	FooterNote string
	Logo       *Image
}

// PageLabel is the footer page number
func PageLabel(i, n int) string {
	return fmt.Sprintf("Page %d of %d", i, n)
}

// PageLabelAr is the Arabic footer page number
func PageLabelAr(i, n int) string {
	return fmt.Sprintf("صفحة %d من %d", i, n)
}

// Finish stamps header, footer and watermark on every page 1..N and returns the PDF bytes
func (rc *RenderContext) Finish(st Stamp) ([]byte, error) {
	if err := rc.Err(); err != nil {
		return nil, err
	}

	n := rc.pdf.PageCount()
	logo := ""
	if st.Logo != nil {
		logo, _ = rc.registerImage(st.Logo)
	}
	layer := -1
	if rc.cfg.Watermark != "" {
		layer = rc.pdf.AddLayer("Watermark", true)
	}

	for i := 1; i <= n; i++ {
		rc.pdf.SetPage(i)
		rc.stampHeader(st, logo)
		rc.stampFooter(st, i, n)
		if layer >= 0 {
			rc.stampWatermark(layer)
		}
	}
	rc.pdf.SetPage(n)

	rc.pdf.SetTitle(st.Title, true)
	rc.pdf.SetCreator("inspectdoc", false)
	if st.Company != "" {
		rc.pdf.SetAuthor(st.Company, true)
	}

	if err := rc.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := rc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	rc.log.Debug().Int("pages", n).Int("bytes", buf.Len()).Msg("document finished")
	return buf.Bytes(), nil
}

func (rc *RenderContext) stampHeader(st Stamp, logo string) {
	hh := rc.cfg.HeaderHeight
	if hh <= 0 {
		return
	}
	top := rc.Top() - hh - 3
	x, w := rc.Left(), rc.ContentWidth()

	textX := x
	if logo != "" {
		side := hh - 2
		rc.drawImageFit(logo, st.Logo, x, top+1, side, side)
		textX += side + 3
	}
	half := (w - (textX - x) - rc.cfg.Gutter) / 2

	rc.SetTextColor(Navy)
	nameStyle := TextStyle{Bold: true, FontSize: 12}
	titleStyle := TextStyle{FontSize: 9}
	nameH := rc.LineHeight(12)
	titleH := rc.LineHeight(9)

	rc.drawLines(textX, top+1, half, nameH, []string{st.Company}, Latin, nameStyle, "L")
	rc.drawLines(x+w-half, top+1, half, nameH, []string{st.CompanyAr}, Arabic, nameStyle, "R")
	rc.SetTextColor(DarkGray)
	rc.drawLines(textX, top+1+nameH, half, titleH, []string{st.Title}, Latin, titleStyle, "L")
	rc.drawLines(x+w-half, top+1+nameH, half, titleH, []string{st.TitleAr}, Arabic, titleStyle, "R")
	rc.SetTextColor(Black)

	rc.SetDrawColor(Navy)
	rc.pdf.SetLineWidth(0.5)
	ry := rc.Top() - 2
	rc.pdf.Line(x, ry, x+w, ry)
}

func (rc *RenderContext) stampFooter(st Stamp, i, n int) {
	x, w := rc.Left(), rc.ContentWidth()
	ry := rc.Bottom() + 4
	rc.SetDrawColor(GridGray)
	rc.pdf.SetLineWidth(0.3)
	rc.pdf.Line(x, ry, x+w, ry)

	style := TextStyle{FontSize: 8}
	lh := rc.LineHeight(8)
	third := w / 3
	rc.SetTextColor(MidGray)
	rc.drawLines(x, ry+1, third, lh, []string{st.FooterNote}, Latin, style, "L")
	rc.drawLines(x, ry+1, w, lh, []string{PageLabel(i, n)}, Latin, style, "C")
	rc.drawLines(x+w-third, ry+1, third, lh, []string{PageLabelAr(i, n)}, Arabic, style, "R")
	rc.SetTextColor(Black)
}

func (rc *RenderContext) stampWatermark(layer int) {
	pdf := rc.pdf
	pdf.BeginLayer(layer)
	pdf.SetAlpha(0.08, "Normal")
	rc.setFont(Latin, TextStyle{Bold: true, FontSize: 60})
	rc.SetTextColor(MidGray)

	text := rc.encode(Latin, rc.cfg.Watermark)
	cx := rc.cfg.PageSize.Wd / 2
	cy := rc.cfg.PageSize.Ht / 2
	pdf.TransformBegin()
	pdf.TransformRotate(45, cx, cy)
	pdf.Text(cx-pdf.GetStringWidth(text)/2, cy, text)
	pdf.TransformEnd()

	pdf.SetAlpha(1, "Normal")
	rc.SetTextColor(Black)
	pdf.EndLayer()
}
