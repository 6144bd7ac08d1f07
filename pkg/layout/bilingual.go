package layout

// Bilingual draws English in the left column and Arabic right-aligned in the right
// column, both starting at the same y. The cursor advances by the taller column.
// It returns the line count of each column.
func (rc *RenderContext) Bilingual(en, ar string, style TextStyle) (enLines, arLines int) {
	colW := rc.ColumnWidth()
	enWrapped := rc.WrapText(en, colW, Latin, style)
	arWrapped := rc.WrapText(ar, colW, Arabic, style)

	n := max(len(enWrapped), len(arWrapped))
	if n == 0 {
		return 0, 0
	}
	lh := rc.LineHeight(rc.fontSize(style))
	rc.Block(float64(n)*lh, func(x, y float64) {
		rc.drawLines(x, y, colW, lh, enWrapped, Latin, style, "L")
		rc.drawLines(x+colW+rc.cfg.Gutter, y, colW, lh, arWrapped, Arabic, style, "R")
	})
	return len(enWrapped), len(arWrapped)
}

// Heading draws a filled title band with the English title on the left and the
// Arabic title on the right. Reserve keeps the band on the same page as the
// first reserve mm of content that follows it.
func (rc *RenderContext) Heading(en, ar string, fill, text Color, fontSize, reserve float64) {
	style := TextStyle{Bold: true, FontSize: fontSize}
	lh := rc.LineHeight(fontSize)
	h := lh + 3
	rc.Ensure(h + reserve)
	w := rc.ContentWidth()
	rc.Block(h, func(x, y float64) {
		rc.SetFillColor(fill)
		rc.pdf.Rect(x, y, w, h, "F")
		rc.SetTextColor(text)
		half := (w - rc.cfg.Gutter) / 2
		rc.drawLines(x+1, y+1.5, half, lh, []string{en}, Latin, style, "L")
		rc.drawLines(x+half+rc.cfg.Gutter-1, y+1.5, half, lh, []string{ar}, Arabic, style, "R")
		rc.SetTextColor(Black)
	})
}
