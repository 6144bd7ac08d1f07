package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Script selects the font and alignment family of a piece of text
type Script int

const (
	Latin Script = iota
	Arabic
)

// TextStyle is the per-call text styling. A zero FontSize uses the configured body size.
type TextStyle struct {
	Bold     bool
	FontSize float64
}

// Color is an RGB triple
type Color struct {
	R, G, B int
}

var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	DarkGray  = Color{60, 60, 60}
	MidGray   = Color{127, 140, 141}
	LightGray = Color{236, 240, 241}
	GridGray  = Color{189, 195, 199}
	Navy      = Color{44, 62, 80}
)

func (rc *RenderContext) SetTextColor(c Color) { rc.pdf.SetTextColor(c.R, c.G, c.B) }
func (rc *RenderContext) SetFillColor(c Color) { rc.pdf.SetFillColor(c.R, c.G, c.B) }
func (rc *RenderContext) SetDrawColor(c Color) { rc.pdf.SetDrawColor(c.R, c.G, c.B) }

func (rc *RenderContext) fontSize(style TextStyle) float64 {
	if style.FontSize > 0 {
		return style.FontSize
	}
	return rc.cfg.Font.Size
}

// setFont selects the font for script. Without an embedded Arabic font both
// scripts share the core font.
func (rc *RenderContext) setFont(script Script, style TextStyle) {
	st := ""
	if style.Bold {
		st = "B"
	}
	if script == Arabic && rc.arabic {
		rc.pdf.SetFont(rc.cfg.ArabicFont.Family, st, rc.fontSize(style))
		return
	}
	rc.pdf.SetFont(rc.cfg.Font.Name, st, rc.fontSize(style))
}

// encode prepares s for the font selected by setFont. Core fonts are cp1252 and
// runes outside it become '?'.
func (rc *RenderContext) encode(script Script, s string) string {
	if script == Arabic && rc.arabic {
		return visualOrder(s)
	}
	out, missing := toCP1252(s)
	if missing > 0 && script == Arabic && !rc.warnedArabic {
		rc.warnedArabic = true
		rc.log.Warn().Int("missing_glyphs", missing).Msg("no arabic font configured, arabic text rendered with placeholders")
	}
	return out
}

func toCP1252(s string) (string, int) {
	var b strings.Builder
	b.Grow(len(s))
	missing := 0
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
		missing++
	}
	return b.String(), missing
}

// visualOrder lays out a right-to-left line in left-to-right glyph order.
// Runs of digits and Latin letters keep their internal order and brackets are mirrored.
func visualOrder(s string) string {
	rs := []rune(s)
	out := make([]rune, 0, len(rs))
	for i := len(rs) - 1; i >= 0; {
		if !isLTR(rs[i]) {
			out = append(out, mirror(rs[i]))
			i--
			continue
		}
		j := i
		for j > 0 && (isLTR(rs[j-1]) || (j > 1 && isNumberSeparator(rs[j-1]) && isLTR(rs[j-2]))) {
			j--
		}
		out = append(out, rs[j:i+1]...)
		i = j - 1
	}
	return string(out)
}

func isLTR(r rune) bool {
	return unicode.IsDigit(r) && r < 0x0660 || r < 0x0590 && unicode.IsLetter(r)
}

func isNumberSeparator(r rune) bool {
	return r == '.' || r == ',' || r == ':' || r == '/' || r == '-'
}

func mirror(r rune) rune {
	switch r {
	case '(':
		return ')'
	case ')':
		return '('
	case '[':
		return ']'
	case ']':
		return '['
	}
	return r
}

// measurer returns a width function for script and style. The font stays selected
// until the next setFont call.
func (rc *RenderContext) measurer(script Script, style TextStyle) func(string) float64 {
	rc.setFont(script, style)
	return func(s string) float64 {
		if script == Arabic && rc.arabic {
			return rc.pdf.GetStringWidth(s)
		}
		enc, _ := toCP1252(s)
		return rc.pdf.GetStringWidth(enc)
	}
}

// StringWidth measures s in mm
func (rc *RenderContext) StringWidth(s string, script Script, style TextStyle) float64 {
	return rc.measurer(script, style)(s)
}

// WrapText wraps s to fit a cell of the given width
func (rc *RenderContext) WrapText(s string, width float64, script Script, style TextStyle) []string {
	return Wrap(s, width-2*cellMargin, rc.measurer(script, style))
}

// Wrap breaks text into lines no wider than width. Explicit newlines start a new line
// and blank lines are kept. Words wider than a line are broken between runes.
// Empty input yields no lines.
func Wrap(text string, width float64, measure func(string) float64) []string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			if measure(candidate) <= width {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			if measure(w) <= width {
				cur = w
				continue
			}
			parts := breakWord(w, width, measure)
			lines = append(lines, parts[:len(parts)-1]...)
			cur = parts[len(parts)-1]
		}
		lines = append(lines, cur)
	}
	return lines
}

// breakWord splits a word wider than width between runes. Every piece holds at least one rune.
func breakWord(w string, width float64, measure func(string) float64) []string {
	var parts []string
	start := 0
	for i := 0; i < len(w); {
		_, size := utf8.DecodeRuneInString(w[i:])
		if i > start && measure(w[start:i+size]) > width {
			parts = append(parts, w[start:i])
			start = i
		}
		i += size
	}
	return append(parts, w[start:])
}

func (rc *RenderContext) drawLines(x, y, w, lh float64, lines []string, script Script, style TextStyle, align string) {
	if len(lines) == 0 {
		return
	}
	rc.setFont(script, style)
	for i, line := range lines {
		rc.pdf.SetXY(x, y+float64(i)*lh)
		rc.pdf.CellFormat(w, lh, rc.encode(script, line), "", 0, align+"M", false, 0, "")
	}
}

// TextLine draws one unwrapped line inside a box of width w at (x, y), outside the cursor flow
func (rc *RenderContext) TextLine(x, y, w float64, text string, script Script, style TextStyle, align string) {
	rc.drawLines(x, y, w, rc.LineHeight(rc.fontSize(style)), []string{text}, script, style, align)
}

// DetectScript returns Arabic when s contains any Arabic letter
func DetectScript(s string) Script {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r) {
			return Arabic
		}
	}
	return Latin
}

// Paragraph flows text across pages one line at a time
func (rc *RenderContext) Paragraph(text string, script Script, style TextStyle, align string) int {
	lines := rc.WrapText(text, rc.ContentWidth(), script, style)
	lh := rc.LineHeight(rc.fontSize(style))
	for _, line := range lines {
		rc.Ensure(lh)
		if rc.err != nil {
			return 0
		}
		rc.drawLines(rc.Left(), rc.y, rc.ContentWidth(), lh, []string{line}, script, style, align)
		rc.Advance(lh)
	}
	return len(lines)
}

// Rule draws a horizontal line across the content width at the cursor
func (rc *RenderContext) Rule(c Color, width float64) {
	rc.SetDrawColor(c)
	rc.pdf.SetLineWidth(width)
	rc.pdf.Line(rc.Left(), rc.y, rc.Left()+rc.ContentWidth(), rc.y)
}
