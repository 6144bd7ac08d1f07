package layout

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

const (
	ptToMM     = 25.4 / 72
	cellMargin = 1.0
	epsilon    = 1e-6
)

// RenderContext carries the page and cursor state of one document.
// It is threaded through every render call and owns all page-break decisions;
// the underlying fpdf auto page break stays disabled.
type RenderContext struct {
	pdf *fpdf.Fpdf
	cfg Config
	log zerolog.Logger

	y     float64 // Vertical cursor in mm from the top edge
	fresh bool    // Nothing drawn on the current page yet
	err   error   // First fatal error, sticky

	arabic       bool // Arabic TrueType font registered
	warnedArabic bool
	imageSeq     int
	letterhead   *letterhead
}

// NewRenderContext creates a document with one blank page and the cursor at the top margin
func NewRenderContext(cfg Config) (*RenderContext, error) {
	cfg = cfg.withDefaults()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           cfg.PageSize,
	})
	pdf.SetMargins(cfg.Margins.Left, cfg.Margins.Top, cfg.Margins.Right)
	pdf.SetAutoPageBreak(false, cfg.Margins.Bottom)
	pdf.SetCellMargin(cellMargin)
	pdf.SetCompression(cfg.Compress)

	rc := &RenderContext{
		pdf: pdf,
		cfg: cfg,
		log: cfg.logger(),
	}
	rc.registerArabicFont()

	rc.NewPage()
	if err := rc.Err(); err != nil {
		return nil, err
	}
	return rc, nil
}

// registerArabicFont embeds the configured Arabic font. A font fpdf cannot parse
// is dropped with a warning and Arabic text falls back to the core font.
func (rc *RenderContext) registerArabicFont() {
	af := rc.cfg.ArabicFont
	if len(af.Data) == 0 {
		return
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				rc.pdf.SetError(fmt.Errorf("font parser panic: %v", r))
			}
		}()
		rc.pdf.AddUTF8FontFromBytes(af.Family, "", af.Data)
		rc.pdf.AddUTF8FontFromBytes(af.Family, "B", af.Data)
	}()
	// fpdf drops a font it cannot parse without raising an error
	if rc.pdf.Ok() && rc.pdf.GetFontDesc(af.Family, "") == (fpdf.FontDescType{}) {
		rc.pdf.SetError(fmt.Errorf("font %q could not be parsed", af.Family))
	}
	if !rc.pdf.Ok() {
		rc.log.Warn().Err(rc.pdf.Error()).Str("family", af.Family).Msg("arabic font rejected, using core font")
		rc.pdf.ClearError()
		return
	}
	rc.arabic = true
}

// PDF exposes the underlying document for drawing primitives not covered here
func (rc *RenderContext) PDF() *fpdf.Fpdf { return rc.pdf }

// Logger returns the context logger
func (rc *RenderContext) Logger() *zerolog.Logger { return &rc.log }

// Y is the current cursor position
func (rc *RenderContext) Y() float64 { return rc.y }

// Page is the 1-based index of the current page
func (rc *RenderContext) Page() int { return rc.pdf.PageNo() }

// PageCount is the number of pages allocated so far
func (rc *RenderContext) PageCount() int { return rc.pdf.PageCount() }

// Top is the first usable y position of a page
func (rc *RenderContext) Top() float64 { return rc.cfg.Margins.Top }

// Bottom is the y position content must not cross
func (rc *RenderContext) Bottom() float64 { return rc.cfg.PageSize.Ht - rc.cfg.Margins.Bottom }

// Left is the x position of the content area
func (rc *RenderContext) Left() float64 { return rc.cfg.Margins.Left }

// ContentWidth is the usable width between the side margins
func (rc *RenderContext) ContentWidth() float64 {
	return rc.cfg.PageSize.Wd - rc.cfg.Margins.Left - rc.cfg.Margins.Right
}

// UsableHeight is the vertical space available for content on one page
func (rc *RenderContext) UsableHeight() float64 { return rc.Bottom() - rc.Top() }

// ColumnWidth is the width of one bilingual column
func (rc *RenderContext) ColumnWidth() float64 {
	return (rc.ContentWidth() - rc.cfg.Gutter) / 2
}

// Gutter is the space between bilingual columns
func (rc *RenderContext) Gutter() float64 { return rc.cfg.Gutter }

// LineHeight is the line advance for a font size in pt
func (rc *RenderContext) LineHeight(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = rc.cfg.Font.Size
	}
	return fontSize * ptToMM * rc.cfg.LineSpacing
}

// Fits reports whether a block of height h fits above the bottom margin
func (rc *RenderContext) Fits(h float64) bool {
	return rc.y+h <= rc.Bottom()+epsilon
}

// AtPageTop reports whether nothing has been placed on the current page
func (rc *RenderContext) AtPageTop() bool { return rc.fresh }

// NewPage appends a blank page and moves the cursor to the top margin
func (rc *RenderContext) NewPage() {
	if rc.err != nil {
		return
	}
	rc.pdf.AddPage()
	if !rc.pdf.Ok() {
		rc.fail(fmt.Errorf("%w: %v", ErrPageAllocation, rc.pdf.Error()))
		return
	}
	rc.drawLetterhead()
	rc.y = rc.Top()
	rc.fresh = true
}

// Ensure starts a new page when a block of height h does not fit.
// A block taller than a whole page is placed at the top of a fresh page and left to overflow.
// It reports whether a page break happened.
func (rc *RenderContext) Ensure(h float64) bool {
	if rc.Fits(h) || rc.fresh {
		return false
	}
	rc.NewPage()
	return true
}

// Block places a block of height h: it breaks the page if needed, calls draw with
// the block origin and advances the cursor past it.
func (rc *RenderContext) Block(h float64, draw func(x, y float64)) {
	rc.Ensure(h)
	if rc.err != nil {
		return
	}
	if draw != nil {
		draw(rc.Left(), rc.y)
	}
	rc.Advance(h)
}

// Advance moves the cursor down by dy
func (rc *RenderContext) Advance(dy float64) {
	if rc.err != nil {
		return
	}
	if rc.y+dy < 0 {
		rc.fail(fmt.Errorf("%w: %.2f%+.2f", ErrNegativeCursor, rc.y, dy))
		return
	}
	rc.y += dy
	if dy > 0 {
		rc.fresh = false
	}
}

// Space adds vertical spacing between blocks. Spacing at the top of a fresh page is dropped.
func (rc *RenderContext) Space(dy float64) {
	if rc.err != nil || rc.fresh || dy <= 0 {
		return
	}
	rc.y += dy
}

// Err returns the first fatal error, including errors raised inside fpdf
func (rc *RenderContext) Err() error {
	if rc.err != nil {
		return rc.err
	}
	if !rc.pdf.Ok() {
		return fmt.Errorf("%w: %v", ErrRender, rc.pdf.Error())
	}
	return nil
}

func (rc *RenderContext) fail(err error) {
	if rc.err == nil {
		rc.err = err
	}
}
