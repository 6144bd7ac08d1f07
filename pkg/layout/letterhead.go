package layout

import (
	"bytes"
	"io"

	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

// letterhead is the imported first page of Config.Letterhead, reused on every page
type letterhead struct {
	importer *gofpdi.Importer
	tpl      int
	failed   bool
}

// drawLetterhead draws the letterhead template behind the current page. The template
// is imported on first use; a letterhead that cannot be imported is skipped for the
// whole document.
func (rc *RenderContext) drawLetterhead() {
	if len(rc.cfg.Letterhead) == 0 {
		return
	}
	if rc.letterhead == nil {
		rc.letterhead = rc.importLetterhead()
	}
	if rc.letterhead.failed {
		return
	}
	rc.letterhead.importer.UseImportedTemplate(rc.pdf, rc.letterhead.tpl, 0, 0, rc.cfg.PageSize.Wd, 0)
}

func (rc *RenderContext) importLetterhead() (lh *letterhead) {
	lh = &letterhead{importer: gofpdi.NewImporter()}
	defer func() {
		if r := recover(); r != nil {
			rc.log.Warn().Interface("panic", r).Msg("letterhead import failed, continuing without it")
			rc.pdf.ClearError()
			lh.failed = true
		}
	}()

	rs := io.ReadSeeker(bytes.NewReader(rc.cfg.Letterhead))
	lh.tpl = lh.importer.ImportPageFromStream(rc.pdf, &rs, 1, "/MediaBox")
	if !rc.pdf.Ok() {
		rc.log.Warn().Err(rc.pdf.Error()).Msg("letterhead import failed, continuing without it")
		rc.pdf.ClearError()
		lh.failed = true
	}
	return lh
}
