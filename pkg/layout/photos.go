package layout

import (
	"fmt"
	"math"
)

// PhotoGridOptions controls the photo grid geometry
type PhotoGridOptions struct {
	Columns       int       // Photos per row
	MaxPhotos     int       // Photos rendered inline, 0 renders all
	FrameAspect   float64   // Frame height over frame width
	CaptionHeight float64   // Space under each frame for the caption
	RowGap        float64   // Space between rows
	Style         TextStyle // Caption style
}

// DefaultPhotoGridOptions returns the two-column 4:3 grid
func DefaultPhotoGridOptions() PhotoGridOptions {
	return PhotoGridOptions{
		Columns:       2,
		FrameAspect:   0.75,
		CaptionHeight: 8,
		RowGap:        6,
		Style:         TextStyle{FontSize: 8},
	}
}

func (o PhotoGridOptions) withDefaults() PhotoGridOptions {
	d := DefaultPhotoGridOptions()
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.FrameAspect <= 0 {
		o.FrameAspect = d.FrameAspect
	}
	if o.CaptionHeight <= 0 {
		o.CaptionHeight = d.CaptionHeight
	}
	if o.RowGap <= 0 {
		o.RowGap = d.RowGap
	}
	if o.Style.FontSize <= 0 {
		o.Style.FontSize = d.Style.FontSize
	}
	return o
}

// PhotoGridResult reports what the grid drew.
// Rendered counts every slot drawn, including placeholders.
type PhotoGridResult struct {
	Rendered int
	Failed   int
	Overflow int
}

// PhotoGrid lays out photos in rows. A photo that cannot be decoded or embedded is
// drawn as a placeholder frame and the grid carries on.
func PhotoGrid(rc *RenderContext, photos []Photo, opts PhotoGridOptions) PhotoGridResult {
	opts = opts.withDefaults()
	var res PhotoGridResult

	shown := photos
	if opts.MaxPhotos > 0 && len(photos) > opts.MaxPhotos {
		shown = photos[:opts.MaxPhotos]
		res.Overflow = len(photos) - opts.MaxPhotos
	}

	cols := opts.Columns
	gap := rc.cfg.Gutter
	frameW := (rc.ContentWidth() - gap*float64(cols-1)) / float64(cols)
	frameH := frameW * opts.FrameAspect
	rowH := frameH + opts.CaptionHeight

	for start := 0; start < len(shown); start += cols {
		rc.Ensure(rowH)
		if rc.err != nil {
			return res
		}
		y := rc.Y()
		for c := 0; c < cols && start+c < len(shown); c++ {
			p := shown[start+c]
			x := rc.Left() + float64(c)*(frameW+gap)
			if !rc.drawPhoto(p, x, y, frameW, frameH) {
				res.Failed++
			}
			rc.drawCaption(p.Caption, x, y+frameH, frameW, opts)
			res.Rendered++
		}
		rc.Advance(rowH)
		rc.Space(opts.RowGap)
	}

	if res.Overflow > 0 {
		rc.SetTextColor(MidGray)
		rc.Bilingual(
			fmt.Sprintf("+%d more photos available", res.Overflow),
			fmt.Sprintf("+%d صور إضافية متاحة", res.Overflow),
			TextStyle{FontSize: 9},
		)
		rc.SetTextColor(Black)
	}
	return res
}

// drawPhoto draws the frame and the image inside it, or a placeholder when the
// image is unusable. It reports whether the image was embedded.
func (rc *RenderContext) drawPhoto(p Photo, x, y, w, h float64) bool {
	rc.SetDrawColor(GridGray)
	rc.pdf.SetLineWidth(0.3)

	img, err := DecodeDataURI(p.Data)
	if err == nil && img.Mismatch() {
		rc.log.Debug().Str("declared", img.Declared).Str("format", img.Format).Str("caption", p.Caption).Msg("photo format differs from its data URI")
	}
	if err == nil {
		if name, ok := rc.registerImage(img); ok {
			rc.pdf.Rect(x, y, w, h, "D")
			rc.drawImageFit(name, img, x+1, y+1, w-2, h-2)
			return true
		}
		err = fmt.Errorf("image rejected by pdf writer")
	}
	rc.log.Warn().Err(err).Str("caption", p.Caption).Msg("photo replaced by placeholder")

	rc.SetFillColor(LightGray)
	rc.pdf.Rect(x, y, w, h, "FD")
	rc.SetTextColor(MidGray)
	lh := rc.LineHeight(9)
	style := TextStyle{Bold: true, FontSize: 9}
	rc.drawLines(x, y+h/2-lh, w, lh, []string{"Image Not Available"}, Latin, style, "C")
	rc.drawLines(x, y+h/2, w, lh, []string{"الصورة غير متاحة"}, Arabic, style, "C")
	rc.SetTextColor(Black)
	return false
}

func (rc *RenderContext) drawCaption(caption string, x, y, w float64, opts PhotoGridOptions) {
	lh := rc.LineHeight(opts.Style.FontSize)
	lines := rc.WrapText(caption, w, Latin, opts.Style)
	if n := int(math.Floor(opts.CaptionHeight / lh)); len(lines) > n {
		lines = lines[:max(n, 1)]
	}
	rc.SetTextColor(DarkGray)
	rc.drawLines(x, y+0.5, w, lh, lines, Latin, opts.Style, "C")
	rc.SetTextColor(Black)
}
