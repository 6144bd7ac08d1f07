package layout

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/webp"
)

var (
	// ErrNotDataURI is returned for image strings without a base64 payload
	ErrNotDataURI = errors.New("not a base64 data URI")

	// ErrImageTooLarge is returned when the image header claims more than MaxImagePixels
	ErrImageTooLarge = errors.New("image dimensions exceed limit")
)

// MaxImagePixels bounds the bitmap a single photo may allocate
const MaxImagePixels = 40_000_000

// Image is a decoded raster ready for registration with fpdf
type Image struct {
	Data     []byte
	Type     string // fpdf image type: "JPG" or "PNG"
	Format   string // Format of the embedded bytes
	Declared string // Format named by the data URI header, empty for raw bytes
	Width    int
	Height   int
}

// Aspect is height over width
func (img *Image) Aspect() float64 {
	if img.Width == 0 {
		return 1
	}
	return float64(img.Height) / float64(img.Width)
}

// Mismatch reports whether the data URI declared a format other than the one decoded
func (img *Image) Mismatch() bool {
	return img.Declared != "" && img.Declared != img.Format
}

// DecodeDataURI decodes a "data:image/...;base64," string. The declared MIME type
// selects the decoder; bytes it cannot read are sniffed instead and the result
// reports the Mismatch. JPEG data is passed through untouched; every other format
// is re-encoded as PNG.
func DecodeDataURI(uri string) (*Image, error) {
	uri = strings.TrimSpace(uri)
	idx := strings.Index(uri, "base64,")
	if idx < 0 {
		return nil, ErrNotDataURI
	}
	payload := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, uri[idx+len("base64,"):])

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	declared := DeclaredFormat(uri[:idx])
	img, err := decodeImage(raw, declared)
	if err != nil {
		return nil, err
	}
	img.Declared = declared
	return img, nil
}

// DeclaredFormat returns the image format named by a data URI header such as
// "data:image/png;base64,". Headers without a recognised MIME type default to jpeg.
func DeclaredFormat(header string) string {
	header = strings.ToLower(header)
	for _, f := range []string{"png", "gif", "webp", "jpeg", "jpg"} {
		if strings.Contains(header, "image/"+f) {
			if f == "jpg" {
				return "jpeg"
			}
			return f
		}
	}
	return "jpeg"
}

// DecodeImage sniffs raw image bytes and normalises them for fpdf
func DecodeImage(raw []byte) (*Image, error) {
	return decodeImage(raw, "")
}

// decodeImage reads the header first and refuses oversized bitmaps before any
// pixel memory is allocated. A non-empty format is tried before sniffing.
func decodeImage(raw []byte, format string) (*Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	var (
		src     image.Image
		sniffed string
	)
	if dec, ok := decoders[format]; ok {
		src, err = dec(bytes.NewReader(raw))
	}
	if src == nil || err != nil {
		src, sniffed, err = image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	} else {
		sniffed = format
	}

	b := src.Bounds()
	img := &Image{Width: b.Dx(), Height: b.Dy(), Format: sniffed}
	if sniffed == "jpeg" {
		img.Data = raw
		img.Type = "JPG"
		return img, nil
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return nil, fmt.Errorf("failed to re-encode %s image: %w", sniffed, err)
	}
	img.Data = buf.Bytes()
	img.Type = "PNG"
	return img, nil
}

var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpeg": jpeg.Decode,
	"gif":  gif.Decode,
	"webp": webp.Decode,
}

// registerImage hands img to fpdf under a fresh name. A rejected image clears the
// fpdf error so the rest of the document still renders.
func (rc *RenderContext) registerImage(img *Image) (string, bool) {
	if img == nil || !rc.pdf.Ok() {
		return "", false
	}
	rc.imageSeq++
	name := fmt.Sprintf("img%d", rc.imageSeq)
	rc.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if !rc.pdf.Ok() {
		rc.log.Warn().Err(rc.pdf.Error()).Str("image", name).Msg("image rejected by pdf writer")
		rc.pdf.ClearError()
		return "", false
	}
	return name, true
}

// drawImageFit draws a registered image centred inside the box, preserving its aspect ratio
func (rc *RenderContext) drawImageFit(name string, img *Image, x, y, w, h float64) {
	iw, ih := w, w*img.Aspect()
	if ih > h {
		ih = h
		iw = h / img.Aspect()
	}
	rc.pdf.ImageOptions(name, x+(w-iw)/2, y+(h-ih)/2, iw, ih, false, fpdf.ImageOptions{ImageType: img.Type}, 0, "")
}
