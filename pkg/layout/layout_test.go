package layout

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/inspectdoc/pkg/pdfinfo"
	"github.com/gardar/inspectdoc/pkg/record"
)

func newTestContext(t *testing.T) *RenderContext {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Compress = false
	rc, err := NewRenderContext(cfg)
	require.NoError(t, err)
	return rc
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	return img
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(8, 6)))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(8, 6), nil))
	return buf.Bytes()
}

// forgedPNG is a valid 1x1 PNG whose IHDR claims w x h pixels
func forgedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(1, 1)))
	raw := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	binary.BigEndian.PutUint32(raw[16:], w)
	binary.BigEndian.PutUint32(raw[20:], h)
	binary.BigEndian.PutUint32(raw[29:], crc32.ChecksumIEEE(raw[12:29]))
	return raw
}

func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 10, nil},
		{"blank", "  \n", 10, nil},
		{"fits", "hello", 10, []string{"hello"}},
		{"greedy", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"long word between", "hi abcdefghij yo", 4, []string{"hi", "abcd", "efgh", "ij", "yo"}},
		{"keeps blank lines", "a\n\nb", 10, []string{"a", "", "b"}},
		{"trailing newline", "a b\n", 10, []string{"a b"}},
		{"crlf", "a\r\nb", 10, []string{"a", "b"}},
		{"arabic", "مرحبا بكم في التقرير", 9, []string{"مرحبا بكم", "في", "التقرير"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, runeWidth)
			assert.Equal(t, tt.want, got)
			for _, l := range got {
				if !strings.Contains(l, " ") {
					continue
				}
				assert.LessOrEqual(t, runeWidth(l), tt.width)
			}
		})
	}
}

func TestToCP1252(t *testing.T) {
	out, missing := toCP1252("Café ✓")
	assert.Equal(t, "Caf\xe9 ?", out)
	assert.Equal(t, 1, missing)
}

func TestPageBreaks(t *testing.T) {
	tests := []struct {
		height float64
		blocks int
	}{
		{24.7, 35},
		{40, 20},
		{100, 7},
		{13, 60},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%gx%d", tt.height, tt.blocks), func(t *testing.T) {
			rc := newTestContext(t)
			usable := rc.UsableHeight()

			for i := 0; i < tt.blocks; i++ {
				rc.Block(tt.height, func(x, y float64) {
					assert.GreaterOrEqual(t, y, rc.Top()-epsilon)
					assert.LessOrEqual(t, y+tt.height, rc.Bottom()+epsilon, "block %d crosses the bottom margin", i)
				})
			}
			require.NoError(t, rc.Err())

			want := int(math.Ceil(float64(tt.blocks) * tt.height / usable))
			got := rc.PageCount()
			assert.GreaterOrEqual(t, got, want)
			assert.LessOrEqual(t, got, want+1)
		})
	}
}

func TestOversizedBlockStartsOnFreshPage(t *testing.T) {
	rc := newTestContext(t)

	assert.False(t, rc.Ensure(1000), "a fresh page never breaks")
	rc.Block(1000, nil)
	assert.Equal(t, 1, rc.PageCount())

	rc.Block(1000, func(x, y float64) {
		assert.InDelta(t, rc.Top(), y, epsilon)
	})
	assert.Equal(t, 2, rc.PageCount())
	require.NoError(t, rc.Err())
}

func TestSpaceIsDroppedAtPageTop(t *testing.T) {
	rc := newTestContext(t)
	rc.Space(10)
	assert.InDelta(t, rc.Top(), rc.Y(), epsilon)

	rc.Advance(5)
	rc.Space(10)
	assert.InDelta(t, rc.Top()+15, rc.Y(), epsilon)
}

func TestNegativeCursorIsFatal(t *testing.T) {
	rc := newTestContext(t)
	rc.Advance(-1000)

	err := rc.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeCursor))

	_, err = rc.Finish(Stamp{})
	assert.True(t, errors.Is(err, ErrNegativeCursor))
}

func TestBilingualAdvancesByTallerColumn(t *testing.T) {
	short := "Short"
	long := strings.Repeat("The roof membrane shows blistering near the drain. ", 6)
	longAr := strings.Repeat("يظهر غشاء السطح تقرحات بالقرب من المصرف. ", 6)

	tests := []struct {
		name string
		en   string
		ar   string
	}{
		{"left heavy", long, "قصير"},
		{"right heavy", short, longAr},
		{"balanced", short, "قصير"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := newTestContext(t)
			style := TextStyle{FontSize: 10}
			wantEn := len(rc.WrapText(tt.en, rc.ColumnWidth(), Latin, style))
			wantAr := len(rc.WrapText(tt.ar, rc.ColumnWidth(), Arabic, style))

			y0 := rc.Y()
			en, ar := rc.Bilingual(tt.en, tt.ar, style)

			assert.Equal(t, wantEn, en)
			assert.Equal(t, wantAr, ar)
			assert.InDelta(t, y0+float64(max(en, ar))*rc.LineHeight(10), rc.Y(), epsilon)
		})
	}
}

func TestBilingualEmptyDoesNotMove(t *testing.T) {
	rc := newTestContext(t)
	en, ar := rc.Bilingual("", "", TextStyle{})
	assert.Zero(t, en)
	assert.Zero(t, ar)
	assert.InDelta(t, rc.Top(), rc.Y(), epsilon)
}

func TestFinishStampsEveryPage(t *testing.T) {
	rc := newTestContext(t)
	for i := 0; i < 2; i++ {
		rc.Paragraph("Body text", Latin, TextStyle{}, "L")
		rc.NewPage()
	}
	rc.Paragraph("Last page", Latin, TextStyle{}, "L")
	require.Equal(t, 3, rc.PageCount())

	out, err := rc.Finish(Stamp{Company: "Acme Inspections", Title: "Inspection Report", FooterNote: "Confidential"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	for i := 1; i <= 3; i++ {
		assert.Equal(t, 1, bytes.Count(out, []byte("("+PageLabel(i, 3)+")")), "page %d", i)
	}
	assert.NotContains(t, string(out), " of 2)")
}

func TestFinishWithWatermarkAndLogo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Compress = false
	cfg.Watermark = "DRAFT"
	rc, err := NewRenderContext(cfg)
	require.NoError(t, err)

	logo, err := DecodeImage(jpegBytes(t))
	require.NoError(t, err)

	out, err := rc.Finish(Stamp{Company: "Acme", Logo: logo})
	require.NoError(t, err)
	assert.Equal(t, []string{"Watermark"}, pdfinfo.Layers(out))
	assert.Contains(t, string(out), "/OCG")
	assert.Contains(t, string(out), "(DRAFT)")
}

func TestDecodeDataURI(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		img, err := DecodeDataURI(pngDataURI(t))
		require.NoError(t, err)
		assert.Equal(t, "PNG", img.Type)
		assert.Equal(t, "png", img.Format)
		assert.Equal(t, 8, img.Width)
		assert.Equal(t, 6, img.Height)
		assert.InDelta(t, 0.75, img.Aspect(), 1e-9)
	})

	t.Run("jpeg passes through", func(t *testing.T) {
		raw := jpegBytes(t)
		img, err := DecodeDataURI("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, "JPG", img.Type)
		assert.Equal(t, raw, img.Data)
	})

	t.Run("gif is converted", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, testImage(4, 4), nil))
		img, err := DecodeDataURI("data:image/gif;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "PNG", img.Type)
		assert.Equal(t, "gif", img.Format)
	})

	t.Run("unpadded payload", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, testImage(3, 3)))
		_, err := DecodeDataURI("data:image/png;base64," + base64.RawStdEncoding.EncodeToString(buf.Bytes()))
		assert.NoError(t, err)
	})

	t.Run("missing marker", func(t *testing.T) {
		_, err := DecodeDataURI("iVBORw0KGgo=")
		assert.ErrorIs(t, err, ErrNotDataURI)
	})

	t.Run("corrupt", func(t *testing.T) {
		_, err := DecodeDataURI("data:image/png;base64,!!!notbase64!!!")
		assert.Error(t, err)
		_, err = DecodeDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")))
		assert.Error(t, err)
	})
}

func TestDecodeRejectsOversizedImage(t *testing.T) {
	for _, size := range []uint32{8000, 60000} {
		raw := forgedPNG(t, size, size)

		_, err := DecodeImage(raw)
		assert.ErrorIs(t, err, ErrImageTooLarge, "%d", size)
		_, err = DecodeDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, ErrImageTooLarge, "%d", size)
	}

	rc := newTestContext(t)
	photos := []Photo{
		{Data: pngDataURI(t), Caption: "ok"},
		{Data: "data:image/png;base64," + base64.StdEncoding.EncodeToString(forgedPNG(t, 60000, 60000)), Caption: "forged"},
	}
	res := PhotoGrid(rc, photos, DefaultPhotoGridOptions())
	assert.Equal(t, 2, res.Rendered)
	assert.Equal(t, 1, res.Failed)
	_, err := rc.Finish(Stamp{})
	require.NoError(t, err)
}

func TestDecodeDataURIDeclaredFormat(t *testing.T) {
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage(4, 4)))
	jpegRaw := jpegBytes(t)

	tests := []struct {
		name     string
		uri      string
		format   string
		typ      string
		mismatch bool
	}{
		{"declared png", "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBuf.Bytes()), "png", "PNG", false},
		{"declared jpeg", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegRaw), "jpeg", "JPG", false},
		{"png declared as jpeg", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(pngBuf.Bytes()), "png", "PNG", true},
		{"jpeg declared as webp", "data:image/webp;base64," + base64.StdEncoding.EncodeToString(jpegRaw), "jpeg", "JPG", true},
		{"no mime defaults to jpeg", "data:;base64," + base64.StdEncoding.EncodeToString(jpegRaw), "jpeg", "JPG", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeDataURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.format, img.Format)
			assert.Equal(t, tt.typ, img.Type)
			assert.Equal(t, tt.mismatch, img.Mismatch())
		})
	}

	raw, err := DecodeImage(pngBuf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, raw.Declared)
	assert.False(t, raw.Mismatch())
}

func TestDeclaredFormat(t *testing.T) {
	assert.Equal(t, "png", DeclaredFormat("data:image/png;base64,"))
	assert.Equal(t, "webp", DeclaredFormat("data:image/WEBP;base64,"))
	assert.Equal(t, "jpeg", DeclaredFormat("data:image/jpg;base64,"))
	assert.Equal(t, "jpeg", DeclaredFormat("data:;base64,"))
}

func TestPhotoGridIsolatesBadPhotos(t *testing.T) {
	rc := newTestContext(t)
	good := pngDataURI(t)
	photos := []Photo{
		{Data: good, Caption: "Kitchen: Sink"},
		{Data: "data:image/png;base64,!!!!", Caption: "corrupt"},
		{Data: good, Caption: "Roof"},
		{Data: "no marker at all", Caption: "missing marker"},
		{Data: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes(t)), Caption: "jpeg"},
		{Data: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("truncated")), Caption: "truncated"},
		{Data: good, Caption: "Garage"},
	}

	res := PhotoGrid(rc, photos, DefaultPhotoGridOptions())

	assert.Equal(t, len(photos), res.Rendered)
	assert.Equal(t, 3, res.Failed)
	assert.Zero(t, res.Overflow)

	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(out, []byte("(Image Not Available)")))
}

func TestPhotoGridOverflow(t *testing.T) {
	rc := newTestContext(t)
	good := pngDataURI(t)
	photos := make([]Photo, 5)
	for i := range photos {
		photos[i] = Photo{Data: good, Caption: fmt.Sprintf("photo %d", i)}
	}

	res := PhotoGrid(rc, photos, PhotoGridOptions{MaxPhotos: 2})

	assert.Equal(t, 2, res.Rendered)
	assert.Equal(t, 3, res.Overflow)
	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "(+3 more photos available)")
}

func TestPhotoGridBreaksBetweenRows(t *testing.T) {
	rc := newTestContext(t)
	good := pngDataURI(t)
	photos := make([]Photo, 12)
	for i := range photos {
		photos[i] = Photo{Data: good}
	}

	res := PhotoGrid(rc, photos, DefaultPhotoGridOptions())

	require.NoError(t, rc.Err())
	assert.Equal(t, 12, res.Rendered)
	assert.Greater(t, rc.PageCount(), 1)
	assert.LessOrEqual(t, rc.Y(), rc.Bottom()+epsilon)
}

func TestFindings(t *testing.T) {
	rc := newTestContext(t)
	areas := []record.Area{
		{Name: "Kitchen", Items: []record.Item{
			{Category: "Plumbing", Point: "Sink", Status: "Fail", Comments: "Leak", Photos: []record.Photo{{Base64: "a", Name: "sink.jpg"}}},
			{Category: "Electrical", Point: "Outlets", Status: "pass"},
		}},
		{Name: "Empty"},
		{Name: "Roof", Items: []record.Item{{Point: "Membrane", Photos: []record.Photo{{Base64: "b"}, {Base64: "c"}}}}},
	}

	res := Findings(rc, areas, TextStyle{FontSize: 9})

	require.NoError(t, rc.Err())
	assert.Equal(t, record.Tally{Pass: 1, Fail: 1, NA: 1}, res.Tally)
	require.Len(t, res.Photos, 3)
	assert.Equal(t, "Kitchen: Sink (sink.jpg)", res.Photos[0].Caption)
	assert.Equal(t, "b", res.Photos[1].Data)
}

func TestFindingsTableContinuesAcrossPages(t *testing.T) {
	rc := newTestContext(t)
	items := make([]record.Item, 150)
	for i := range items {
		items[i] = record.Item{Category: "General", Point: fmt.Sprintf("Point %d", i), Status: "Pass"}
	}

	res := Findings(rc, []record.Area{{Name: "Whole house", Items: items}}, TextStyle{FontSize: 9})
	require.NoError(t, rc.Err())
	assert.Equal(t, 150, res.Tally.Total())

	pages := rc.PageCount()
	require.Greater(t, pages, 1)

	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	assert.Equal(t, pages, bytes.Count(out, []byte("(Inspection Point)")), "header repeats on every page")
}

func TestBandStaysWithTallFirstRow(t *testing.T) {
	rc := newTestContext(t)
	tbl := NewTable(FindingsColumns, TextStyle{FontSize: 9})
	tbl.Begin(rc)

	// Leave room for the band and a one-line row, not for a five-line row
	rowH := tbl.minRowHeight(rc)
	rc.Advance(rc.Bottom() - rc.Y() - 2*rowH - 1)
	y := rc.Y()

	tbl.Band(rc, "Kitchen", "المنطقة 1", AreaFill)
	assert.Equal(t, 1, rc.Page())
	assert.Equal(t, y, rc.Y(), "band waits for its first row")

	tbl.Row(rc, []Cell{{Text: "1.1"}, {Text: "Plumbing"}, {Text: "Sink"}, {Text: "Fail"}, {Text: "a\nb\nc\nd\ne"}})
	require.NoError(t, rc.Err())
	assert.Equal(t, 2, rc.Page())

	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	doc := string(out)
	require.Equal(t, 2, strings.Count(doc, "(Inspection Point)"))
	assert.Greater(t, strings.Index(doc, "(Kitchen)"), strings.LastIndex(doc, "(Inspection Point)"), "band drawn on page 2")
}

func TestTableEndDrawsPendingBand(t *testing.T) {
	rc := newTestContext(t)
	tbl := NewTable(FindingsColumns, TextStyle{FontSize: 9})
	tbl.Begin(rc)
	y := rc.Y()

	tbl.Band(rc, "Roof", "المنطقة 2", AreaFill)
	tbl.End(rc)
	assert.InDelta(t, y+tbl.minRowHeight(rc), rc.Y(), 1e-9)
	tbl.End(rc)
	assert.InDelta(t, y+tbl.minRowHeight(rc), rc.Y(), 1e-9)

	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), "(Roof)"))
}

func TestFindingsEmpty(t *testing.T) {
	rc := newTestContext(t)
	res := Findings(rc, nil, TextStyle{})

	assert.Zero(t, res.Tally.Total())
	assert.Empty(t, res.Photos)
	assert.Greater(t, rc.Y(), rc.Top())

	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "(No items were inspected.)")
	assert.NotContains(t, string(out), "(Inspection Point)")
}

func TestLetterhead(t *testing.T) {
	src := fpdf.New("P", "mm", "A4", "")
	src.AddPage()
	src.SetFont("Helvetica", "B", 16)
	src.Text(20, 20, "Acme Letterhead")
	var buf bytes.Buffer
	require.NoError(t, src.Output(&buf))

	cfg := DefaultConfig()
	cfg.Letterhead = buf.Bytes()
	rc, err := NewRenderContext(cfg)
	require.NoError(t, err)
	rc.NewPage()

	out, err := rc.Finish(Stamp{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, 2, rc.PageCount())
}

func TestLetterheadGarbageIsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Letterhead = []byte("not a pdf")
	rc, err := NewRenderContext(cfg)
	require.NoError(t, err)

	_, err = rc.Finish(Stamp{})
	assert.NoError(t, err)
}

func TestUnusableArabicFontFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArabicFont = ArabicFont{Data: []byte("definitely not a font")}
	rc, err := NewRenderContext(cfg)
	require.NoError(t, err)

	rc.Bilingual("Hello", "مرحبا", TextStyle{})
	_, err = rc.Finish(Stamp{})
	assert.NoError(t, err)
}

func TestWithSection(t *testing.T) {
	assert.NoError(t, WithSection("cover", nil))

	err := WithSection("findings", ErrPageAllocation)
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "findings", de.Section)
	assert.ErrorIs(t, err, ErrPageAllocation)
	assert.Contains(t, err.Error(), "findings")

	assert.Same(t, err, WithSection("outer", err))
}

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"مرحبا", "ابحرم"},
		{"صفحة 12 من 30", "30 نم 12 ةحفص"},
		{"المبلغ 1,234.50 ريال", "لاير 1,234.50 غلبملا"},
		{"(ملاحظة)", "(ةظحالم)"},
		{"Acme", "Acme"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, visualOrder(tt.in), tt.in)
	}
}
