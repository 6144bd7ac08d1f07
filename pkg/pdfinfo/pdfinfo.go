// Package pdfinfo reads back basic facts about a PDF: page count, document metadata,
// first page size and optional-content (layer) names.
//
// It is used by the CLI info command and to verify generated documents in tests.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
)

// ErrEmpty is returned for zero-length input
var ErrEmpty = errors.New("empty PDF data")

// Info describes a PDF document
type Info struct {
	Pages   int
	Title   string
	Author  string
	Creator string
	Width   float64 // First page width in points
	Height  float64 // First page height in points
	Layers  []string
}

// Inspect parses data and reports its page count, metadata and layers
func Inspect(data []byte) (info Info, err error) {
	if len(data) == 0 {
		return Info{}, ErrEmpty
	}
	// The reader panics on some malformed input
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("cannot read PDF: %w", err)
	}

	info.Pages = r.NumPage()
	meta := r.Trailer().Key("Info")
	info.Title = meta.Key("Title").Text()
	info.Author = meta.Key("Author").Text()
	info.Creator = meta.Key("Creator").Text()
	info.Width, info.Height = mediaBox(r)
	info.Layers = Layers(data)
	return info, nil
}

// InspectFile reads and inspects the PDF at path
func InspectFile(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("error reading PDF file: %w", err)
	}
	return Inspect(data)
}

// mediaBox returns the first page size, falling back to the page tree root
func mediaBox(r *pdf.Reader) (float64, float64) {
	box := r.Page(1).V.Key("MediaBox")
	if box.IsNull() {
		box = r.Trailer().Key("Root").Key("Pages").Key("MediaBox")
	}
	if box.Len() != 4 {
		return 0, 0
	}
	return box.Index(2).Float64() - box.Index(0).Float64(), box.Index(3).Float64() - box.Index(1).Float64()
}

var layerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(((?:\\.|[^\\)])*)\)`),
	regexp.MustCompile(`/Name\s*\(((?:\\.|[^\\)])*)\)\s*/Type\s*/OCG`),
}

// Layers scans raw PDF data for optional-content group names. Names are returned
// once each, in order of first appearance.
func Layers(data []byte) []string {
	content := string(data)
	var layers []string
	seen := make(map[string]bool)
	for _, re := range layerPatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			name := decodeText(unescapePDFString(m[1]))
			if !seen[name] {
				seen[name] = true
				layers = append(layers, name)
			}
		}
	}
	return layers
}

// decodeText converts a PDF text string with a UTF-16BE byte order mark to UTF-8
func decodeText(s string) string {
	if !strings.HasPrefix(s, "\xfe\xff") {
		return s
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	out, err := dec.String(s)
	if err != nil {
		return s
	}
	return out
}

// unescapePDFString resolves the backslash escapes of a PDF literal string
func unescapePDFString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch c = s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '\n':
			// Line continuation
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 8)
			b.WriteByte(byte(v))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
