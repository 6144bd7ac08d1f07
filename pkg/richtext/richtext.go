// Package richtext flattens the HTML produced by the form layer's rich-text editor
// into plain paragraphs the layout engine can wrap.
//
// Block elements (p, div, headings, list items, table rows) each become one paragraph,
// <br> becomes a line break inside a paragraph and list items are prefixed with a bullet
// or their ordinal. Input that does not look like HTML is split on blank lines and
// otherwise passed through unchanged.
//
// Main Functions:
//
// - Paragraphs: HTML or plain text to a slice of paragraphs
// - PlainText: the same paragraphs joined by blank lines
// - IsHTML: reports whether a string contains markup
package richtext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tagPattern matches a tag whose attributes, if any, all carry quoted values
var tagPattern = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)(?:\s+[a-zA-Z_:][-a-zA-Z0-9_:.]*\s*=\s*(?:"[^"]*"|'[^']*'))*\s*/?>`)

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "table": true, "tr": true, "pre": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "head": true, "title": true,
}

// IsHTML reports whether s contains at least one tag of a known HTML element
func IsHTML(s string) bool {
	for _, m := range tagPattern.FindAllStringSubmatch(s, -1) {
		if atom.Lookup([]byte(strings.ToLower(m[1]))) != 0 {
			return true
		}
	}
	return false
}

// Paragraphs converts s into trimmed, non-empty paragraphs
func Paragraphs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !IsHTML(s) {
		return splitPlain(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return splitPlain(s)
	}

	var f flattener
	f.walk(doc)
	f.flush()
	return f.paras
}

// PlainText returns the paragraphs of s separated by blank lines
func PlainText(s string) string {
	return strings.Join(Paragraphs(s), "\n\n")
}

func splitPlain(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// flattener accumulates text of the current block and emits a paragraph on each block boundary
type flattener struct {
	paras []string
	cur   strings.Builder
}

func (f *flattener) flush() {
	var lines []string
	for _, line := range strings.Split(f.cur.String(), "\n") {
		lines = append(lines, strings.Join(strings.Fields(line), " "))
	}
	f.cur.Reset()

	text := strings.Trim(strings.Join(lines, "\n"), "\n")
	if text != "" {
		f.paras = append(f.paras, text)
	}
}

func (f *flattener) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		f.cur.WriteString(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}, n.Data))
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		if n.Data == "br" {
			f.cur.WriteString("\n")
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		f.flush()
	}
	if n.Type == html.ElementNode && n.Data == "li" {
		f.cur.WriteString(listPrefix(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		f.cur.WriteString(" ")
	}
	if block {
		f.flush()
	}
}

// listPrefix returns "- " for unordered items and "N. " for ordered ones
func listPrefix(li *html.Node) string {
	if li.Parent == nil || li.Parent.Data != "ol" {
		return "- "
	}
	n := 0
	for c := li.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			n++
		}
		if c == li {
			break
		}
	}
	return strconv.Itoa(n) + ". "
}
