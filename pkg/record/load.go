package record

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// NotSpecified is substituted for missing header fields
const (
	NotSpecified   = "Not Specified"
	NotSpecifiedAr = "غير محدد"
)

// OrNotSpecified returns s, or the "Not Specified" placeholder when s is blank
func OrNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

// Decode reads a YAML or JSON document from r into v
func Decode(r io.Reader, v interface{}) error {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("empty record document")
		}
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// Load reads a record file into v (a *Inspection or *Invoice)
func Load(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()
	return Decode(f, v)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// ParseDate parses the date formats the form layer produces
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a record date as 2006-01-02, falling back to the raw value
func FormatDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return OrNotSpecified(s)
}
