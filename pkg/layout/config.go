package layout

import (
	"codeberg.org/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// Config holds the page geometry and rendering options for one document
type Config struct {
	PageSize     fpdf.SizeType   // Page size in mm (A4 by default)
	Margins      Margins         // Page margins in mm
	HeaderHeight float64         // Height of the stamped header band inside the top margin
	Gutter       float64         // Space between bilingual columns
	LineSpacing  float64         // Line height as a multiple of the font size
	Font         FontConfig      // Latin font
	ArabicFont   ArabicFont      // Optional TrueType font for Arabic text
	Watermark    string          // Diagonal watermark text (empty = none)
	Letterhead   []byte          // Optional PDF whose first page is drawn behind every page
	Compress     bool            // Compress page streams
	Logger       *zerolog.Logger // Logger for recoverable problems (nil = discard)
}

// Margins are page margins in mm
type Margins struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// FontConfig contains font settings for Latin text rendering
type FontConfig struct {
	Name string  // Core font name (e.g., "Helvetica")
	Size float64 // Default body size in pt
}

// ArabicFont is a UTF-8 TrueType font used for the right-hand column.
// Without one, Arabic text is drawn in the core font with unsupported glyphs replaced.
type ArabicFont struct {
	Family string
	Data   []byte
}

// DefaultFont is Helvetica, which needs no embedding
var DefaultFont = FontConfig{
	Name: "Helvetica",
	Size: 10,
}

// A4 page size in mm
var A4 = fpdf.SizeType{Wd: 210, Ht: 297}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		PageSize:     A4,
		Margins:      Margins{Top: 30, Bottom: 20, Left: 15, Right: 15},
		HeaderHeight: 16,
		Gutter:       8,
		LineSpacing:  1.4,
		Font:         DefaultFont,
		Compress:     true,
	}
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

// withDefaults fills zero values so a partially populated Config still renders
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageSize.Wd <= 0 || c.PageSize.Ht <= 0 {
		c.PageSize = d.PageSize
	}
	if c.Margins == (Margins{}) {
		c.Margins = d.Margins
	}
	if c.LineSpacing <= 0 {
		c.LineSpacing = d.LineSpacing
	}
	if c.Font.Name == "" {
		c.Font.Name = d.Font.Name
	}
	if c.Font.Size <= 0 {
		c.Font.Size = d.Font.Size
	}
	if c.ArabicFont.Family == "" {
		c.ArabicFont.Family = "arabic"
	}
	return c
}
