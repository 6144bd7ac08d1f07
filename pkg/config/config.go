// Package config loads the inspectdoc YAML configuration and maps it onto report options.
//
// Example:
//
//	company:
//	  name: Acme Inspections
//	  name_ar: أكمي للفحص
//	  logo: https://example.com/logo.png
//	layout:
//	  arabic_font: fonts/Amiri-Regular.ttf
//	  watermark: DRAFT
//	  max_photos: 12
//	pricing:
//	  currency: SAR
//	  vat_rate_percent: 15
//	fetch:
//	  timeout: 10s
//	  retries: 2
//	log_level: info
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gardar/inspectdoc/pkg/fetch"
	"github.com/gardar/inspectdoc/pkg/layout"
	"github.com/gardar/inspectdoc/pkg/record"
	"github.com/gardar/inspectdoc/pkg/report"
)

// Config is the complete tool configuration
type Config struct {
	Company  Company        `yaml:"company"`
	Layout   Layout         `yaml:"layout"`
	Pricing  record.Pricing `yaml:"pricing"`
	Fetch    fetch.Config   `yaml:"fetch"`
	Style    string         `yaml:"style"`
	LogLevel string         `yaml:"log_level"`
}

// Company is the branding section
type Company struct {
	Name      string `yaml:"name"`
	NameAr    string `yaml:"name_ar"`
	Address   string `yaml:"address"`
	AddressAr string `yaml:"address_ar"`
	Phone     string `yaml:"phone"`
	Email     string `yaml:"email"`
	VATNumber string `yaml:"vat_number"`
	Logo      string `yaml:"logo"` // Path or http(s) URL
}

// Layout is the page layout section
type Layout struct {
	Margins     layout.Margins `yaml:"margins"`
	Gutter      float64        `yaml:"gutter"`
	LineSpacing float64        `yaml:"line_spacing"`
	Font        string         `yaml:"font"`
	FontSize    float64        `yaml:"font_size"`
	ArabicFont  string         `yaml:"arabic_font"` // TrueType file
	Watermark   string         `yaml:"watermark"`
	Letterhead  string         `yaml:"letterhead"` // PDF file
	MaxPhotos   int            `yaml:"max_photos"`
	Compress    bool           `yaml:"compress"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	d := layout.DefaultConfig()
	return Config{
		Layout: Layout{
			Margins:     d.Margins,
			Gutter:      d.Gutter,
			LineSpacing: d.LineSpacing,
			Font:        d.Font.Name,
			FontSize:    d.Font.Size,
			Compress:    d.Compress,
		},
		Pricing:  record.DefaultPricing(),
		Fetch:    fetch.DefaultConfig(),
		Style:    string(report.StyleStandard),
		LogLevel: zerolog.LevelInfoValue,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the renderer cannot work with
func (c Config) Validate() error {
	if _, err := report.ParseStyle(c.Style); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	m := c.Layout.Margins
	if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		return fmt.Errorf("margins must not be negative")
	}
	if c.Pricing.VATRatePercent < 0 {
		return fmt.Errorf("vat_rate_percent must not be negative")
	}
	return nil
}

// Level returns the configured log level
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// ReportOptions builds report options, reading the font and letterhead files and
// fetching the logo. An unreachable logo is logged and left out.
func (c Config) ReportOptions(ctx context.Context, f *fetch.Fetcher) (report.Options, error) {
	log := zerolog.Ctx(ctx)
	opts := report.DefaultOptions()

	style, err := report.ParseStyle(c.Style)
	if err != nil {
		return opts, err
	}
	opts.Style = style
	opts.Pricing = c.Pricing
	opts.MaxPhotos = c.Layout.MaxPhotos

	l := &opts.Layout
	l.Margins = c.Layout.Margins
	l.Gutter = c.Layout.Gutter
	l.LineSpacing = c.Layout.LineSpacing
	l.Font.Name = c.Layout.Font
	l.Font.Size = c.Layout.FontSize
	l.Watermark = c.Layout.Watermark
	l.Compress = c.Layout.Compress
	l.Logger = log

	if c.Layout.ArabicFont != "" {
		data, err := os.ReadFile(c.Layout.ArabicFont)
		if err != nil {
			return opts, fmt.Errorf("error reading Arabic font: %w", err)
		}
		l.ArabicFont = layout.ArabicFont{Data: data}
	}
	if c.Layout.Letterhead != "" {
		data, err := os.ReadFile(c.Layout.Letterhead)
		if err != nil {
			return opts, fmt.Errorf("error reading letterhead: %w", err)
		}
		l.Letterhead = data
	}

	opts.Company = report.Company{
		Name:      c.Company.Name,
		NameAr:    c.Company.NameAr,
		Address:   c.Company.Address,
		AddressAr: c.Company.AddressAr,
		Phone:     c.Company.Phone,
		Email:     c.Company.Email,
		VATNumber: c.Company.VATNumber,
	}
	if c.Company.Logo != "" {
		logo, _, err := f.Fetch(ctx, c.Company.Logo)
		if err != nil {
			log.Warn().Err(err).Str("logo", c.Company.Logo).Msg("company logo not loaded")
		} else {
			opts.Company.Logo = logo
		}
	}
	return opts, nil
}
