package report

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed texts/boilerplate.yaml
var textFS embed.FS

// Text is an English/Arabic string pair
type Text struct {
	En string `yaml:"en"`
	Ar string `yaml:"ar"`
}

// Texts is the bilingual boilerplate keyed by name
type Texts map[string]Text

// templateData is the data boilerplate templates are executed with
type templateData struct {
	Company       string
	CompanyAr     string
	ClientName    string
	Location      string
	Inspector     string
	Date          string
	PassRate      int
	InvoiceNumber string
	DueDate       string
	Currency      string
	VATRate       string
}

var loadDefaultTexts = sync.OnceValues(func() (Texts, error) {
	data, err := textFS.ReadFile("texts/boilerplate.yaml")
	if err != nil {
		return nil, fmt.Errorf("error reading boilerplate: %w", err)
	}
	var t Texts
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error parsing boilerplate: %w", err)
	}
	return t, nil
})

// DefaultTexts returns the embedded boilerplate
func DefaultTexts() (Texts, error) {
	return loadDefaultTexts()
}

// Render executes the templates of key with data
func (t Texts) Render(key string, data interface{}) (Text, error) {
	raw, ok := t[key]
	if !ok {
		return Text{}, fmt.Errorf("missing boilerplate text %q", key)
	}
	en, err := execute(key+".en", raw.En, data)
	if err != nil {
		return Text{}, err
	}
	ar, err := execute(key+".ar", raw.Ar, data)
	if err != nil {
		return Text{}, err
	}
	return Text{En: en, Ar: ar}, nil
}

func execute(name, src string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("error parsing boilerplate template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering boilerplate template %s: %w", name, err)
	}
	return buf.String(), nil
}
