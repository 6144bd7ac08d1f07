// inspectdoc is a command-line tool for generating bilingual (English/Arabic) property
// inspection reports and invoices as paginated PDF documents.
//
// Records are read from YAML or JSON files. Photo references that are URLs or local paths
// are fetched and inlined before rendering; a photo that cannot be loaded is drawn as a
// placeholder.
//
// Configuration:
//
// An optional YAML configuration file sets company branding, layout, pricing and fetch options:
//
//	company:
//	  name: "Acme Inspections"
//	  name_ar: "أكمي للفحص"
//	layout:
//	  arabic_font: "fonts/Amiri-Regular.ttf"
//	pricing:
//	  currency: "SAR"
//	  vat_rate_percent: 15
//
// Usage:
//
//	inspectdoc report inspection.yml [flags]
//	inspectdoc invoice invoice.yml [flags]
//	inspectdoc info document.pdf
//	inspectdoc match clients.yml "query" [--limit n]
//
// Global flags:
//
//	--config string     Path to the YAML configuration file
//	--log-level string  Log level (trace, debug, info, warn, error)
//
// Output flags (report, invoice):
//
//	-o, --output string  Output directory or .pdf path (default ".")
//	--overwrite          Overwrite the output file if it exists
//	--xlsx               Also write an XLSX workbook next to the PDF
//
// Example:
//
//	inspectdoc --config config.yml report villa.yml --style detailed -o reports/ --xlsx
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
