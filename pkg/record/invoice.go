package record

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Invoice is a client invoice for inspection services
type Invoice struct {
	ID               string        `yaml:"id" json:"id"`
	InvoiceNumber    string        `yaml:"invoiceNumber" json:"invoiceNumber"`
	ClientName       string        `yaml:"clientName" json:"clientName"`
	ClientPhone      string        `yaml:"clientPhone" json:"clientPhone"`
	ClientEmail      string        `yaml:"clientEmail" json:"clientEmail"`
	PropertyLocation string        `yaml:"propertyLocation" json:"propertyLocation"`
	PropertyType     string        `yaml:"propertyType" json:"propertyType"`
	AreaSqm          float64       `yaml:"areaSqm" json:"areaSqm"`
	IssueDate        string        `yaml:"issueDate" json:"issueDate"`
	DueDate          string        `yaml:"dueDate" json:"dueDate"`
	Services         []ServiceItem `yaml:"services" json:"services"`
	AmountPaid       float64       `yaml:"amountPaid" json:"amountPaid"`
	Notes            string        `yaml:"notes" json:"notes"`
}

// ServiceItem is one invoice line
type ServiceItem struct {
	Description   string  `yaml:"description" json:"description"`
	DescriptionAr string  `yaml:"descriptionAr" json:"descriptionAr"`
	Quantity      float64 `yaml:"quantity" json:"quantity"`
	UnitPrice     float64 `yaml:"unitPrice" json:"unitPrice"`
	Total         float64 `yaml:"total" json:"total"` // Derived from Quantity*UnitPrice when zero
}

// Pricing holds the recognised invoice settings
type Pricing struct {
	Currency              string  `yaml:"currency"`
	VATRatePercent        float64 `yaml:"vat_rate_percent"`
	ResidentialRatePerSqm float64 `yaml:"residential_rate_per_sqm"`
	CommercialRatePerSqm  float64 `yaml:"commercial_rate_per_sqm"`
}

// DefaultPricing returns the pricing used when no configuration is supplied
func DefaultPricing() Pricing {
	return Pricing{
		Currency:              "SAR",
		VATRatePercent:        15,
		ResidentialRatePerSqm: 3,
		CommercialRatePerSqm:  5,
	}
}

// Totals are the computed invoice amounts, rounded to two places
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Paid     decimal.Decimal
	Balance  decimal.Decimal
}

// LineTotal returns the line amount, deriving it from quantity and unit price when unset
func (s ServiceItem) LineTotal() decimal.Decimal {
	if s.Total != 0 {
		return decimal.NewFromFloat(s.Total).Round(2)
	}
	return decimal.NewFromFloat(s.Quantity).Mul(decimal.NewFromFloat(s.UnitPrice)).Round(2)
}

// EffectiveServices returns the invoice lines. An invoice without lines but with a
// property area gets a single inspection-fee line estimated from p.
func (inv *Invoice) EffectiveServices(p Pricing) []ServiceItem {
	if len(inv.Services) > 0 || inv.AreaSqm <= 0 {
		return inv.Services
	}
	return []ServiceItem{EstimateFee(p, inv.PropertyType, inv.AreaSqm)}
}

// Totals computes subtotal, VAT, total and outstanding balance
func (inv *Invoice) Totals(p Pricing) Totals {
	subtotal := decimal.Zero
	for _, s := range inv.EffectiveServices(p) {
		subtotal = subtotal.Add(s.LineTotal())
	}
	tax := subtotal.Mul(decimal.NewFromFloat(p.VATRatePercent)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax)
	paid := decimal.NewFromFloat(inv.AmountPaid).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Paid:     paid,
		Balance:  total.Sub(paid),
	}
}

var commercialTypes = []string{"commercial", "office", "retail", "warehouse", "industrial", "shop"}

// IsCommercial reports whether a property type is billed at the commercial rate
func IsCommercial(propertyType string) bool {
	t := strings.ToLower(propertyType)
	for _, c := range commercialTypes {
		if strings.Contains(t, c) {
			return true
		}
	}
	return false
}

// EstimateFee derives an inspection-fee line from the property area and per-sqm rate
func EstimateFee(p Pricing, propertyType string, areaSqm float64) ServiceItem {
	rate := p.ResidentialRatePerSqm
	kind, kindAr := "residential", "سكني"
	if IsCommercial(propertyType) {
		rate = p.CommercialRatePerSqm
		kind, kindAr = "commercial", "تجاري"
	}
	return ServiceItem{
		Description:   fmt.Sprintf("Property inspection (%s, %g sqm)", kind, areaSqm),
		DescriptionAr: fmt.Sprintf("فحص عقار (%s، %g م²)", kindAr, areaSqm),
		Quantity:      areaSqm,
		UnitPrice:     rate,
	}
}
