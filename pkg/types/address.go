package types

import "strings"

// ShippingAddress is the structured destination stored on every order.
// Persisted as jsonb via GORM's json serializer.
type ShippingAddress struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,len=2"`
}

// Validate checks the structural requirements shared by the manual-order
// boundary and the webhook boundary. It returns the missing or malformed
// field names.
func (a ShippingAddress) Validate() []string {
	var problems []string
	if strings.TrimSpace(a.Line1) == "" {
		problems = append(problems, "shipping_address.line1")
	}
	if strings.TrimSpace(a.City) == "" {
		problems = append(problems, "shipping_address.city")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		problems = append(problems, "shipping_address.postal_code")
	}
	if len(strings.TrimSpace(a.Country)) != 2 {
		problems = append(problems, "shipping_address.country")
	}
	return problems
}
