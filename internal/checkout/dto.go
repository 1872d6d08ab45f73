package checkout

// SessionInput is the storefront checkout request body.
type SessionInput struct {
	EditionID      string `json:"editionId"`
	ShippingRegion string `json:"shippingRegion"`
}

// SessionOutput carries the hosted checkout redirect URL.
type SessionOutput struct {
	URL string `json:"url"`
}

// SessionSummary is the post-payment confirmation view. Every field except
// OrderNumber degrades to its zero value when Stripe is unreachable.
type SessionSummary struct {
	OrderNumber   string `json:"orderNumber,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	EditionName   string `json:"editionName,omitempty"`
	AmountTotal   int64  `json:"amountTotal,omitempty"`
	Currency      string `json:"currency,omitempty"`
}
