package shipping

import "github.com/electronicmusicbook/temb-backend/pkg/enums"

// internationalCountries is the fixed set of destinations the INTL tier
// ships to. Stripe rejects addresses outside the allowed list at its own
// boundary.
var internationalCountries = []string{
	"US", "CA", "GB", "DE", "FR", "IT", "ES", "NL", "BE", "AT",
	"CH", "AU", "NZ", "JP", "KR", "SG", "SE", "NO", "DK", "FI",
	"IE", "PT", "PL", "CZ", "HU", "RO", "BG", "HR", "SK", "SI",
	"EE", "LV", "LT", "LU", "MT", "CY", "IS", "LI", "MC", "AD",
	"SM", "VA", "GR",
}

var domesticCountries = []string{"MX"}

// AllowedCountries returns the country codes collectable for a region.
func AllowedCountries(region enums.ShippingRegion) []string {
	switch region {
	case enums.ShippingRegionMX:
		return domesticCountries
	case enums.ShippingRegionINTL:
		return internationalCountries
	default:
		return nil
	}
}

// Ships reports whether the region can deliver to the given 2-letter
// country code.
func Ships(region enums.ShippingRegion, country string) bool {
	for _, candidate := range AllowedCountries(region) {
		if candidate == country {
			return true
		}
	}
	return false
}
