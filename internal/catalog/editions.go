package catalog

import (
	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
)

// Edition is a static catalog entry. Prices live on the Stripe side; the
// catalog only carries the reference.
type Edition struct {
	ID            enums.EditionID
	Name          string
	CoverType     string
	StripePriceID string
	Active        bool
}

// Purchasable reports whether checkout may sell this edition: it must be
// active and have a processor-side price configured.
func (e Edition) Purchasable() bool {
	return e.Active && e.StripePriceID != ""
}

// Catalog is the fixed two-edition product set.
type Catalog struct {
	editions map[enums.EditionID]Edition
}

// New builds the catalog, binding Stripe price references from config.
func New(cfg config.StripeConfig) *Catalog {
	editions := map[enums.EditionID]Edition{
		enums.EditionBlack: {
			ID:            enums.EditionBlack,
			Name:          "THE ELECTRONIC MUSIC BOOK Black Edition",
			CoverType:     "black",
			StripePriceID: cfg.PriceBlackEdition,
			Active:        true,
		},
		enums.EditionWhite: {
			ID:            enums.EditionWhite,
			Name:          "THE ELECTRONIC MUSIC BOOK White Edition",
			CoverType:     "white",
			StripePriceID: cfg.PriceWhiteEdition,
			Active:        true,
		},
	}
	return &Catalog{editions: editions}
}

// Find returns the edition for a valid id.
func (c *Catalog) Find(id enums.EditionID) (Edition, bool) {
	edition, ok := c.editions[id]
	return edition, ok
}
