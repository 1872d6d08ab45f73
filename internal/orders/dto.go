package orders

import (
	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/types"
)

// ManualOrderInput carries an admin-entered order before validation. Raw
// strings are parsed into closed enums exactly once, in the service.
type ManualOrderInput struct {
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	EditionID       string                `json:"edition_id"`
	Quantity        int                   `json:"quantity"`
	UnitPrice       int64                 `json:"unit_price"`
	Currency        string                `json:"currency"`
	ShippingRegion  string                `json:"shipping_region"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Phone           string                `json:"phone"`
	Notes           string                `json:"notes"`
}

// OrderList is the admin list response shape.
type OrderList struct {
	Orders []models.Order `json:"orders"`
}
