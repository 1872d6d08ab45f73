package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	"github.com/electronicmusicbook/temb-backend/pkg/types"
)

// Order is the sole persistent entity: one row per purchased (or manually
// entered) copy of the book. StripeSessionID carries the uniqueness
// constraint that makes webhook replays idempotent.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StripeSessionID string                `gorm:"column:stripe_session_id;not null;uniqueIndex:orders_stripe_session_id_key" json:"stripe_session_id"`
	PaymentIntentID *string               `gorm:"column:payment_intent_id" json:"payment_intent_id,omitempty"`
	CustomerEmail   string                `gorm:"column:customer_email;not null" json:"customer_email"`
	CustomerName    string                `gorm:"column:customer_name;not null" json:"customer_name"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shipping_address"`
	EditionID       enums.EditionID       `gorm:"column:edition_id;type:text;not null" json:"edition_id"`
	AmountTotal     int64                 `gorm:"column:amount_total;not null" json:"amount_total"`
	Currency        enums.Currency        `gorm:"column:currency;type:text;not null;default:'usd'" json:"currency"`
	ShippingRegion  enums.ShippingRegion  `gorm:"column:shipping_region;type:text;not null" json:"shipping_region"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'paid'" json:"status"`
	Source          enums.OrderSource     `gorm:"column:source;type:text;not null;default:'stripe'" json:"source"`
	Quantity        int                   `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Notes           *string               `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName pins the relation name.
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the id application-side so the sqlite test driver
// does not need gen_random_uuid().
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
