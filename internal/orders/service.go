package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/electronicmusicbook/temb-backend/internal/shipping"
	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
)

// Service defines the admin-facing order operations.
type Service interface {
	List(ctx context.Context) (*OrderList, error)
	CreateManual(ctx context.Context, input ManualOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) (*OrderList, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return &OrderList{Orders: rows}, nil
}

func (s *service) CreateManual(ctx context.Context, input ManualOrderInput) (*models.Order, error) {
	var problems []string

	if strings.TrimSpace(input.CustomerName) == "" {
		problems = append(problems, "customer_name is required")
	}
	email := strings.TrimSpace(input.CustomerEmail)
	if email == "" || !strings.Contains(email, "@") {
		problems = append(problems, "customer_email must be a valid email")
	}

	editionID, err := enums.ParseEditionID(input.EditionID)
	if err != nil {
		problems = append(problems, "edition_id must be a known edition")
	}
	if input.Quantity < 1 {
		problems = append(problems, "quantity must be at least 1")
	}
	if input.UnitPrice < 0 {
		problems = append(problems, "unit_price must be non-negative")
	}

	region, regionErr := enums.ParseShippingRegion(input.ShippingRegion)
	if regionErr != nil {
		problems = append(problems, "shipping_region must be MX or INTL")
	}

	currency := enums.CurrencyUSD
	if raw := strings.TrimSpace(input.Currency); raw != "" {
		parsed, err := enums.ParseCurrency(raw)
		if err != nil {
			problems = append(problems, "currency must be one of usd, eur, gbp")
		} else {
			currency = parsed
		}
	}

	addrProblems := input.ShippingAddress.Validate()
	for _, field := range addrProblems {
		problems = append(problems, field+" is invalid")
	}
	if regionErr == nil && len(addrProblems) == 0 && !shipping.Ships(region, input.ShippingAddress.Country) {
		problems = append(problems, "shipping_address.country is not served by shipping_region")
	}

	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manual order validation failed").
			WithDetails(map[string]any{"errors": problems})
	}

	notes := strings.TrimSpace(input.Notes)
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		// Phone is not a first-class column; it rides along in notes.
		if notes != "" {
			notes = notes + " | phone: " + phone
		} else {
			notes = "phone: " + phone
		}
	}
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	order := &models.Order{
		StripeSessionID: synthesizeSessionID(),
		CustomerEmail:   email,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		ShippingAddress: input.ShippingAddress,
		EditionID:       editionID,
		AmountTotal:     int64(input.Quantity) * input.UnitPrice,
		Currency:        currency,
		ShippingRegion:  region,
		Status:          enums.OrderStatusPaid,
		Source:          enums.OrderSourceManual,
		Quantity:        input.Quantity,
		Notes:           notesPtr,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create manual order")
	}
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// synthesizeSessionID mirrors the session-id shape used for webhook orders
// while staying unique per manual entry.
func synthesizeSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("manual_%d_%s", time.Now().UnixMilli(), suffix)
}
