package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/types"
)

type stubRepo struct {
	Repository

	createFn       func(ctx context.Context, order *models.Order) (*models.Order, error)
	listFn         func(ctx context.Context) ([]models.Order, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return s.createFn(ctx, order)
}

func (s *stubRepo) List(ctx context.Context) ([]models.Order, error) {
	return s.listFn(ctx)
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleteFn(ctx, id)
}

func validManualInput() ManualOrderInput {
	return ManualOrderInput{
		CustomerName:   "Ana Rivera",
		CustomerEmail:  "ana@example.com",
		EditionID:      "temb-black-edition",
		Quantity:       2,
		UnitPrice:      150000,
		ShippingRegion: "MX",
		ShippingAddress: types.ShippingAddress{
			Line1:      "Av. Reforma 100",
			City:       "CDMX",
			PostalCode: "06600",
			Country:    "MX",
		},
	}
}

func TestCreateManualOrder(t *testing.T) {
	var captured *models.Order
	repo := &stubRepo{
		createFn: func(_ context.Context, order *models.Order) (*models.Order, error) {
			captured = order
			return order, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	input := validManualInput()
	input.Phone = "+52 55 1234 5678"
	input.Notes = "cash pickup"

	created, err := svc.CreateManual(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, int64(300000), created.AmountTotal)
	assert.Equal(t, enums.OrderStatusPaid, created.Status)
	assert.Equal(t, enums.OrderSourceManual, created.Source)
	assert.Equal(t, enums.CurrencyUSD, created.Currency)
	assert.True(t, strings.HasPrefix(created.StripeSessionID, "manual_"))
	require.NotNil(t, created.Notes)
	assert.Contains(t, *created.Notes, "cash pickup")
	assert.Contains(t, *created.Notes, "+52 55 1234 5678")
}

func TestCreateManualOrderCollectsAllValidationErrors(t *testing.T) {
	repo := &stubRepo{
		createFn: func(context.Context, *models.Order) (*models.Order, error) {
			t.Fatal("create must not be called on invalid input")
			return nil, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.CreateManual(context.Background(), ManualOrderInput{
		CustomerEmail:  "not-an-email",
		EditionID:      "temb-gold-edition",
		Quantity:       0,
		UnitPrice:      -1,
		Currency:       "mxn",
		ShippingRegion: "EU",
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	problems, ok := details["errors"].([]string)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(problems), 6)
}

func TestCreateManualOrderRejectsCountryOutsideRegion(t *testing.T) {
	repo := &stubRepo{
		createFn: func(context.Context, *models.Order) (*models.Order, error) {
			t.Fatal("create must not be called on invalid input")
			return nil, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	input := validManualInput()
	input.ShippingAddress.Country = "US"

	_, err = svc.CreateManual(context.Background(), input)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	problems, ok := details["errors"].([]string)
	require.True(t, ok)
	assert.Contains(t, problems, "shipping_address.country is not served by shipping_region")
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := &stubRepo{
		updateStatusFn: func(context.Context, uuid.UUID, enums.OrderStatus) (*models.Order, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusShipped)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatus("returned"))
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubRepo{
		deleteFn: func(context.Context, uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListReturnsEmptySliceNotNil(t *testing.T) {
	repo := &stubRepo{
		listFn: func(context.Context) ([]models.Order, error) {
			return nil, nil
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list.Orders)
	assert.Empty(t, list.Orders)
}
