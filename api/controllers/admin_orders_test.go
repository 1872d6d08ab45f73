package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electronicmusicbook/temb-backend/internal/orders"
	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
)

type stubOrdersService struct {
	listFn         func(ctx context.Context) (*orders.OrderList, error)
	createManualFn func(ctx context.Context, input orders.ManualOrderInput) (*models.Order, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (s *stubOrdersService) List(ctx context.Context) (*orders.OrderList, error) {
	return s.listFn(ctx)
}

func (s *stubOrdersService) CreateManual(ctx context.Context, input orders.ManualOrderInput) (*models.Order, error) {
	return s.createManualFn(ctx, input)
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubOrdersService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListOrdersEnvelope(t *testing.T) {
	svc := &stubOrdersService{
		listFn: func(context.Context) (*orders.OrderList, error) {
			return &orders.OrderList{Orders: []models.Order{
				{ID: uuid.New(), CustomerEmail: "ana@example.com", Status: enums.OrderStatusPaid},
			}}, nil
		},
	}
	handler := ListOrders(svc, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Orders []models.Order `json:"orders"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Orders, 1)
	assert.Equal(t, "ana@example.com", envelope.Data.Orders[0].CustomerEmail)
}

func TestCreateManualOrderReturns201(t *testing.T) {
	svc := &stubOrdersService{
		createManualFn: func(_ context.Context, input orders.ManualOrderInput) (*models.Order, error) {
			assert.Equal(t, "Ana Rivera", input.CustomerName)
			return &models.Order{ID: uuid.New(), CustomerName: input.CustomerName}, nil
		},
	}
	handler := CreateManualOrder(svc, testLogger())

	body := []byte(`{
		"customer_name": "Ana Rivera",
		"customer_email": "ana@example.com",
		"edition_id": "temb-black-edition",
		"quantity": 1,
		"unit_price": 150000,
		"shipping_region": "MX",
		"shipping_address": {
			"line1": "Av. Reforma 100",
			"city": "CDMX",
			"postal_code": "06600",
			"country": "MX"
		}
	}`)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/orders", bytes.NewReader(body)))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateManualOrderSurfacesValidationDetails(t *testing.T) {
	svc := &stubOrdersService{
		createManualFn: func(context.Context, orders.ManualOrderInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "manual order validation failed").
				WithDetails(map[string]any{"errors": []string{"customer_name is required"}})
		},
	}
	handler := CreateManualOrder(svc, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/orders", bytes.NewReader([]byte(`{}`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Errors []string `json:"errors"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Details.Errors, "customer_name is required")
}

func TestPatchOrderStatus(t *testing.T) {
	id := uuid.New()
	svc := &stubOrdersService{
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, enums.OrderStatusShipped, status)
			return &models.Order{ID: gotID, Status: status}, nil
		},
	}
	handler := PatchOrderStatus(svc, testLogger())

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+id.String(), bytes.NewReader([]byte(`{"status":"shipped"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParam(req, "id", id.String()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPatchOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrdersService{
		updateStatusFn: func(context.Context, uuid.UUID, enums.OrderStatus) (*models.Order, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	handler := PatchOrderStatus(svc, testLogger())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+id, bytes.NewReader([]byte(`{"status":"returned"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParam(req, "id", id))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchOrderStatusNotFound(t *testing.T) {
	svc := &stubOrdersService{
		updateStatusFn: func(context.Context, uuid.UUID, enums.OrderStatus) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}
	handler := PatchOrderStatus(svc, testLogger())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+id, bytes.NewReader([]byte(`{"status":"shipped"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParam(req, "id", id))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchOrderStatusRejectsBadID(t *testing.T) {
	svc := &stubOrdersService{}
	handler := PatchOrderStatus(svc, testLogger())

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/not-a-uuid", bytes.NewReader([]byte(`{"status":"shipped"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParam(req, "id", "not-a-uuid"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderRequiresConfirmationHeader(t *testing.T) {
	svc := &stubOrdersService{
		deleteFn: func(context.Context, uuid.UUID) error {
			t.Fatal("delete must not run without confirmation")
			return nil
		},
	}
	handler := DeleteOrder(svc, testLogger())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/orders/"+id, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParam(req, "id", id))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderWithConfirmation(t *testing.T) {
	id := uuid.New()
	deleted := false
	svc := &stubOrdersService{
		deleteFn: func(_ context.Context, gotID uuid.UUID) error {
			assert.Equal(t, id, gotID)
			deleted = true
			return nil
		},
	}
	handler := DeleteOrder(svc, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/orders/"+id.String(), nil)
	req.Header.Set("X-Confirm-Delete", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParam(req, "id", id.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, deleted)

	var envelope struct {
		Data deleteOrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, id.String(), envelope.Data.OrderID)
}
