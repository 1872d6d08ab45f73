package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	stripewebhook "github.com/electronicmusicbook/temb-backend/internal/webhooks/stripe"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

type fakeWebhookService struct {
	calls   int
	lastTyp stripe.EventType
	outcome stripewebhook.Outcome
}

func (f *fakeWebhookService) HandleEvent(_ context.Context, event *stripe.Event) stripewebhook.Outcome {
	f.calls++
	f.lastTyp = event.Type
	if f.outcome == "" {
		return stripewebhook.OutcomePersisted
	}
	return f.outcome
}

type fakeSigningClient struct {
	secret string
}

func (f *fakeSigningClient) SigningSecret() string {
	return f.secret
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func eventPayload() []byte {
	return []byte(`{"id":"evt_test_1","type":"checkout.session.completed","data":{"object":{"id":"cs_test_123"}}}`)
}

func signPayload(payload []byte, secret string) string {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeWebhookSignedDelivery(t *testing.T) {
	service := &fakeWebhookService{}
	handler := StripeWebhook(service, &fakeSigningClient{secret: "whsec_test"}, testLogger())

	payload := eventPayload()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, "whsec_test"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, 1, service.calls)
	assert.Equal(t, stripe.EventTypeCheckoutSessionCompleted, service.lastTyp)
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	service := &fakeWebhookService{}
	handler := StripeWebhook(service, &fakeSigningClient{secret: "whsec_test"}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(eventPayload()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, service.calls)
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	service := &fakeWebhookService{}
	handler := StripeWebhook(service, &fakeSigningClient{secret: "whsec_test"}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(eventPayload()))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, service.calls)
}

func TestStripeWebhookUnsignedModeAcceptsRawEvents(t *testing.T) {
	service := &fakeWebhookService{}
	handler := StripeWebhook(service, &fakeSigningClient{secret: ""}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(eventPayload()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, 1, service.calls)
}

func TestStripeWebhookUnsignedModeRejectsGarbage(t *testing.T) {
	service := &fakeWebhookService{}
	handler := StripeWebhook(service, &fakeSigningClient{secret: ""}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, service.calls)
}

func TestStripeWebhookAcksEveryOutcome(t *testing.T) {
	for _, outcome := range []stripewebhook.Outcome{
		stripewebhook.OutcomeDuplicate,
		stripewebhook.OutcomeSkipped,
		stripewebhook.OutcomeInvalidPayload,
		stripewebhook.OutcomePersistFailedAcked,
	} {
		service := &fakeWebhookService{outcome: outcome}
		handler := StripeWebhook(service, &fakeSigningClient{secret: ""}, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(eventPayload()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, string(outcome))
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	}
}
