package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/electronicmusicbook/temb-backend/api/responses"
	stripewebhook "github.com/electronicmusicbook/temb-backend/internal/webhooks/stripe"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

type StripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) stripewebhook.Outcome
}

type stripeClient interface {
	SigningSecret() string
}

type receivedResponse struct {
	Received bool `json:"received"`
}

// StripeWebhook ingests payment events. Stripe retries on anything but a
// 2xx, so every processed delivery is acked regardless of outcome; only a
// failed signature check or an undecodable body is rejected.
func StripeWebhook(svc StripeWebhookService, client stripeClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var secret string
		if client != nil {
			secret = client.SigningSecret()
		}

		var event stripe.Event
		if secret != "" {
			sigHeader := r.Header.Get("Stripe-Signature")
			if sigHeader == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing"))
				return
			}
			event, err = webhook.ConstructEvent(payload, sigHeader, secret)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stripe signature"))
				return
			}
		} else {
			if logg != nil {
				logg.Warn(ctx, "no webhook signing secret configured, accepting unverified event")
			}
			if err := json.Unmarshal(payload, &event); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
				return
			}
		}

		outcome := svc.HandleEvent(ctx, &event)
		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"event_id": event.ID,
				"outcome":  outcome.String(),
			})
			logg.Info(logCtx, "stripe event processed")
		}
		responses.WriteRaw(w, http.StatusOK, receivedResponse{Received: true})
	}
}
