package controllers

import (
	"net/http"

	"github.com/electronicmusicbook/temb-backend/api/responses"
	"github.com/electronicmusicbook/temb-backend/api/validators"
	"github.com/electronicmusicbook/temb-backend/internal/checkout"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

// CreateCheckoutSession starts a hosted checkout for one edition.
func CreateCheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkout.SessionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.CreateSession(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// CheckoutSessionSummary returns the confirmation view for a completed
// session. Degrades to just the order number when Stripe is unreachable.
func CheckoutSessionSummary(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := validators.SanitizeString(r.URL.Query().Get("session_id"), 128)
		summary, err := svc.SessionSummary(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
