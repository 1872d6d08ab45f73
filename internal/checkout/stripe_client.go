package checkout

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/price"

	pkgstripe "github.com/electronicmusicbook/temb-backend/pkg/stripe"
)

// StripeCheckoutClient exposes the subset of Stripe operations required by the checkout service.
type StripeCheckoutClient interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetPrice(ctx context.Context, id string, params *stripe.PriceParams) (*stripe.Price, error)
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the package-level Stripe bindings so the checkout
// service can be tested. A nil configured client yields a nil wrapper.
func NewStripeClient(api *pkgstripe.Client) StripeCheckoutClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}

func (w *stripeClientWrapper) GetSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params == nil {
		params = &stripe.CheckoutSessionParams{}
	}
	params.Context = ctx
	return session.Get(id, params)
}

func (w *stripeClientWrapper) GetPrice(ctx context.Context, id string, params *stripe.PriceParams) (*stripe.Price, error) {
	if params == nil {
		params = &stripe.PriceParams{}
	}
	params.Context = ctx
	return price.Get(id, params)
}
