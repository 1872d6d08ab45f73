package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/electronicmusicbook/temb-backend/internal/catalog"
	"github.com/electronicmusicbook/temb-backend/internal/shipping"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
	pkgstripe "github.com/electronicmusicbook/temb-backend/pkg/stripe"
)

// Service creates hosted checkout sessions and summarizes completed ones.
type Service interface {
	CreateSession(ctx context.Context, input SessionInput) (*SessionOutput, error)
	SessionSummary(ctx context.Context, sessionID string) (*SessionSummary, error)
}

type service struct {
	api     StripeCheckoutClient
	stripe  *pkgstripe.Client
	catalog *catalog.Catalog
	logg    *logger.Logger
	baseURL string
}

// NewService builds the checkout service. A nil Stripe client is allowed;
// requests then fail with a dependency error instead of a panic.
func NewService(api StripeCheckoutClient, stripeClient *pkgstripe.Client, cat *catalog.Catalog, logg *logger.Logger, baseURL string) (Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("edition catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base url required")
	}
	return &service{
		api:     api,
		stripe:  stripeClient,
		catalog: cat,
		logg:    logg,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (s *service) CreateSession(ctx context.Context, input SessionInput) (*SessionOutput, error) {
	if s.api == nil || s.stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment processor not configured")
	}

	region, err := enums.ParseShippingRegion(input.ShippingRegion)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shippingRegion must be MX or INTL")
	}

	editionID, err := enums.ParseEditionID(input.EditionID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown edition")
	}
	edition, ok := s.catalog.Find(editionID)
	if !ok || !edition.Purchasable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "edition is not available for purchase")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"edition_id":      edition.ID.String(),
		"shipping_region": region.String(),
	})

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(edition.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shipping.AllowedCountries(region)),
		},
		SuccessURL: stripe.String(s.baseURL + "/shop/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.baseURL + "/shop/cancel"),
	}

	paymentMode := "direct"
	if s.stripe.FeeModeActive() {
		paymentMode = "connect"
		fee, err := s.platformFee(ctx, edition.StripePriceID)
		if err != nil {
			return nil, err
		}
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(fee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(s.stripe.ConnectedAccountID()),
			},
		}
	}

	if rate := s.stripe.ShippingRateFor(region.String()); rate != "" {
		params.ShippingOptions = []*stripe.CheckoutSessionShippingOptionParams{
			{ShippingRate: stripe.String(rate)},
		}
	} else {
		s.logg.Warn(ctx, "no shipping rate configured for region, session created without one")
	}

	params.AddMetadata("editionId", edition.ID.String())
	params.AddMetadata("editionName", edition.Name)
	params.AddMetadata("shippingRegion", region.String())
	params.AddMetadata("coverType", edition.CoverType)
	params.AddMetadata("paymentMode", paymentMode)

	created, err := s.api.CreateSession(ctx, params)
	if err != nil {
		s.logg.Error(ctx, "stripe checkout session creation failed", err)
		return nil, classifyStripeError(err)
	}

	s.logg.Info(ctx, "checkout session created")
	return &SessionOutput{URL: created.URL}, nil
}

// platformFee fetches the live unit amount and applies the configured
// basis points.
func (s *service) platformFee(ctx context.Context, priceID string) (int64, error) {
	p, err := s.api.GetPrice(ctx, priceID, nil)
	if err != nil {
		s.logg.Error(ctx, "stripe price lookup failed", err)
		return 0, classifyStripeError(err)
	}
	return s.stripe.ApplicationFee(p.UnitAmount), nil
}

func (s *service) SessionSummary(ctx context.Context, sessionID string) (*SessionSummary, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}

	summary := &SessionSummary{OrderNumber: OrderNumber(sessionID)}
	if s.api == nil {
		return summary, nil
	}

	sess, err := s.api.GetSession(ctx, sessionID, nil)
	if err != nil {
		// The confirmation page must render even when Stripe is down.
		s.logg.Warn(ctx, "session summary lookup failed: "+err.Error())
		return summary, nil
	}

	if sess.CustomerDetails != nil {
		summary.CustomerEmail = sess.CustomerDetails.Email
	}
	summary.EditionName = sess.Metadata["editionName"]
	summary.AmountTotal = sess.AmountTotal
	summary.Currency = string(sess.Currency)
	return summary, nil
}

// OrderNumber derives the human-facing reference from a session id: the
// last 8 characters, uppercased.
func OrderNumber(sessionID string) string {
	if len(sessionID) > 8 {
		sessionID = sessionID[len(sessionID)-8:]
	}
	return strings.ToUpper(sessionID)
}

// classifyStripeError maps processor failures onto the API error taxonomy
// without leaking raw Stripe messages to the storefront.
func classifyStripeError(err error) *pkgerrors.Error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "shipping_rate"):
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping configuration rejected by payment processor")
	case strings.Contains(msg, "api key"), strings.Contains(msg, "authentication"):
		return pkgerrors.New(pkgerrors.CodeDependency, "payment processor rejected credentials")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout session creation failed")
	}
}
