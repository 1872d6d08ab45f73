package stripewebhook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/electronicmusicbook/temb-backend/internal/checkout"
	"github.com/electronicmusicbook/temb-backend/internal/email"
	"github.com/electronicmusicbook/temb-backend/internal/orders"
	"github.com/electronicmusicbook/temb-backend/internal/shipping"
	"github.com/electronicmusicbook/temb-backend/pkg/db"
	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
	"github.com/electronicmusicbook/temb-backend/pkg/metrics"
	"github.com/electronicmusicbook/temb-backend/pkg/types"
)

const sessionUniqueConstraint = "orders_stripe_session_id_key"

type ServiceParams struct {
	OrdersRepo orders.Repository
	Email      email.Sender
	Metrics    *metrics.WebhookMetrics
	Logger     *logger.Logger
}

// Service reconciles Stripe payment events into order rows.
type Service struct {
	ordersRepo orders.Repository
	email      email.Sender
	metrics    *metrics.WebhookMetrics
	logg       *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Email == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "email sender required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		ordersRepo: params.OrdersRepo,
		email:      params.Email,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

// HandleEvent processes one verified event. It never returns an error;
// every path resolves to an Outcome and the transport layer acks.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) Outcome {
	if event == nil {
		s.metrics.Observe("unknown", OutcomeInvalidPayload.String())
		return OutcomeInvalidPayload
	}

	ctx = s.logg.WithField(ctx, "event_type", string(event.Type))
	outcome := s.handle(ctx, event)
	s.metrics.Observe(string(event.Type), outcome.String())
	return outcome
}

func (s *Service) handle(ctx context.Context, event *stripe.Event) Outcome {
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return s.handleSessionCompleted(ctx, event)
	case stripe.EventTypePaymentIntentSucceeded:
		s.logg.Info(ctx, "payment intent succeeded")
		return OutcomeSkipped
	case stripe.EventTypePaymentIntentPaymentFailed:
		s.logg.Warn(ctx, "payment intent failed")
		return OutcomeSkipped
	default:
		s.logg.Debug(ctx, "unhandled event type")
		return OutcomeSkipped
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, event *stripe.Event) Outcome {
	if event.Data == nil {
		s.logg.Warn(ctx, "completed event without data")
		return OutcomeInvalidPayload
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.logg.Error(ctx, "decode checkout session", err)
		return OutcomeInvalidPayload
	}

	order, problems := orderFromSession(&sess)
	if len(problems) > 0 {
		s.logg.Warn(ctx, "completed session failed validation: "+strings.Join(problems, "; "))
		return OutcomeInvalidPayload
	}

	created, err := s.ordersRepo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, sessionUniqueConstraint) {
			s.logg.Info(s.logg.WithField(ctx, "stripe_session_id", sess.ID), "duplicate webhook delivery, order already recorded")
			return OutcomeDuplicate
		}
		// The processor already captured the money. Ack anyway and rely
		// on the outcome counter to surface the gap.
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"stripe_session_id": sess.ID,
			"customer_email":    order.CustomerEmail,
			"amount_total":      order.AmountTotal,
		}), "order persistence failed for paid session", err)
		return OutcomePersistFailedAcked
	}

	s.logg.Info(s.logg.WithOrderID(ctx, created.ID.String()), "order recorded from checkout session")
	s.email.SendOrderConfirmation(ctx, created, checkout.OrderNumber(sess.ID))
	return OutcomePersisted
}

// orderFromSession validates the completed session and maps it onto an
// order row. It returns the full problem list so one malformed delivery
// is diagnosable from a single log line.
func orderFromSession(sess *stripe.CheckoutSession) (*models.Order, []string) {
	var problems []string

	if sess.ID == "" {
		problems = append(problems, "session id missing")
	}
	if sess.CustomerDetails == nil || sess.CustomerDetails.Email == "" {
		problems = append(problems, "customer email missing")
	}
	if sess.CustomerDetails == nil || sess.CustomerDetails.Name == "" {
		problems = append(problems, "customer name missing")
	}
	if sess.AmountTotal <= 0 {
		problems = append(problems, "amount_total missing")
	}

	currency, err := enums.ParseCurrency(string(sess.Currency))
	if err != nil {
		problems = append(problems, "unsupported currency")
	}

	editionID, err := enums.ParseEditionID(sess.Metadata["editionId"])
	if err != nil {
		problems = append(problems, "editionId metadata missing or unknown")
	}
	region, regionErr := enums.ParseShippingRegion(sess.Metadata["shippingRegion"])
	if regionErr != nil {
		problems = append(problems, "shippingRegion metadata missing or unknown")
	}

	address, addrProblems := shippingAddressFrom(sess)
	problems = append(problems, addrProblems...)
	if regionErr == nil && len(addrProblems) == 0 && !shipping.Ships(region, address.Country) {
		problems = append(problems, "shipping country not served by region "+region.String())
	}

	if len(problems) > 0 {
		return nil, problems
	}

	order := &models.Order{
		StripeSessionID: sess.ID,
		CustomerEmail:   sess.CustomerDetails.Email,
		CustomerName:    sess.CustomerDetails.Name,
		ShippingAddress: address,
		EditionID:       editionID,
		AmountTotal:     sess.AmountTotal,
		Currency:        currency,
		ShippingRegion:  region,
		Status:          enums.OrderStatusPaid,
		Source:          enums.OrderSourceStripe,
		Quantity:        1,
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		intentID := sess.PaymentIntent.ID
		order.PaymentIntentID = &intentID
	}
	return order, nil
}

func shippingAddressFrom(sess *stripe.CheckoutSession) (types.ShippingAddress, []string) {
	var raw *stripe.Address
	if sess.CollectedInformation != nil && sess.CollectedInformation.ShippingDetails != nil {
		raw = sess.CollectedInformation.ShippingDetails.Address
	}
	if raw == nil && sess.CustomerDetails != nil {
		raw = sess.CustomerDetails.Address
	}
	if raw == nil {
		return types.ShippingAddress{}, []string{"shipping address missing"}
	}
	address := types.ShippingAddress{
		Line1:      raw.Line1,
		Line2:      raw.Line2,
		City:       raw.City,
		State:      raw.State,
		PostalCode: raw.PostalCode,
		Country:    raw.Country,
	}
	if fields := address.Validate(); len(fields) > 0 {
		missing := make([]string, 0, len(fields))
		for _, field := range fields {
			missing = append(missing, field+" missing")
		}
		return types.ShippingAddress{}, missing
	}
	return address, nil
}
