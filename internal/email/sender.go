package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

// Sender delivers order confirmation emails. Delivery is best effort;
// implementations log failures and never return them to callers.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, orderNumber string)
}

type resendSender struct {
	client *resend.Client
	from   string
	logg   *logger.Logger
}

type noopSender struct{}

func (noopSender) SendOrderConfirmation(context.Context, *models.Order, string) {}

// NewSender builds a Resend-backed sender, or a no-op one when no API key
// is configured.
func NewSender(ctx context.Context, cfg config.EmailConfig, logg *logger.Logger) Sender {
	if strings.TrimSpace(cfg.ResendAPIKey) == "" {
		if logg != nil {
			logg.Debug(ctx, "email delivery not configured, confirmations disabled")
		}
		return noopSender{}
	}

	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = "TEMB <orders@electronicmusicbook.com>"
	}

	return &resendSender{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   from,
		logg:   logg,
	}
}

func (s *resendSender) SendOrderConfirmation(ctx context.Context, order *models.Order, orderNumber string) {
	if order == nil {
		return
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{order.CustomerEmail},
		Subject: fmt.Sprintf("Order %s confirmed", orderNumber),
		Html:    confirmationBody(order, orderNumber),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "order confirmation email failed", err)
		return
	}
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order confirmation email sent")
}

func confirmationBody(order *models.Order, orderNumber string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Thank you, %s!</h1>", order.CustomerName)
	fmt.Fprintf(&b, "<p>Your order <strong>%s</strong> is confirmed.</p>", orderNumber)
	fmt.Fprintf(&b, "<p>%s &times; %d</p>", order.EditionID, order.Quantity)
	fmt.Fprintf(&b, "<p>Total: %s %s</p>", formatAmount(order.AmountTotal), strings.ToUpper(order.Currency.String()))

	addr := order.ShippingAddress
	b.WriteString("<p>Shipping to:<br>")
	b.WriteString(addr.Line1)
	if addr.Line2 != "" {
		b.WriteString("<br>" + addr.Line2)
	}
	fmt.Fprintf(&b, "<br>%s %s<br>%s</p>", addr.City, addr.PostalCode, addr.Country)
	return b.String()
}

// formatAmount renders minor units as a decimal string, e.g. 150000 -> 1500.00.
func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
