package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

// Client wraps Stripe configuration for the shop. It is constructed once and
// injected; a nil *Client means the processor is not configured and checkout
// must refuse with a dependency error instead of panicking on a package
// singleton.
type Client struct {
	connectedAccountID string
	feeBasisPoints     int64
	signingSecret      string
	shippingRates      map[string]string
}

// NewClient initializes Stripe with the configured secret key. It returns
// (nil, nil) when no key is configured so callers can degrade explicitly.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.SecretKey)
	if apiKey == "" {
		if logg != nil {
			logg.Warn(ctx, "stripe not configured, checkout disabled")
		}
		return nil, nil
	}

	if !strings.HasPrefix(apiKey, "sk_") && !strings.HasPrefix(apiKey, "rk_") {
		return nil, fmt.Errorf("stripe secret key must be an sk_/rk_ key")
	}

	stripe.Key = apiKey

	if logg != nil {
		mode := "direct"
		if cfg.FeeModeActive() {
			mode = "connect"
		}
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", mode))
	}

	return &Client{
		connectedAccountID: strings.TrimSpace(cfg.ConnectedAccountID),
		feeBasisPoints:     cfg.FeeBasisPoints,
		signingSecret:      strings.TrimSpace(cfg.WebhookSecret),
		shippingRates: map[string]string{
			"MX":   strings.TrimSpace(cfg.ShippingRateMX),
			"INTL": strings.TrimSpace(cfg.ShippingRateINTL),
		},
	}, nil
}

// ConnectedAccountID returns the destination account for platform fees, or
// empty when fee mode is off.
func (c *Client) ConnectedAccountID() string {
	if c == nil {
		return ""
	}
	return c.connectedAccountID
}

// FeeModeActive reports whether the platform fee should be attached.
func (c *Client) FeeModeActive() bool {
	return c.ConnectedAccountID() != ""
}

// ApplicationFee computes floor(amount * basis points / 10000) in minor
// units. Integer math only.
func (c *Client) ApplicationFee(unitAmount int64) int64 {
	if c == nil || unitAmount <= 0 || c.feeBasisPoints <= 0 {
		return 0
	}
	return unitAmount * c.feeBasisPoints / 10000
}

// SigningSecret returns the webhook signing secret; empty means unsigned
// local-test mode.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.signingSecret
}

// ShippingRateFor resolves the configured shipping rate reference for a
// region, or empty when none is set.
func (c *Client) ShippingRateFor(region string) string {
	if c == nil {
		return ""
	}
	return c.shippingRates[region]
}
