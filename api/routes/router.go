package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/electronicmusicbook/temb-backend/api/controllers"
	webhookcontrollers "github.com/electronicmusicbook/temb-backend/api/controllers/webhooks"
	"github.com/electronicmusicbook/temb-backend/api/middleware"
	checkoutsvc "github.com/electronicmusicbook/temb-backend/internal/checkout"
	"github.com/electronicmusicbook/temb-backend/internal/orders"
	stripewebhook "github.com/electronicmusicbook/temb-backend/internal/webhooks/stripe"
	pkgauth "github.com/electronicmusicbook/temb-backend/pkg/auth"
	"github.com/electronicmusicbook/temb-backend/pkg/config"
	"github.com/electronicmusicbook/temb-backend/pkg/db"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
	"github.com/electronicmusicbook/temb-backend/pkg/redis"
	"github.com/electronicmusicbook/temb-backend/pkg/stripe"
)

type RouterParams struct {
	Config             *config.Config
	Logger             *logger.Logger
	DB                 db.Pinger
	Redis              *redis.Client
	CredentialVerifier *pkgauth.CredentialVerifier
	CheckoutService    checkoutsvc.Service
	OrdersService      orders.Service
	WebhookService     *stripewebhook.Service
	StripeClient       *stripe.Client
	MetricsRegistry    *prometheus.Registry
}

// NewRouter assembles the full HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
	)

	r.Get("/healthz", controllers.Healthz())
	r.Get("/readyz", controllers.Readyz(p.DB, redisPinger(p.Redis), logg))
	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhook", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, logg))

		r.Post("/checkout", controllers.CreateCheckoutSession(p.CheckoutService, logg))
		r.Get("/checkout/session", controllers.CheckoutSessionSummary(p.CheckoutService, logg))

		r.Route("/admin", func(r chi.Router) {
			secure := cfg.App.IsProd()

			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
				Post("/auth", controllers.AdminLogin(p.CredentialVerifier, cfg.JWT, secure, logg))
			r.Post("/auth/logout", controllers.AdminLogout(secure, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.Session(cfg.JWT, logg))

				r.Get("/", controllers.ListOrders(p.OrdersService, logg))
				r.Post("/", controllers.CreateManualOrder(p.OrdersService, logg))
				r.Patch("/{id}", controllers.PatchOrderStatus(p.OrdersService, logg))
				r.With(middleware.RequireRole(enums.AdminRoleAdmin.String(), logg)).
					Delete("/{id}", controllers.DeleteOrder(p.OrdersService, logg))
			})
		})
	})

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// redisPinger avoids handing Readyz a typed-nil interface when redis is
// not configured.
func redisPinger(client *redis.Client) pinger {
	if client == nil {
		return nil
	}
	return client
}
