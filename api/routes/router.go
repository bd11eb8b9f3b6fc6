package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalixplus/storefront/api/controllers"
	"github.com/vitalixplus/storefront/api/middleware"
	"github.com/vitalixplus/storefront/internal/admin"
	"github.com/vitalixplus/storefront/internal/cart"
	"github.com/vitalixplus/storefront/internal/catalog"
	"github.com/vitalixplus/storefront/internal/checkout"
	"github.com/vitalixplus/storefront/internal/orders"
	"github.com/vitalixplus/storefront/internal/session"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/enums"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/metrics"
	"github.com/vitalixplus/storefront/pkg/redis"
)

// redisDeps is the slice of the redis client the HTTP layer relies on.
type redisDeps interface {
	redis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
	Subscribe(ctx context.Context, channel string) (redis.Subscription, error)
	Ping(ctx context.Context) error
}

// Params carries everything the router mounts.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    redisDeps
	Storage  controllers.Pinger
	Backend  controllers.Pinger
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Sessions session.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service
	Admin    admin.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.ClientID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.Auth.LoginWindow,
		cfg.Auth.LoginIPLimit,
		cfg.Auth.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.Auth.RegisterWindow,
		cfg.Auth.RegisterIPLimit,
		cfg.Auth.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"redis":   p.Redis,
			"storage": p.Storage,
			"backend": p.Backend,
		}))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(p.Sessions, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Sessions, logg))
				r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.Sessions, logg))
				r.Post("/logout", controllers.AuthLogout(p.Sessions, logg))
			})

			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.RequireSession(logg))
				r.Get("/", controllers.MeGet(logg))
				r.Put("/", controllers.MeUpdate(p.Sessions, logg))
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/products", controllers.CatalogList(p.Catalog, logg))
				r.Get("/products/{productId}", controllers.CatalogProduct(p.Catalog, logg))
				r.Get("/products/{productId}/images", controllers.CatalogImages(p.Catalog, logg))
				r.Get("/categories", controllers.CatalogCategories(p.Catalog, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(p.Cart, logg))
				r.Delete("/", controllers.CartClear(p.Cart, logg))
				r.Post("/items", controllers.CartAddItem(p.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(p.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Cart, logg))
			})

			r.Get("/checkout/quote", controllers.CheckoutQuote(p.Checkout, logg))
			r.With(middleware.RequireSession(logg)).Post("/checkout", controllers.CheckoutSubmit(p.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.RequireSession(logg))
				r.Get("/", controllers.OrdersList(p.Orders, logg))
				r.Get("/events", controllers.OrderEvents(controllers.OrderEventsParams{
					Subscriber: p.Redis,
					Channel:    cfg.Watcher.Channel,
					Drivers:    p.Orders,
					Logger:     logg,
				}))
				r.Get("/{orderId}", controllers.OrdersDetail(p.Orders, logg))
			})
		})

		r.Route("/assistant/v1", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleAssistant, enums.RoleAdmin))
			r.Get("/orders", controllers.AssistantBoard(p.Orders, logg))
			r.Post("/orders/{orderId}/status", controllers.AssistantTransition(p.Orders, logg))
			r.Post("/orders/{orderId}/driver", controllers.AssistantAssignDriver(p.Orders, logg))
		})

		r.Route("/driver/v1", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleDriver))
			r.Get("/orders", controllers.DriverOrders(p.Orders, logg))
			r.Post("/orders/{orderId}/delivered", controllers.DriverMarkDelivered(p.Orders, logg))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleAdmin))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrdersList(p.Orders, logg))
				r.Post("/", controllers.AdminOrdersCreate(p.Orders, logg))
				r.Put("/{orderId}", controllers.AdminOrdersUpdate(p.Orders, logg))
				r.Post("/{orderId}/toggle", controllers.AdminOrdersToggle(p.Orders, logg))
			})
			mountAdmin(r, "/users", controllers.AdminUsers(p.Admin, logg))
			mountAdmin(r, "/branches", controllers.AdminBranches(p.Admin, logg))
			mountAdmin(r, "/drivers", controllers.AdminDrivers(p.Admin, logg))
			mountAdmin(r, "/assistants", controllers.AdminAssistants(p.Admin, logg))
		})
	})

	return r
}

func mountAdmin(r chi.Router, path string, h controllers.AdminHandlers) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/toggle", h.Toggle)
	})
}
