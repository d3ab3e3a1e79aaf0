package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simplezakka/zakka-backend/api/controllers"
	cartcontrollers "github.com/simplezakka/zakka-backend/api/controllers/cart"
	ordercontrollers "github.com/simplezakka/zakka-backend/api/controllers/orders"
	"github.com/simplezakka/zakka-backend/api/middleware"
	"github.com/simplezakka/zakka-backend/internal/cart"
	"github.com/simplezakka/zakka-backend/internal/categories"
	"github.com/simplezakka/zakka-backend/internal/customers"
	"github.com/simplezakka/zakka-backend/internal/orders"
	product "github.com/simplezakka/zakka-backend/internal/products"
	"github.com/simplezakka/zakka-backend/pkg/auth/session"
	"github.com/simplezakka/zakka-backend/pkg/config"
	"github.com/simplezakka/zakka-backend/pkg/db"
	"github.com/simplezakka/zakka-backend/pkg/logger"
	"github.com/simplezakka/zakka-backend/pkg/metrics"
	"github.com/simplezakka/zakka-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID string, customerID int64, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

const (
	registerIdempotencyTTL = 24 * time.Hour
	orderIdempotencyTTL    = 7 * 24 * time.Hour
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies collects what the router hands to middleware and controllers.
type Dependencies struct {
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *metrics.HTTPMetrics

	Categories categories.Service
	Products   product.Service
	Cart       cart.Service
	Orders     orders.Service
	Customers  customers.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["db"] = deps.DB
	}
	var (
		idempotencyStore redis.IdempotencyStore
		rateLimiter      rateLimiter
	)
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
		idempotencyStore = deps.Redis
		rateLimiter = deps.Redis
	}
	registerIdempotency := middleware.Idempotency(idempotencyStore, registerIdempotencyTTL, logg)
	orderIdempotency := middleware.Idempotency(idempotencyStore, orderIdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/api/categories", controllers.CategoryList(deps.Categories, logg))

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Products, logg))
		r.Get("/search", controllers.ProductSearch(deps.Products, logg))
		r.Get("/in-stock", controllers.ProductsInStock(deps.Products, logg))
		r.Get("/category/{categoryId}", controllers.ProductsByCategory(deps.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart, logg))
		r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
		r.Post("/", cartcontrollers.CartAddItem(deps.Cart, logg))
		r.Delete("/", cartcontrollers.CartClear(deps.Cart, logg))
		r.Put("/items/{itemId}", cartcontrollers.CartUpdateItem(deps.Cart, logg))
		r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
	})

	r.Route("/api/order", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart, logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.SessionManager, logg))
		r.With(orderIdempotency).Post("/confirm", ordercontrollers.Confirm(deps.Orders, deps.Cart, logg))
	})

	r.Route("/api/customers", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateLimiter, logg), registerIdempotency).
			Post("/register", controllers.CustomerRegister(deps.Customers, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimiter, logg)).
			Post("/login", controllers.CustomerLogin(deps.Customers, logg))
		r.Post("/logout", controllers.CustomerLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.CustomerRefresh(deps.SessionManager, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Get("/me", controllers.CustomerMe(deps.Customers, logg))
			r.Put("/me", controllers.CustomerUpdate(deps.Customers, logg))
			r.Get("/me/orders", ordercontrollers.History(deps.Orders, logg))
			r.Get("/me/orders/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.Get("/search", controllers.CustomerSearch(deps.Customers, logg))
		})
	})

	return r
}
