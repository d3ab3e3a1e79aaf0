package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/simplezakka/zakka-backend/api/routes"
	"github.com/simplezakka/zakka-backend/internal/cart"
	"github.com/simplezakka/zakka-backend/internal/categories"
	"github.com/simplezakka/zakka-backend/internal/cron"
	"github.com/simplezakka/zakka-backend/internal/customers"
	"github.com/simplezakka/zakka-backend/internal/orders"
	product "github.com/simplezakka/zakka-backend/internal/products"
	"github.com/simplezakka/zakka-backend/internal/seed"
	"github.com/simplezakka/zakka-backend/pkg/auth/session"
	"github.com/simplezakka/zakka-backend/pkg/config"
	"github.com/simplezakka/zakka-backend/pkg/db"
	"github.com/simplezakka/zakka-backend/pkg/logger"
	"github.com/simplezakka/zakka-backend/pkg/metrics"
	"github.com/simplezakka/zakka-backend/pkg/migrate"
	"github.com/simplezakka/zakka-backend/pkg/redis"
	"github.com/simplezakka/zakka-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	if cfg.FeatureFlags.SeedOnBoot {
		if _, err := seed.Catalog(ctx, dbClient, logg); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	shopMetrics := metrics.NewShopMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	productRepo := product.NewRepository(dbClient.DB())
	customerRepo := customers.NewRepository(dbClient.DB())

	productService, err := product.NewService(productRepo)
	if err != nil {
		return err
	}
	categoryService, err := categories.NewService(categories.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	var cartStore cart.Store
	if cfg.Cart.UsesRedis() {
		if cartStore, err = cart.NewRedisStore(redisClient, cfg.Cart.TTL); err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "cart store is in-process memory; carts are lost on restart")
		memoryStore := cart.NewMemoryStoreWithTTL(cfg.Cart.TTL)
		if err := startCartSweep(ctx, cfg, logg, memoryStore, metrics.NewJobMetrics(registry)); err != nil {
			return err
		}
		cartStore = memoryStore
	}
	cartService, err := cart.NewService(cartStore, productRepo, shopMetrics)
	if err != nil {
		return err
	}

	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:           customerRepo,
		Hasher:         security.NewPasswordHasher(cfg.Password),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Tx:        dbClient,
		Orders:    orders.NewRepository(dbClient.DB()),
		Inventory: func(tx *gorm.DB) orders.Inventory { return productRepo.WithTx(tx) },
		Customers: func(tx *gorm.DB) orders.CustomerLookup { return customerRepo.WithTx(tx) },
		Carts:     cartService,
		Metrics:   shopMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"cart_store": cfg.Cart.Store,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			Gatherer:       registry,
			HTTPMetrics:    metrics.NewHTTPMetrics(registry),
			Categories:     categoryService,
			Products:       productService,
			Cart:           cartService,
			Orders:         orderService,
			Customers:      customerService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// startCartSweep runs the expiry sweep for the in-process cart store until ctx ends.
func startCartSweep(ctx context.Context, cfg *config.Config, logg *logger.Logger, store *cart.MemoryStore, jobMetrics *metrics.JobMetrics) error {
	job, err := cron.NewCartSweepJob(store, logg)
	if err != nil {
		return err
	}
	svc, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Metrics:  jobMetrics,
		Interval: cfg.Cart.SweepInterval,
	})
	if err != nil {
		return err
	}
	go func() {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "cart sweep stopped", err)
		}
	}()
	return nil
}
