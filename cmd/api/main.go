package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grocerly-app/storefront-backend/api/routes"
	"github.com/grocerly-app/storefront-backend/internal/cart"
	"github.com/grocerly-app/storefront-backend/internal/checkout"
	"github.com/grocerly-app/storefront-backend/internal/orders"
	"github.com/grocerly-app/storefront-backend/internal/pricing"
	"github.com/grocerly-app/storefront-backend/internal/products"
	"github.com/grocerly-app/storefront-backend/internal/promotions"
	"github.com/grocerly-app/storefront-backend/internal/units"
	"github.com/grocerly-app/storefront-backend/pkg/config"
	"github.com/grocerly-app/storefront-backend/pkg/db"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
	"github.com/grocerly-app/storefront-backend/pkg/metrics"
	"github.com/grocerly-app/storefront-backend/pkg/migrate"
	"github.com/grocerly-app/storefront-backend/pkg/outbox"
	"github.com/grocerly-app/storefront-backend/pkg/redis"
)

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	productRepo := products.NewRepository(dbClient.DB())

	productService, err := products.NewService(productRepo, cfg.Catalog.DefaultLanguage)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	unitService, err := units.NewService(units.NewRepository(dbClient.DB()), logg, cfg.Catalog.UnitFetchTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create unit service", err)
		os.Exit(1)
	}

	promotionService, err := promotions.NewService(promotions.NewRepository(dbClient.DB()), redisClient, cfg.Catalog.PromotionCacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(productRepo, unitService, promotionService, logg, cfg.Catalog.MaxQuantityPerQuote)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cartRepo, productRepo, pricingService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderRepo, err := orders.NewOrderRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create order repository", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	shippingCalc, err := checkout.NewShippingCalc(cfg.Shipping)
	if err != nil {
		logg.Error(context.Background(), "invalid shipping config", err)
		os.Exit(1)
	}
	loyaltyConverter, err := checkout.NewLoyaltyConverter(cfg.Loyalty)
	if err != nil {
		logg.Error(context.Background(), "invalid loyalty config", err)
		os.Exit(1)
	}
	loyaltyRepo, err := checkout.NewLoyaltyRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty repository", err)
		os.Exit(1)
	}
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	checkoutService, err := checkout.NewService(
		dbClient,
		cartRepo,
		productRepo,
		orderRepo,
		loyaltyRepo,
		shippingCalc,
		loyaltyConverter,
		outboxService,
		logg,
		cfg.Catalog.DefaultLanguage,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ProductRepo: productRepo,
			Products:    productService,
			Units:       unitService,
			Promotions:  promotionService,
			Pricing:     pricingService,
			Cart:        cartService,
			Checkout:    checkoutService,
			Orders:      orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
