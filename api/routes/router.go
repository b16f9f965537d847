package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grocerly-app/storefront-backend/api/controllers"
	"github.com/grocerly-app/storefront-backend/api/middleware"
	cartsvc "github.com/grocerly-app/storefront-backend/internal/cart"
	checkoutsvc "github.com/grocerly-app/storefront-backend/internal/checkout"
	ordersvc "github.com/grocerly-app/storefront-backend/internal/orders"
	pricingsvc "github.com/grocerly-app/storefront-backend/internal/pricing"
	productsvc "github.com/grocerly-app/storefront-backend/internal/products"
	promosvc "github.com/grocerly-app/storefront-backend/internal/promotions"
	unitsvc "github.com/grocerly-app/storefront-backend/internal/units"
	"github.com/grocerly-app/storefront-backend/pkg/config"
	"github.com/grocerly-app/storefront-backend/pkg/db"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
	"github.com/grocerly-app/storefront-backend/pkg/metrics"
	"github.com/grocerly-app/storefront-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Metrics     http.Handler

	ProductRepo productsvc.ProductRepository
	Products    productsvc.Service
	Units       unitsvc.Service
	Promotions  promosvc.Service
	Pricing     pricingsvc.Service
	Cart        cartsvc.Service
	Checkout    checkoutsvc.Service
	Orders      ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	quotePolicy := middleware.NewRateLimitPolicy("quote", time.Minute, 120)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
		})

		r.Get("/product-units/product/{productId}", controllers.ResolveProductUnits(deps.ProductRepo, deps.Units, logg))

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/active", controllers.ListActivePromotions(deps.Promotions, logg))
			r.Get("/product-unit/{unitId}", controllers.ListPromotionsForUnit(deps.Promotions, logg))
			r.Get("/product/{productId}", controllers.ListPromotionsForProduct(deps.Promotions, logg))
		})

		r.With(middleware.RateLimit(quotePolicy, deps.Redis, logg)).
			Post("/pricing/quote", controllers.Quote(deps.Pricing, logg))
		r.With(middleware.RateLimit(quotePolicy, deps.Redis, logg)).
			Post("/combos/{promotionId}/quote", controllers.ComboQuote(deps.Pricing, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Patch("/items/{itemId}", controllers.UpdateCartItem(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.With(middleware.Idempotency(deps.Redis, logg)).
				Post("/customer-order/add", controllers.SubmitOrder(deps.Checkout, logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/{id}", controllers.GetOrder(deps.Orders, logg))
		})
	})

	return r
}
