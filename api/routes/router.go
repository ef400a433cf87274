package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcastell/dealerhub-backend/api/controllers"
	"github.com/rcastell/dealerhub-backend/api/middleware"
	"github.com/rcastell/dealerhub-backend/internal/catalog"
	"github.com/rcastell/dealerhub-backend/internal/pricing"
	"github.com/rcastell/dealerhub-backend/internal/resales"
	"github.com/rcastell/dealerhub-backend/pkg/config"
	"github.com/rcastell/dealerhub-backend/pkg/db"
	"github.com/rcastell/dealerhub-backend/pkg/logger"
	"github.com/rcastell/dealerhub-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	pricingService pricing.Service,
	catalogService catalog.Service,
	resalesService resales.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// A nil *redis.Client must stay a nil interface so the idempotency
	// middleware can detect it and pass through.
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/pricing", func(r chi.Router) {
			r.Post("/resolve", controllers.ResolvePrice(pricingService, logg))
			r.Post("/cost-plus", controllers.CostPlus(logg))
		})

		r.Post("/resales", controllers.CreateResale(resalesService, logg))
		r.Get("/resales", controllers.ResaleList(resalesService, logg))
		r.Route("/resales/{orderId}", func(r chi.Router) {
			r.Get("/", controllers.ResaleDetail(resalesService, logg))
			r.Post("/confirm", controllers.ConfirmResale(resalesService, logg))
			r.Post("/cancel", controllers.CancelResale(resalesService, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ProductList(catalogService, logg))
			r.Get("/products/{productId}", controllers.ProductDetail(catalogService, logg))
			r.Get("/categories", controllers.CategoryList(catalogService, logg))
		})
	})

	return r
}
