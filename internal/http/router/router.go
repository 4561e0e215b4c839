package router

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rogerio-castellano/safekart/internal/auth"
	"github.com/rogerio-castellano/safekart/internal/http/ban"
	"github.com/rogerio-castellano/safekart/internal/http/handlers"
	mw "github.com/rogerio-castellano/safekart/internal/http/middleware"
	rl "github.com/rogerio-castellano/safekart/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/safekart/docs"
)

type Config struct {
	Logger *zap.Logger
	// Issuer validates admin tokens. Admin routes answer 503 when it is nil.
	Issuer *auth.Issuer
	// Limiter throttles the public write and scan routes. Nil disables throttling.
	Limiter     *rl.Limiter
	Bans        *ban.Manager
	CORSOrigins []string
	StaticDir   string
	ProtectLogs bool
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         600,
	}))

	admin := mw.AuthMiddleware(cfg.Issuer)
	throttle := func(next http.Handler) http.Handler { return next }
	if cfg.Limiter != nil {
		throttle = mw.RateLimitMiddleware(cfg.Limiter, cfg.Bans, logger)
	}

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Get("/search-products/{query}", handlers.SearchProductsHandler)
	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/{barcode}", handlers.GetProductByBarcodeHandler)
	r.Post("/qr", handlers.GenerateQRHandler)

	r.Group(func(r chi.Router) {
		r.Use(throttle)
		r.Post("/purchase", handlers.PurchaseHandler)
		r.Post("/verify", handlers.VerifyHandler)
		r.Get("/scan/{id}", handlers.ScanHandler)
		r.Post("/admin/login", handlers.AdminLoginHandler)
	})

	r.Group(func(r chi.Router) {
		if cfg.ProtectLogs {
			r.Use(admin)
		}
		r.Get("/logs", handlers.GetLogsHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
		r.Get("/logs/stream", handlers.StreamLogsHandler)
		r.Get("/admin/bans", handlers.GetBansHandler)
	})

	if dir := cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		} else {
			logger.Warn("static directory not found, frontend disabled", zap.String("dir", dir))
		}
	}

	return r
}
