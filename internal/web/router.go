// Package web exposes the pinyin operations as a JSON HTTP API.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jusunglee/pinyin/internal/web/handlers"
	"github.com/jusunglee/pinyin/internal/web/middleware"
)

type Config struct {
	// RateLimit is the number of requests one client IP may make per
	// RateWindow.
	RateLimit      int
	RateWindow     time.Duration
	CacheTTL       time.Duration
	AllowedOrigins []string
}

func DefaultConfig() Config {
	return Config{
		RateLimit:  120,
		RateWindow: time.Minute,
		CacheTTL:   10 * time.Minute,
	}
}

type Router struct {
	conv handlers.Runner
	log  *slog.Logger
	cfg  Config
}

func NewRouter(conv handlers.Runner, log *slog.Logger, cfg Config) *Router {
	return &Router{conv: conv, log: log, cfg: cfg}
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	conversionHandler := handlers.NewConversionHandler(r.conv, r.log, r.cfg.CacheTTL)
	rateLimiter := middleware.NewRateLimiter(r.cfg.RateLimit, r.cfg.RateWindow)

	mux.Handle("GET /api/v1",
		middleware.Chain(
			http.HandlerFunc(conversionHandler.Meta),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.CacheControl("public, max-age=3600"),
		),
	)

	mux.Handle("GET /api/v1/{operation}",
		middleware.Chain(
			http.HandlerFunc(conversionHandler.Convert),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(rateLimiter),
			middleware.CacheControl("public, s-maxage=60, max-age=0"),
		),
	)

	return middleware.CORS(r.cfg.AllowedOrigins)(mux)
}
