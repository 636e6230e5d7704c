package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/loader"
	"github.com/jusunglee/pinyin/internal/dict/postgres"
	"github.com/jusunglee/pinyin/internal/health"
	"github.com/jusunglee/pinyin/internal/logger"
	"github.com/jusunglee/pinyin/internal/metrics"
	"github.com/jusunglee/pinyin/internal/pinyin"
	"github.com/jusunglee/pinyin/internal/web"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("pinyin-web")
	defaults := web.DefaultConfig()
	var (
		sourceFlags    = loader.AddFlags(fs)
		port           = fs.Int64Long("port", 3000, "HTTP server port")
		allowedOrigins = fs.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins (default: any)")
		rateLimit      = fs.IntLong("rate-limit", defaults.RateLimit, "Requests per client IP per rate window")
		rateWindow     = fs.DurationLong("rate-window", defaults.RateWindow, "Rate limit window")
		cacheTTL       = fs.DurationLong("cache-ttl", defaults.CacheTTL, "Result cache TTL, 0 disables the cache")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("PINYIN")); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()

	cfg, err := sourceFlags.Config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := loader.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening dictionary: %w", err)
	}
	defer src.Close()
	log.InfoContext(ctx, "opened dictionary", "loader", cfg.Kind, "han_fallback", cfg.HanFallback)

	conv := pinyin.New(src, pinyin.WithLogger(log))
	if err := conv.Ready(ctx); err != nil {
		// Operations that do not need the missing data still work.
		log.WarnContext(ctx, "dictionary not fully available", "error", err)
	}

	router := web.NewRouter(conv, log, web.Config{
		RateLimit:  *rateLimit,
		RateWindow: *rateWindow,
		CacheTTL:   *cacheTTL,
		AllowedOrigins: lo.Compact(lo.Map(strings.Split(*allowedOrigins, ","), func(o string, _ int) string {
			return strings.TrimSpace(o)
		})),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("GET /health", health.Handler(conv))
	mux.Handle("/api/", router.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.InfoContext(ctx, "starting web server", "port", *port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if store, ok := unwrap(src).(*postgres.Store); ok {
		g.Go(func() error {
			exportPoolStats(ctx, store)
			return nil
		})
	}

	return g.Wait()
}

func unwrap(src dict.Source) dict.Source {
	for {
		u, ok := src.(interface{ Unwrap() dict.Source })
		if !ok {
			return src
		}
		src = u.Unwrap()
	}
}

// exportPoolStats periodically exports pgxpool stats as Prometheus gauges.
func exportPoolStats(ctx context.Context, store *postgres.Store) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s := store.PoolStats()
			metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
			metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
			metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
			metrics.DBPoolMaxConns.Set(float64(s.MaxConns()))
		case <-ctx.Done():
			return
		}
	}
}
