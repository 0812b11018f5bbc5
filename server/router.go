package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mynextid/zk-agegate/attestation"
	"github.com/mynextid/zk-agegate/events"
	"github.com/mynextid/zk-agegate/models"
	"github.com/mynextid/zk-agegate/oracle"
	"github.com/mynextid/zk-agegate/server/api"
)

func setupRouter(ctx context.Context, cfg *ServeConfig, logger Logger, o oracle.Oracle, provider events.Provider) *chi.Mux {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	// Forwarded headers are client-controlled unless a proxy rewrites them.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(loggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.WriteTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestSize))

	// CORS middleware
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if cfg.RateLimitRPS > 0 {
		r.Use(RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Compression
	r.Use(middleware.Compress(5))

	// Metrics
	registry := prometheus.NewRegistry()
	if cfg.EnableMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	server := api.NewServer(api.Config{
		Oracle:        o,
		BundleDir:     cfg.BundleDir,
		OracleTimeout: cfg.OracleTimeout,
		MinAge:        cfg.MinAge,
		Attestation:   attestation.NewIssuer(cfg.AttestationSecret, cfg.AttestationTTL),
		Events:        provider,
		Logger:        logger,
		Metrics:       api.NewMetrics(registry),
	})
	server.Register(r)

	// Pprof (debug only)
	if cfg.EnablePprof {
		r.Mount("/debug", middleware.Profiler())
	}

	return r
}

func respondTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:     "too many requests",
		Code:      "rate_limited",
		Timestamp: time.Now(),
	})
}
