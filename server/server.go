package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mynextid/zk-agegate/events"
	"github.com/mynextid/zk-agegate/oracle"
)

// Event sources of GET /api/events
const (
	EventsNone   = "none"
	EventsStatic = "static"
)

type ServeConfig struct {
	// Server settings
	Host string
	Port int

	// Oracle settings
	BundleDir     string
	MinAge        int
	OracleTimeout time.Duration

	// Attestation settings, an empty secret disables attestations
	AttestationSecret string
	AttestationTTL    time.Duration

	// Event source: none, static, mysql or pgx
	EventsDriver string
	EventsDSN    string

	// Performance settings
	MaxRequestSize  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Rate limiting per client IP, 0 rps disables it
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	// Security settings
	EnableCORS  bool
	CorsOrigins []string

	// Observability
	EnableMetrics bool
	EnablePprof   bool
	LogLevel      string
	LogFormat     string // "json" or "text"

	// TLS settings
	EnableTLS bool
	CertFile  string
	KeyFile   string
}

func Run(cfg *ServeConfig) error {
	// Validate configuration
	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup structured logging
	logger := SetupLogger(cfg.LogLevel, cfg.LogFormat)

	// Load the circuit bundle up front so the first request does not pay for it
	g := oracle.NewGroth16(oracle.WithMinAge(cfg.MinAge))
	if _, err := g.Load(cfg.BundleDir); err != nil {
		return fmt.Errorf("failed to load circuit bundle (run `agegate compile` first): %w", err)
	}
	info := g.Info(cfg.BundleDir)
	logger.Info("Loaded circuit", "circuit", info.Name, "version", info.Version, "constraints", info.Constraints)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	provider, closeEvents, err := openEvents(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open event source: %w", err)
	}
	defer closeEvents()
	logger.Info("Event source ready", "driver", cfg.EventsDriver)

	// Setup router with middleware
	r := setupRouter(ctx, cfg, logger, g, provider)

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", addr, "tls", cfg.EnableTLS)

		var err error
		if cfg.EnableTLS {
			err = httpServer.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server gracefully...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func openEvents(ctx context.Context, cfg *ServeConfig) (events.Provider, func(), error) {
	switch cfg.EventsDriver {
	case "", EventsNone:
		return nil, func() {}, nil
	case EventsStatic:
		return events.NewStaticProvider(), func() {}, nil
	}

	p, err := events.OpenSQL(ctx, events.DefaultSQLConfig(cfg.EventsDriver, cfg.EventsDSN))
	if err != nil {
		return nil, nil, err
	}
	return p, func() { p.Close() }, nil
}

func validateServeConfig(cfg *ServeConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if cfg.EnableTLS {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert-file or key-file not provided")
		}
		if _, err := os.Stat(cfg.CertFile); err != nil {
			return fmt.Errorf("cert file not found: %s", cfg.CertFile)
		}
		if _, err := os.Stat(cfg.KeyFile); err != nil {
			return fmt.Errorf("key file not found: %s", cfg.KeyFile)
		}
	}

	if _, err := os.Stat(cfg.BundleDir); err != nil {
		return fmt.Errorf("bundle directory not found: %s", cfg.BundleDir)
	}

	if cfg.MinAge < 1 {
		return fmt.Errorf("invalid min age: %d", cfg.MinAge)
	}

	if cfg.RateLimitRPS < 0 || (cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1) {
		return fmt.Errorf("invalid rate limit: %v rps, burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	switch cfg.EventsDriver {
	case "", EventsNone, EventsStatic:
	case events.DriverMySQL, events.DriverPostgres:
		if cfg.EventsDSN == "" {
			return fmt.Errorf("events driver %s requires events-dsn", cfg.EventsDriver)
		}
	default:
		return fmt.Errorf("unknown events driver: %s", cfg.EventsDriver)
	}

	if cfg.AttestationSecret != "" && cfg.AttestationTTL <= 0 {
		return fmt.Errorf("attestation ttl must be positive")
	}

	return nil
}
