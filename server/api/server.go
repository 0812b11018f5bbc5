package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mynextid/zk-agegate/attestation"
	"github.com/mynextid/zk-agegate/events"
	"github.com/mynextid/zk-agegate/oracle"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// BundleInspector reports on the loaded circuit bundle
type BundleInspector interface {
	Info(dir string) oracle.BundleInfo
}

// Config of the API server
type Config struct {
	Oracle    oracle.Oracle
	BundleDir string
	// OracleTimeout bounds every oracle call, 0 disables the bound
	OracleTimeout time.Duration
	MinAge        int

	// Attestation is optional, nil disables attestation tokens
	Attestation *attestation.Issuer
	// Events serves GET /api/events, nil disables the route
	Events events.Provider

	Logger  Logger
	Metrics *Metrics
	Tracer  trace.Tracer
}

// Server handles the HTTP requests of the age gate
type Server struct {
	oracle        oracle.Oracle
	bundleDir     string
	oracleTimeout time.Duration
	minAge        int

	attestation *attestation.Issuer
	events      events.Provider

	logger  Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg Config) *Server {
	s := &Server{
		oracle:        cfg.Oracle,
		bundleDir:     cfg.BundleDir,
		oracleTimeout: cfg.OracleTimeout,
		minAge:        cfg.MinAge,
		attestation:   cfg.Attestation,
		events:        cfg.Events,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		tracer:        cfg.Tracer,
	}
	if s.minAge == 0 {
		s.minAge = oracle.DefaultMinAge
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("zk-agegate/api")
	}
	return s
}

// Register mounts the routes of the server on r
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/verify", s.HandleVerify)
		r.Get("/circuit", s.HandleGetCircuit)

		if s.events == nil {
			return
		}
		if s.attestation != nil {
			r.With(s.attestation.Require).Get("/events", s.HandleListEvents)
		} else {
			r.Get("/events", s.HandleListEvents)
		}
	})
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleGetCircuit reports the circuit bundle served by the oracle
func (s *Server) HandleGetCircuit(w http.ResponseWriter, r *http.Request) {
	info := oracle.BundleInfo{Name: oracle.CircuitName, Version: oracle.CircuitVersion}
	if inspector, ok := s.oracle.(BundleInspector); ok {
		info = inspector.Info(s.bundleDir)
	}
	respondJSON(w, http.StatusOK, info)
}

// HandleListEvents serves the event list of the configured provider
func (s *Server) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list events", "error", err)
		respondError(w, http.StatusInternalServerError, "events_unavailable", "failed to list events")
		return
	}
	respondJSON(w, http.StatusOK, eventList(list))
}

func (s *Server) oracleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.oracleTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.oracleTimeout)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
