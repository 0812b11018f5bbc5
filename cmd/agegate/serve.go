package agegate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mynextid/zk-agegate/oracle"
	"github.com/mynextid/zk-agegate/server"
)

func NewServeCmd() *cobra.Command {
	cfg := &server.ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the age verification API server",
		Long: `Start the HTTP API server answering POST /api/verify with a zero-knowledge age proof.
Every flag can also be set through an AGEGATE_<FLAG> environment variable or a .env file.`,
		Example: `  # Start server on default port
  agegate serve

  # Start with custom settings
  agegate serve --host 0.0.0.0 --port 9090 --bundle-dir ./setup

  # Issue attestations and serve events from postgres
  AGEGATE_ATTESTATION_SECRET=change-me agegate serve \
    --events-driver pgx --events-dsn postgres://agegate@localhost/agegate

  # Production deployment with TLS
  agegate serve --host 0.0.0.0 --port 443 --enable-tls \
    --cert-file /etc/ssl/cert.pem --key-file /etc/ssl/key.pem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(cfg)
		},
	}

	// Server flags
	cmd.Flags().StringVar(&cfg.Host, "host", "localhost", "Host to bind to")
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", 8080, "Port to listen on")

	// Oracle flags
	cmd.Flags().StringVarP(&cfg.BundleDir, "bundle-dir", "d", "./setup", "Directory containing the compiled age circuit")
	cmd.Flags().IntVar(&cfg.MinAge, "min-age", oracle.DefaultMinAge, "Minimum age proven by the circuit")
	cmd.Flags().DurationVar(&cfg.OracleTimeout, "oracle-timeout", 30*time.Second, "Upper bound of a single proof (0 = none)")

	// Attestation flags
	cmd.Flags().StringVar(&cfg.AttestationSecret, "attestation-secret", "", "HMAC secret for attestation tokens (empty = disabled)")
	cmd.Flags().DurationVar(&cfg.AttestationTTL, "attestation-ttl", time.Hour, "Lifetime of attestation tokens")

	// Event flags
	cmd.Flags().StringVar(&cfg.EventsDriver, "events-driver", server.EventsStatic, "Event source for /api/events (none, static, mysql, pgx)")
	cmd.Flags().StringVar(&cfg.EventsDSN, "events-dsn", "", "Database DSN for the mysql and pgx event sources")

	// Performance flags
	cmd.Flags().Int64Var(&cfg.MaxRequestSize, "max-request-size", 64*1024, "Maximum request body size in bytes")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", 15*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", 60*time.Second, "HTTP write timeout (proof generation can be slow)")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", 120*time.Second, "HTTP idle timeout")
	cmd.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	cmd.Flags().Float64Var(&cfg.RateLimitRPS, "rate-limit-rps", 0, "Requests per second per client IP (0 = unlimited)")
	cmd.Flags().IntVar(&cfg.RateLimitBurst, "rate-limit-burst", 10, "Request burst per client IP")
	cmd.Flags().BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Take the client IP from X-Forwarded-For/X-Real-IP (only behind a trusted reverse proxy)")

	// Security flags
	cmd.Flags().BoolVar(&cfg.EnableCORS, "enable-cors", true, "Enable CORS middleware")
	cmd.Flags().StringSliceVar(&cfg.CorsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	// Observability flags
	cmd.Flags().BoolVar(&cfg.EnableMetrics, "enable-metrics", true, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&cfg.EnablePprof, "enable-pprof", false, "Enable pprof endpoints (debug only)")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&cfg.LogFormat, "log-format", "text", "Log format (text, json)")

	// TLS flags
	cmd.Flags().BoolVar(&cfg.EnableTLS, "enable-tls", false, "Enable TLS/HTTPS")
	cmd.Flags().StringVar(&cfg.CertFile, "cert-file", "", "TLS certificate file")
	cmd.Flags().StringVar(&cfg.KeyFile, "key-file", "", "TLS private key file")

	return cmd
}
