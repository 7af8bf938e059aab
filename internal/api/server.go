// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the Levercast waitlist relay.
package api

import (
	_ "embed"
	"fmt"
	"levercast/internal/api/handler/relayhandler"
	"levercast/internal/config"
	"levercast/internal/waitlist"
	"levercast/pkg/controller"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// SendEmailPath is the route of the waitlist relay endpoint.
const SendEmailPath = "/api/send-email"

// v1Spec contains the embedded OpenAPI specification of the relay API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MaxBodyBytes bounds a submission body.
	MaxBodyBytes int64
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// AllowedOrigin is the CORS origin; empty allows any origin.
	AllowedOrigin string
	// Pprof mounts the profiling endpoints under /debug/pprof/.
	Pprof bool
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		AllowedOrigin:     cfg.HTTP.AllowedOrigin,
		Pprof:             cfg.HTTP.Pprof,
	}
}

type Deps struct {
	Notifier waitlist.Notifier
	// Registry receives the otel exporter and backs the metrics endpoint.
	// Defaults to the prometheus default registry.
	Registry *prometheus.Registry
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - OpenTelemetry metrics exporter (Prometheus)
// - Embedded OpenAPI spec and Swagger UI
// - the waitlist relay endpoint
// - pprof endpoints for profiling, when enabled
// It also wraps the mux with CORS and logging middlewares and applies a request timeout.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		metrics                          = promhttp.Handler()
	)
	if deps.Registry != nil {
		registerer = deps.Registry
		metrics = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}
	mux.Handle(opts.MetricsPath, metrics)

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	// specs file
	mux.HandleFunc("/specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// swagger playground
	mux.Handle("/docs/", v5emb.New(
		"Levercast Waitlist",
		"/specs/v1.yaml",
		"/docs/",
	))

	// relay
	relay, err := relayhandler.New(relayhandler.Deps{
		Notifier:      deps.Notifier,
		MeterProvider: mp,
	}, relayhandler.Options{MaxBodyBytes: opts.MaxBodyBytes})
	if err != nil {
		return nil, fmt.Errorf("could not create relay handler: %w", err)
	}
	mux.Handle(SendEmailPath, relay)

	// pprof
	if opts.Pprof {
		mux.Handle("/debug/pprof/", controller.PprofMux("/debug/pprof/"))
	}

	// cors
	handler := controller.WithCORS(opts.AllowedOrigin, mux)

	// logger
	handler = controller.WithLogger(handler)

	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, `{"error":"request timed out"}`)
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
