// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package moviegraph wires the MovieGraph HTTP service together.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                          service                              │
//	│                                                               │
//	│  gin.Engine ── otelgin ── RequestInfo ── Metrics ── Recovery  │
//	│      │                                                        │
//	│      └─► routes.SetupRoutes ──► handlers ──► store ──► graph  │
//	│                                                       │       │
//	│                                              neo4j driver ◄┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// The service owns the neo4j driver, the tracer provider and a private
// prometheus registry, and releases all of them when Run returns.
package moviegraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/AleutianAI/MovieGraph/pkg/extensions"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/config"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/graph"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/handlers"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/middleware"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/observability"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/routes"
	"github.com/AleutianAI/MovieGraph/services/moviegraph/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// StdoutTraceEndpoint selects the stdout span exporter.
const StdoutTraceEndpoint = "stdout"

// startupCheckTimeout bounds the connectivity and schema checks in New.
const startupCheckTimeout = 5 * time.Second

// =============================================================================
// Interfaces
// =============================================================================

// Service is the MovieGraph HTTP service.
//
// # Thread Safety
//
// Run must be called at most once.
type Service interface {
	// Run serves HTTP until ctx is cancelled or the listener fails, then
	// shuts down gracefully and releases the driver and tracer.
	Run(ctx context.Context) error

	// Router returns the configured engine, for tests.
	Router() *gin.Engine
}

// =============================================================================
// Types
// =============================================================================

// service implements Service.
//
// # Fields
//
//   - config: Validated configuration
//   - opts: Extension options; AuthProvider is the user store unless overridden
//   - router: Gin engine with all routes
//   - executor: Owned neo4j executor, nil when a runner was injected
//   - registry: Private prometheus registry served at /metrics
//   - tracerCleanup: Flushes and stops the span exporter
type service struct {
	config        config.Config
	opts          extensions.ServiceOptions
	router        *gin.Engine
	executor      *graph.Executor
	registry      *prometheus.Registry
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates the service for cfg.
//
// # Description
//
// New initializes, in order:
//  1. OpenTelemetry tracing (OTLP/gRPC, stdout, or disabled)
//  2. The neo4j executor with a prometheus query observer
//  3. A connectivity check and the graph schema; both only warn on failure
//     so the API can start before the database
//  4. Stores, router and routes
//
// If opts is nil, the user store authenticates API keys and audit events
// go to slog. A non-nil opts with a nil AuthProvider also gets the user store.
//
// # Outputs
//
//   - Service: Ready-to-run service
//   - error: Non-nil if the configuration is invalid or the driver or
//     tracer cannot be created
func New(cfg config.Config, opts *extensions.ServiceOptions) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cleanup, err := initTracer(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	executor, err := graph.NewExecutor(graph.Config{
		URI:          cfg.Graph.URI,
		Username:     cfg.Graph.Username,
		Password:     cfg.Graph.Password,
		Database:     cfg.Graph.Database,
		QueryTimeout: cfg.Graph.QueryTimeout,
	})
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}

	s, err := newService(cfg, opts, executor, executor)
	if err != nil {
		_ = executor.Close(context.Background())
		cleanup(context.Background())
		return nil, err
	}
	s.executor = executor
	s.tracerCleanup = cleanup

	ctx, cancel := context.WithTimeout(context.Background(), startupCheckTimeout)
	defer cancel()
	if err := executor.VerifyConnectivity(ctx); err != nil {
		slog.Warn("graph database unreachable, continuing", "uri", cfg.Graph.URI, "error", err)
	} else if err := graph.EnsureSchema(ctx, executor); err != nil {
		slog.Warn("graph schema incomplete", "error", err)
	}

	return s, nil
}

// newService builds the router over an arbitrary runner. The tracer is
// left untouched.
func newService(cfg config.Config, opts *extensions.ServiceOptions, runner graph.Runner, readiness handlers.ReadinessChecker) (*service, error) {
	s := &service{
		config:        cfg,
		registry:      prometheus.NewRegistry(),
		tracerCleanup: func(context.Context) {},
	}

	s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(s.registry)
	if executor, ok := runner.(*graph.Executor); ok {
		executor.SetObserver(metrics)
	}

	users := store.NewUserStore(runner)
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.AuthProvider == nil {
		s.opts = s.opts.WithAuth(users)
	}
	if s.opts.AuditLogger == nil {
		s.opts = s.opts.WithAudit(extensions.NewSlogAuditLogger(slog.Default()))
	}

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	s.router = gin.New()
	// ClientIP keys the login limiter; only listed proxies may set X-Forwarded-For.
	if err := s.router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	s.router.Use(
		otelgin.Middleware(serviceName(cfg.Tracing)),
		middleware.RequestInfo(),
		metrics.Middleware(),
		gin.Recovery(),
	)

	loginLimiter := middleware.NewIPRateLimiter(cfg.Login.RatePerSecond, cfg.Login.Burst)
	observability.RegisterLoginVisitors(s.registry, loginLimiter.Len)

	deps := routes.Dependencies{
		BasePath:     cfg.Server.APIPath,
		Movies:       store.NewMovieStore(runner),
		Users:        users,
		People:       store.NewPersonStore(runner),
		Genres:       store.NewGenreStore(runner),
		Readiness:    readiness,
		LoginLimiter: loginLimiter,
		Options:      s.opts,
	}
	if cfg.Server.EnableMetrics {
		deps.Metrics = observability.Handler(s.registry)
	}
	routes.SetupRoutes(s.router, deps)

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run listens on the configured port and serves until ctx is done.
func (s *service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		s.cleanup()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.serve(ctx, ln)
}

// serve runs the HTTP server on ln. The server goroutine and the shutdown
// goroutine share an errgroup so a listener failure also stops shutdown
// waiting.
func (s *service) serve(ctx context.Context, ln net.Listener) error {
	defer s.cleanup()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting moviegraph server", "addr", ln.Addr().String(), "api_path", s.config.Server.APIPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		slog.Info("shutting down moviegraph server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *service) Router() *gin.Engine {
	return s.router
}

func (s *service) shutdownTimeout() time.Duration {
	if s.config.Server.ShutdownTimeout > 0 {
		return s.config.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

// cleanup closes the driver and flushes spans.
func (s *service) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.executor != nil {
		if err := s.executor.Close(ctx); err != nil {
			slog.Warn("graph driver close error", "error", err)
		}
	}
	s.tracerCleanup(ctx)
}

// =============================================================================
// Tracing
// =============================================================================

func serviceName(cfg config.TracingConfig) string {
	if cfg.ServiceName != "" {
		return cfg.ServiceName
	}
	return config.DefaultServiceName
}

// initTracer installs the global tracer provider.
//
// # Description
//
// An empty endpoint leaves the global no-op provider in place. "stdout"
// prints spans; anything else is an OTLP/gRPC collector address.
//
// # Limitations
//
//   - Uses an insecure gRPC connection (appropriate for internal networks)
func initTracer(cfg config.TracingConfig) (func(context.Context), error) {
	if cfg.Endpoint == "" {
		return func(context.Context) {}, nil
	}
	ctx := context.Background()

	var exporter sdktrace.SpanExporter
	if cfg.Endpoint == StdoutTraceEndpoint {
		stdout, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		exporter = stdout
	} else {
		conn, err := grpc.NewClient(cfg.Endpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}
		otlp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		exporter = otlp
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName(cfg))))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter))

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		if err := provider.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown tracer provider", "error", err)
		}
	}, nil
}
