// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package waitlist provides the waitlist capture service for the
// BalaBite marketing site.
//
// This package contains the main service type that coordinates all
// components: HTTP routing, the submission pipeline, the Supabase
// store client, file backups, notifications, and observability
// infrastructure.
//
// # Usage
//
//	cfg := waitlist.Config{Port: 8080}
//	svc, err := waitlist.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/BalaBiteAI/balabite-waitlist/pkg/configuration"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/backup"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/notify"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/observability"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/pipeline"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/routes"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the waitlist service.
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing. Callers
	// must not modify routes after construction.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds waitlist service configuration options. All fields are
// optional; New() applies defaults for zero values.
type Config struct {
	// Port is the HTTP server port. Default: 8080
	Port int

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test". Default: "release"
	GinMode string

	// BackupDir is the local submission backup directory.
	// Default: "./waitlist-data"
	BackupDir string

	// EnableMetrics enables the Prometheus metrics endpoint.
	EnableMetrics bool

	// Supabase holds the store credentials. When unconfigured the
	// service runs file-backup-only.
	Supabase configuration.SupabaseOptions

	// Notify holds the email and Slack credentials. Missing values
	// disable individual channels.
	Notify configuration.NotifyOptions

	// OTel controls OpenTelemetry tracing export.
	OTel configuration.OpenTelemetryOptions
}

// FromConfiguration maps the environment-backed configuration onto a
// service Config.
func FromConfiguration(cfg *configuration.Configuration) Config {
	return Config{
		Port:          cfg.Port,
		GinMode:       cfg.GinMode,
		BackupDir:     cfg.BackupDir,
		EnableMetrics: cfg.MetricsEnabled,
		Supabase:      cfg.Supabase,
		Notify:        cfg.Notify,
		OTel:          cfg.OTel,
	}
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use. Thread-safe after
// construction; all fields are read-only after New() returns.
type service struct {
	config        Config
	router        *gin.Engine
	storeClient   *store.Client
	backupWriter  *backup.Writer
	notifier      *notify.Notifier
	pipeline      *pipeline.Pipeline
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a waitlist Service with the given configuration.
//
// Initialization order:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing (when enabled)
//  3. Initializes Prometheus metrics (when enabled)
//  4. Creates the Supabase store client if credentials are present
//  5. Creates the backup writer, notifier, and pipeline
//  6. Sets up HTTP routes
//
// A missing or invalid store configuration is not fatal: the service
// runs with file backups as the only persistence sink.
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	gin.SetMode(s.config.GinMode)

	if s.config.OTel.Enabled {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	if s.config.EnableMetrics && observability.DefaultMetrics == nil {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for waitlist pipeline")
	}

	s.initStore()

	s.backupWriter = backup.NewWriter(s.config.BackupDir)
	s.notifier = notify.New(notify.Config{
		ResendAPIKey:    s.config.Notify.ResendAPIKey,
		AdminEmail:      s.config.Notify.AdminEmail,
		SlackWebhookURL: s.config.Notify.SlackWebhookURL,
	})

	var submissionStore pipeline.SubmissionStore
	if s.storeClient != nil {
		submissionStore = s.storeClient
	}
	s.pipeline = pipeline.New(s.backupWriter, submissionStore, s.notifier, observability.DefaultMetrics)

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting waitlist server",
		"port", s.config.Port,
		"backup_dir", s.config.BackupDir,
		"store_configured", s.storeClient != nil,
	)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.ReleaseMode
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "./waitlist-data"
	}
	return cfg
}

// initStore creates the Supabase client when credentials are present.
// Store problems downgrade the service to file-backup-only mode.
func (s *service) initStore() {
	if !s.config.Supabase.Configured() {
		slog.Warn("Supabase not configured, running with file backups only")
		return
	}

	client, err := store.New(store.Config{
		URL:            s.config.Supabase.URL,
		AnonKey:        s.config.Supabase.AnonKey,
		ServiceRoleKey: s.config.Supabase.ServiceRoleKey,
	})
	if err != nil {
		slog.Warn("Supabase client initialization failed, running with file backups only",
			"error", err)
		return
	}

	s.storeClient = client
	slog.Info("Supabase store client initialized")
}

// initTracer initializes OpenTelemetry distributed tracing with an
// OTLP exporter over an insecure gRPC connection (internal networks).
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTel.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("waitlist-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	s.router = gin.Default()
	if s.config.OTel.Enabled {
		s.router.Use(otelgin.Middleware("waitlist-service"))
	}

	deps := routes.Deps{
		Pipeline:       s.pipeline,
		Backups:        s.backupWriter,
		MetricsEnabled: s.config.EnableMetrics,
	}
	if s.storeClient != nil {
		deps.GuestStore = s.storeClient
		deps.Counter = s.storeClient
	}

	routes.SetupRoutes(s.router, deps)
}

// cleanup releases resources held by the service. Called when Run()
// exits.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
