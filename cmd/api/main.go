package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/cache"
	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/database"
	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/events"
	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/records"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/handlers"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/routes"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/airtable"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/forms"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/openai"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/postgres"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/redis"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/observability"
	"github.com/careclear/prescreen-dashboard/backend/pkg/config"
	"github.com/careclear/prescreen-dashboard/backend/pkg/secrets"
)

func main() {
	// Pull secrets from Vault before reading configuration, so env
	// defaults pick them up
	vaultCfg := secrets.LoadVaultConfigFromEnv("")
	if vaultCfg.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		result, err := secrets.ApplyVaultSecrets(ctx, vaultCfg)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load Vault secrets")
		} else {
			log.Info().Str("path", result.Path).Int("loaded", result.Loaded).Msg("Vault secrets loaded")
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Str("data_source", cfg.DataSource).
		Msg("Starting pre-screen dashboard API")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize the audit store. The dashboard still serves reads when
	// Postgres is down; only the audit trail goes dark.
	var auditRepo repositories.AuditRepository
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("Audit store unavailable; mutations will not be audited")
	} else {
		defer pgClient.Close()
		auditRepo = database.NewAuditAdapter(pgClient)
		log.Info().Msg("Audit store initialized")
	}

	// Initialize Redis for caching and the event bus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; running without cache and live updates")
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized")
	}

	// Select the record source
	var recordRepo repositories.RecordRepository
	switch cfg.DataSource {
	case config.DataSourceAirtable:
		recordRepo = records.NewAirtableAdapter(airtable.NewClient(&cfg.Airtable, metrics), &cfg.Airtable)
		log.Info().Msg("Record source: Airtable")
	default:
		recordRepo = records.NewMockAdapter()
		log.Info().Msg("Record source: in-memory fixtures")
	}

	// Wrap with caching if Redis is available
	if cacheProvider != nil {
		recordRepo = records.NewCachedAdapter(recordRepo, cacheProvider)
		log.Info().Msg("Record repository wrapped with caching layer")
	}

	// Start cache invalidation so writes drop stale repository entries
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			cacheInvalidationService = nil
		}
	}

	flags := services.NewFeatureFlags()

	// Initialize the question summarizer
	var summarizer providers.InsightProvider
	if !flags.AISummariesEnabled() {
		log.Info().Msg("AI question summaries disabled by feature flag")
	} else if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; question summaries disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			summarizer = openaiClient
		}
	}

	// Initialize the forms backend for consult submissions
	var formsProvider providers.FormsProvider
	formsClient, err := forms.NewClient(&cfg.Forms)
	if err != nil {
		log.Warn().Err(err).Msg("Forms backend not configured; consult submissions disabled")
	} else {
		formsProvider = formsClient
	}

	// Initialize services
	prescreenService := services.NewPrescreenService(recordRepo, auditRepo, eventBus)
	funnelService := services.NewFunnelService(recordRepo)
	insightsService := services.NewInsightsService(recordRepo, summarizer)
	complianceService := services.NewComplianceService(recordRepo)
	consultService := services.NewConsultService(formsProvider)

	// Initialize handlers
	prescreenHandler := handlers.NewPrescreenHandler(prescreenService)
	funnelHandler := handlers.NewFunnelHandler(funnelService)
	insightsHandler := handlers.NewInsightsHandler(insightsService)
	complianceHandler := handlers.NewComplianceHandler(complianceService)
	consultHandler := handlers.NewConsultHandler(consultService, cacheProvider)

	var sseHandler *handlers.SSEHandler
	if eventBus != nil && flags.LiveUpdatesEnabled() {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(&cfg.Auth)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized")
	}

	// Set up router
	router := routes.NewRouter(
		prescreenHandler,
		funnelHandler,
		insightsHandler,
		complianceHandler,
		consultHandler,
		sseHandler,
		authMiddleware,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout stays generous because SSE
	// connections are long-lived.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	// Stop cache invalidation service
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("Server stopped")
}
