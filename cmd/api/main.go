package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fincore/config"
	httpHandler "fincore/internal/adapter/http/handler"
	"fincore/internal/adapter/notify"
	pgStorage "fincore/internal/adapter/storage/postgres"
	redisStorage "fincore/internal/adapter/storage/redis"
	"fincore/internal/core/ports"
	"fincore/internal/service"
	"fincore/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present (local development convenience)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Fincore")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("FINCORE_JWT_SECRET must be set")
	}

	// Parse the risk, fee and limit schedules up front so a bad value
	// fails the boot instead of a transaction.
	riskSettings, err := cfg.Risk.Settings()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid risk configuration")
	}
	feeSettings, err := cfg.Fees.Settings()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid fee configuration")
	}
	limitSettings, err := cfg.Limits.Settings()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid limit configuration")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize NATS connection. An empty URL disables event publishing.
	nc, err := notify.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	if nc != nil {
		log.Info().Str("url", cfg.NATS.URL).Msg("NATS connected")
	} else {
		log.Warn().Msg("NATS disabled, events will be dropped")
	}

	// Initialize repositories
	profileRepo := pgStorage.NewProfileRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	creditRepo := pgStorage.NewAgentCreditRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	holdRepo := pgStorage.NewHoldRepo(pool)
	alertRepo := pgStorage.NewRiskAlertRepo(pool)
	otpRepo := pgStorage.NewOTPRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	deviceRepo := pgStorage.NewDeviceRepo(pool)
	limitsRepo := pgStorage.NewLimitsRepo(pool)
	snapshotRepo := pgStorage.NewSnapshotRepo(pool)
	reconciliationRepo := pgStorage.NewReconciliationRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	sessionIPs := redisStorage.NewSessionIPStore(rdb, cfg.Risk.SessionIPDepth)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize event publisher (Notifier + Archiver)
	notifier := notify.NewNotifier(nc, log)

	// Initialize core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)
	ledgerSvc := service.NewLedgerService(
		walletRepo,
		creditRepo,
		accountRepo,
		ledgerRepo,
		txRepo,
		holdRepo,
		alertRepo,
		idempotencyRepo,
		transactor,
		log,
	)
	riskSvc := service.NewRiskService(
		txRepo,
		deviceRepo,
		limitsRepo,
		alertRepo,
		auditSvc,
		sessionIPs,
		transactor,
		riskSettings,
		limitSettings,
		log,
	)

	// Initialize business services
	walletSvc := service.NewWalletService(walletRepo, profileRepo, log)
	processorSvc := service.NewProcessorService(
		txRepo,
		walletRepo,
		creditRepo,
		profileRepo,
		alertRepo,
		otpRepo,
		idempotencyRepo,
		idempotencyCache,
		riskSvc,
		ledgerSvc,
		notifier,
		feeSettings,
		cfg.OTP.TTL,
		cfg.OTP.Length,
		log,
	)
	holdSvc := service.NewHoldService(holdRepo, txRepo, ledgerSvc, auditSvc, notifier, log)
	settlementSvc := service.NewSettlementService(
		txRepo,
		profileRepo,
		creditRepo,
		walletRepo,
		idempotencyRepo,
		idempotencyCache,
		ledgerSvc,
		auditSvc,
		notifier,
		log,
	)
	snapshotSvc := service.NewSnapshotService(
		snapshotRepo,
		reconciliationRepo,
		walletRepo,
		creditRepo,
		accountRepo,
		ledgerRepo,
		holdRepo,
		transactor,
		auditSvc,
		notifier,
		log,
	)
	profileSvc := service.NewProfileService(profileRepo, creditRepo, auditSvc, log)
	reportingSvc := service.NewReportingService(txRepo, accountRepo, ledgerRepo, auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)
	natsHealth := notify.NewHealthCheck(nc)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		ProcessorSvc:   processorSvc,
		HoldSvc:        holdSvc,
		RiskSvc:        riskSvc,
		SettlementSvc:  settlementSvc,
		SnapshotSvc:    snapshotSvc,
		ProfileSvc:     profileSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		SessionIPs:     sessionIPs,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth, natsHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Flush buffered events before dropping the connection.
	if nc != nil {
		if err := nc.Drain(); err != nil {
			log.Error().Err(err).Msg("NATS drain failed")
		}
	}

	log.Info().Msg("Server exited")
}
