package handler

import (
	"fincore/internal/adapter/http/middleware"
	redisStore "fincore/internal/adapter/storage/redis"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	ProcessorSvc   ports.TransactionProcessor
	HoldSvc        ports.HoldService
	RiskSvc        ports.RiskService
	SettlementSvc  ports.SettlementService
	SnapshotSvc    ports.SnapshotService
	ProfileSvc     ports.ProfileService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	SessionIPs     ports.SessionIPStore       // nil = session ring disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check verifying PostgreSQL, Redis and NATS
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	txHandler := NewTransactionHandler(deps.ProcessorSvc)
	holdHandler := NewHoldHandler(deps.HoldSvc)
	riskHandler := NewRiskHandler(deps.RiskSvc)
	settlementHandler := NewSettlementHandler(deps.SettlementSvc)
	snapshotHandler := NewSnapshotHandler(deps.SnapshotSvc)
	profileHandler := NewProfileHandler(deps.ProfileSvc)
	reportingHandler := NewReportingHandler(deps.ReportingSvc)

	// API v1 routes, all JWT-authenticated. Tokens come from the
	// external identity provider.
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.SessionIPs, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.GET("", rl("reads"), walletHandler.List)
		wallets.GET("/:id", rl("reads"), walletHandler.Get)
	}

	transactions := v1.Group("/transactions")
	{
		transactions.POST("/deposit", rl("transactions"), txHandler.Deposit)
		transactions.POST("/withdraw", rl("transactions"), txHandler.Withdraw)
		transactions.POST("/transfer", rl("transfers"), txHandler.InitiateTransfer)
		transactions.POST("/transfer/confirm", rl("transfer_confirm"), txHandler.ConfirmTransfer)
		transactions.POST("/qr-payment", rl("transactions"), txHandler.QRPayment)
		transactions.POST("/purchase", rl("transactions"), txHandler.ServicePurchase)
		transactions.GET("", rl("reads"), txHandler.List)
		transactions.GET("/:id", rl("reads"), txHandler.GetByID)
		transactions.GET("/:id/entries", rl("reads"), reportingHandler.EntriesByTransaction)
	}

	// Reference polling for clients that only hold the reference number.
	v1.GET("/references/:reference", rl("reads"), txHandler.GetByReference)

	// Merchant resolution of parked service purchases.
	purchases := v1.Group("/purchases")
	{
		purchases.POST("/:id/approve", rl("transactions"), holdHandler.ApprovePurchase)
		purchases.POST("/:id/decline", rl("transactions"), holdHandler.DeclinePurchase)
	}

	// Agent credit line and settlement requests.
	v1.GET("/credits/:agent_id", rl("reads"), settlementHandler.GetCredit)
	v1.POST("/settlements", rl("transactions"), settlementHandler.RequestSettlement)

	v1.GET("/profiles/:id", rl("reads"), profileHandler.Get)
	v1.GET("/reports/stats", rl("reads"), reportingHandler.Stats)

	// --- Admin surface ---
	admin := v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin))

	holds := admin.Group("/holds")
	{
		holds.GET("", rl("reads"), holdHandler.List)
		holds.POST("/:id/release", rl("admin"), holdHandler.Release)
		holds.POST("/:id/cancel", rl("admin"), holdHandler.Cancel)
	}

	alerts := admin.Group("/alerts")
	{
		alerts.GET("", rl("reads"), riskHandler.ListAlerts)
		alerts.POST("/:id/review", rl("admin"), riskHandler.ReviewAlert)
	}

	admin.POST("/credits", rl("admin"), settlementHandler.GrantCredit)

	settlements := admin.Group("/settlements")
	{
		settlements.POST("", rl("admin"), settlementHandler.RecordSettlement)
		settlements.POST("/:id/confirm", rl("admin"), settlementHandler.ConfirmSettlement)
	}

	admin.POST("/profit-distributions", rl("admin"), settlementHandler.DistributeProfit)

	snapshots := admin.Group("/snapshots")
	{
		snapshots.POST("", rl("admin"), snapshotHandler.Create)
		snapshots.GET("", rl("reads"), snapshotHandler.List)
		snapshots.GET("/latest", rl("reads"), snapshotHandler.Latest)
	}

	reconciliations := admin.Group("/reconciliations")
	{
		reconciliations.POST("", rl("admin"), snapshotHandler.Reconcile)
		reconciliations.GET("", rl("reads"), snapshotHandler.ListReports)
	}

	admin.GET("/ledger", rl("reads"), reportingHandler.LedgerOverview)
	admin.POST("/ledger/sync", rl("admin"), snapshotHandler.SyncLedger)

	profiles := admin.Group("/profiles")
	{
		profiles.POST("", rl("admin"), profileHandler.Create)
		profiles.PUT("/:id/status", rl("admin"), profileHandler.SetStatus)
	}

	admin.PUT("/wallets/:id/active", rl("admin"), walletHandler.SetActive)
	admin.GET("/audit-logs", rl("reads"), reportingHandler.AuditTrail)

	return r
}
