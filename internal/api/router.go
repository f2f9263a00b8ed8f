package api

import (
	"time" // Cache TTLs

	"voucher_wallet/internal/domain"     // Roles
	"voucher_wallet/internal/ledger"     // Wallet ledger service
	"voucher_wallet/internal/middleware" // Custom middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	DB             *gorm.DB        // Used for health checks only
	Service        *ledger.Service // Wallet ledger
	Redis          *redis.Client   // Cache and idempotency store
	JWTSecret      string          // Token signing secret
	CacheTTL       time.Duration   // TTL for cached read models
	IdempotencyTTL time.Duration   // TTL for stored idempotent responses
}

// RegisterRoutes mounts every route on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	RegisterValidators() // money tag for decimal amounts

	r.Use(middleware.RequestLogger()) // Request id and access log

	r.GET("/healthz", HealthHandler(d.DB, d.Redis)) // Liveness and dependency check

	auth := middleware.JWTAuthMiddleware(d.JWTSecret)
	idempotent := middleware.Idempotency(d.Redis, d.IdempotencyTTL)

	// Wallet routes (any authenticated role)
	walletGroup := r.Group("/wallet")
	walletGroup.Use(auth)
	walletGroup.GET("", GetWalletHandler(d.Service))                                          // Get wallet endpoint
	walletGroup.GET("/transactions", GetTransactionHistoryHandler(d.Service))                 // Transaction history endpoint
	walletGroup.POST("/deposit", idempotent, DepositHandler(d.Service, d.Redis))              // Deposit simulation endpoint
	walletGroup.POST("/redeem", RedeemHandler(d.Service, d.Redis))                            // Redeem typed code endpoint
	walletGroup.POST("/redeem/:code", RedeemScannedHandler(d.Service, d.Redis))               // Redeem scanned code endpoint
	walletGroup.POST("/withdrawals", idempotent, SubmitWithdrawalHandler(d.Service, d.Redis)) // Withdrawal request endpoint
	walletGroup.GET("/withdrawals", ListMyWithdrawalsHandler(d.Service))                      // Own withdrawal requests endpoint

	// Voucher routes (merchants and admins)
	voucherGroup := r.Group("/vouchers")
	voucherGroup.Use(auth, middleware.RequireRole(domain.RoleMerchant, domain.RoleAdmin))
	voucherGroup.POST("", CreateVoucherHandler(d.Service, d.Redis))           // Mint voucher endpoint
	voucherGroup.GET("", ListVouchersHandler(d.Service, d.Redis, d.CacheTTL)) // List vouchers endpoint
	voucherGroup.GET("/:code", GetVoucherHandler(d.Service))                  // Voucher detail endpoint

	// Admin routes (admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(auth, middleware.RequireRole(domain.RoleAdmin))
	adminGroup.GET("/stats", StatsHandler(d.Service, d.Redis, d.CacheTTL))                    // Dashboard stats endpoint
	adminGroup.GET("/withdrawals", ListWithdrawalsHandler(d.Service))                         // Review queue endpoint
	adminGroup.POST("/withdrawals/:id/approve", ApproveWithdrawalHandler(d.Service, d.Redis)) // Approve endpoint
	adminGroup.POST("/withdrawals/:id/reject", RejectWithdrawalHandler(d.Service, d.Redis))   // Reject endpoint
}
