package api

import (
	"net/http" // HTTP status codes

	"voucher_wallet/internal/domain" // Importing domain models
	"voucher_wallet/internal/ledger" // Wallet ledger service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
)

// DepositRequest represents a simulated deposit
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"money"` // Deposit amount
}

// RedeemRequest carries a voucher code typed by the user
type RedeemRequest struct {
	Code string `json:"code" binding:"required,max=32"` // Voucher code, any case
}

// WithdrawalRequest asks for a payout to a bank account
type WithdrawalRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"money"`                           // Amount to withdraw
	BankName      string          `json:"bank_name" binding:"required,max=100"`             // Receiving bank
	AccountNumber string          `json:"account_number" binding:"required,numeric,max=50"` // Receiving account number
}

// GetWalletHandler returns the caller's wallet, creating it on first access
func GetWalletHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUser(c) // Authenticated caller
		account, err := svc.Account(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Wallet")
			return
		}
		c.JSON(http.StatusOK, account) // Return wallet
	}
}

// GetTransactionHistoryHandler returns the caller's ledger entries, most recent first
func GetTransactionHistoryHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUser(c) // Authenticated caller
		history, err := svc.History(c.Request.Context(), userID, pageFromQuery(c))
		if err != nil {
			respondError(c, err, "Wallet")
			return
		}
		c.JSON(http.StatusOK, history) // Return one page of entries
	}
}

// DepositHandler credits the caller's wallet with simulated external funds
func DepositHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUser(c) // Authenticated caller
		var req DepositRequest      // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		entry, err := svc.Deposit(c.Request.Context(), userID, req.Amount)
		if err != nil {
			respondError(c, err, "Wallet")
			return
		}
		invalidateReadModels(c, rdb, false) // Balances changed
		c.JSON(http.StatusCreated, gin.H{
			"entry":   entry,              // Ledger entry written
			"balance": entry.BalanceAfter, // New balance
		})
	}
}

// RedeemHandler redeems a code typed into the wallet form
func RedeemHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RedeemRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		redeem(c, svc, rdb, req.Code, ledger.ChannelManual)
	}
}

// RedeemScannedHandler redeems a code read from a scanned QR image
func RedeemScannedHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		redeem(c, svc, rdb, c.Param("code"), ledger.ChannelScan)
	}
}

func redeem(c *gin.Context, svc *ledger.Service, rdb *redis.Client, code string, channel ledger.Channel) {
	userID, _ := currentUser(c) // Authenticated caller
	result, err := svc.Redeem(c.Request.Context(), code, userID, channel)
	if err != nil {
		respondError(c, err, "Voucher")
		return
	}
	invalidateReadModels(c, rdb, true) // Voucher state and balances changed
	c.JSON(http.StatusOK, result)      // Return redemption outcome
}

// SubmitWithdrawalHandler files a pending withdrawal for admin review
func SubmitWithdrawalHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUser(c) // Authenticated caller
		var req WithdrawalRequest   // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		bank := domain.BankDetails{BankName: req.BankName, AccountNumber: req.AccountNumber}
		created, err := svc.SubmitWithdrawal(c.Request.Context(), userID, req.Amount, bank)
		if err != nil {
			respondError(c, err, "Wallet")
			return
		}
		invalidateReadModels(c, rdb, false) // Pending count changed
		c.JSON(http.StatusCreated, created) // Return the pending request
	}
}

// ListMyWithdrawalsHandler lists the caller's own withdrawal requests
func ListMyWithdrawalsHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUser(c) // Authenticated caller
		requests, err := svc.OwnerWithdrawals(c.Request.Context(), userID, pageFromQuery(c))
		if err != nil {
			respondError(c, err, "Wallet")
			return
		}
		c.JSON(http.StatusOK, requests) // Return one page of requests
	}
}
