package api

import (
	"context"  // Review function signature
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"voucher_wallet/internal/domain" // Importing domain models
	"voucher_wallet/internal/ledger" // Wallet ledger service
	"voucher_wallet/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// StatsHandler returns the admin dashboard summary, cached for ttl
func StatsHandler(svc *ledger.Service, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached ledger.Stats
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, utils.StatsCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"stats":  cached, // Cached summary
				"cached": true,   // Indicate response is from cache
			})
			return
		}
		stats, err := svc.Stats(ctx)
		if err != nil {
			respondError(c, err, "Stats")
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.StatsCacheKey, stats, ttl) // Cache the result
		c.JSON(http.StatusOK, gin.H{
			"stats":  stats, // Fresh summary
			"cached": false, // Indicate response is from the database
		})
	}
}

// ListWithdrawalsHandler is the review queue, optionally filtered by ?status
func ListWithdrawalsHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := ledger.WithdrawalFilter{Status: domain.WithdrawalStatus(c.Query("status"))}
		switch filter.Status {
		case "", domain.WithdrawalPending, domain.WithdrawalApproved, domain.WithdrawalRejected:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		requests, err := svc.ListWithdrawals(c.Request.Context(), filter, pageFromQuery(c))
		if err != nil {
			respondError(c, err, "Withdrawal request")
			return
		}
		c.JSON(http.StatusOK, requests) // Return one page of requests
	}
}

// ApproveWithdrawalHandler debits the wallet and approves the request
func ApproveWithdrawalHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return reviewHandler(svc.ApproveWithdrawal, rdb)
}

// RejectWithdrawalHandler rejects the request without moving money
func RejectWithdrawalHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return reviewHandler(svc.RejectWithdrawal, rdb)
}

// reviewHandler runs an approve or reject decision on behalf of the calling admin
func reviewHandler(decide func(context.Context, uint, uint) (ledger.Review, error), rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := idParam(c, "id") // Withdrawal request id
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid withdrawal request id"})
			return
		}
		reviewerID, _ := currentUser(c) // Authenticated admin
		review, err := decide(c.Request.Context(), requestID, reviewerID)
		if err != nil {
			respondError(c, err, "Withdrawal request")
			return
		}
		if review.Changed {
			invalidateReadModels(c, rdb, false) // Balances or pending count changed
		}
		c.JSON(http.StatusOK, review) // Return the request and whether it changed
	}
}
