package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"voucher_wallet/internal/domain" // Importing domain models
	"voucher_wallet/internal/ledger" // Wallet ledger service
	"voucher_wallet/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
)

// CreateVoucherRequest represents a voucher to mint
type CreateVoucherRequest struct {
	FaceValue decimal.Decimal `json:"face_value" binding:"money"` // Amount credited on redemption
}

// CreateVoucherHandler mints a voucher issued by the caller
func CreateVoucherHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUser(c)  // Authenticated merchant or admin
		var req CreateVoucherRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		voucher, err := svc.CreateVoucher(c.Request.Context(), userID, req.FaceValue)
		if err != nil {
			respondError(c, err, "Voucher")
			return
		}
		invalidateReadModels(c, rdb, true)  // Voucher counts changed
		c.JSON(http.StatusCreated, voucher) // Return the new voucher
	}
}

// ListVouchersHandler lists vouchers. Merchants see their own; admins see all
// or one issuer with ?issuer_id. Unfiltered pages are cached.
func ListVouchersHandler(svc *ledger.Service, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role := currentUser(c) // Authenticated merchant or admin
		var filter ledger.VoucherFilter
		if role != domain.RoleAdmin {
			filter.IssuerID = &userID // Merchants only see what they issued
		} else if raw := c.Query("issuer_id"); raw != "" {
			issuer, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issuer_id"})
				return
			}
			id := uint(issuer)
			filter.IssuerID = &id
		}
		if raw := c.Query("redeemed"); raw != "" {
			redeemed, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid redeemed"})
				return
			}
			filter.Redeemed = &redeemed
		}

		ctx := c.Request.Context()
		page := pageFromQuery(c)
		cacheKey := ""
		if filter.Redeemed == nil {
			var issuer uint // 0 stands for every issuer
			if filter.IssuerID != nil {
				issuer = *filter.IssuerID
			}
			cacheKey = utils.VoucherListKey(issuer, page.Number, page.Size)
			var cached ledger.Paged[domain.Voucher]
			// If cached data found, return it
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		vouchers, err := svc.ListVouchers(ctx, filter, page)
		if err != nil {
			respondError(c, err, "Voucher")
			return
		}
		if cacheKey != "" {
			_ = utils.SetCache(ctx, rdb, cacheKey, vouchers, ttl) // Best effort, served from DB next time
		}
		c.JSON(http.StatusOK, vouchers) // Return one page of vouchers
	}
}

// GetVoucherHandler shows one voucher. Merchants may only see their own.
func GetVoucherHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role := currentUser(c) // Authenticated merchant or admin
		voucher, err := svc.LookupVoucher(c.Request.Context(), c.Param("code"))
		if err == nil && role != domain.RoleAdmin && voucher.IssuerID != userID {
			err = domain.ErrNotFound // Do not reveal other merchants' codes
		}
		if err != nil {
			respondError(c, err, "Voucher")
			return
		}
		c.JSON(http.StatusOK, voucher) // Return voucher
	}
}
