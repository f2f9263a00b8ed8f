package api

import (
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"voucher_wallet/internal/utils" // Cache helpers
)

// invalidateReadModels drops cached stats and, when vouchers changed, cached voucher listings.
// Cache failures are logged and never fail the request; entries expire on their own.
func invalidateReadModels(c *gin.Context, rdb *redis.Client, vouchersChanged bool) {
	ctx := c.Request.Context()
	if err := utils.DeleteCache(ctx, rdb, utils.StatsCacheKey); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate stats cache")
	}
	if !vouchersChanged {
		return
	}
	if err := utils.InvalidateVoucherLists(ctx, rdb); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate voucher list cache")
	}
}
