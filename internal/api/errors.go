package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"voucher_wallet/internal/domain" // Domain errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// respondError maps a ledger error onto an HTTP status and message.
// notFound names the missing resource in the 404 message.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound + " not found"})
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": "Voucher already redeemed"})
	case errors.Is(err, domain.ErrRequestClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Withdrawal request already closed"})
	case errors.Is(err, domain.ErrStorageConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent update, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
