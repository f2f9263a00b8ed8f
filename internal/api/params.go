package api

import (
	"strconv" // String conversion

	"voucher_wallet/internal/domain"     // Roles
	"voucher_wallet/internal/ledger"     // Pagination
	"voucher_wallet/internal/middleware" // Context keys

	"github.com/gin-gonic/gin" // Gin web framework
)

// currentUser returns the authenticated caller set by the JWT middleware
func currentUser(c *gin.Context) (uint, domain.Role) {
	role, _ := c.MustGet(middleware.RoleKey).(domain.Role)
	return c.GetUint(middleware.UserIDKey), role
}

// pageFromQuery reads page and page_size, leaving invalid values to the ledger defaults
func pageFromQuery(c *gin.Context) ledger.Page {
	var page ledger.Page
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		page.Number = p // Set page if numeric
	}
	if ps, err := strconv.Atoi(c.Query("page_size")); err == nil {
		page.Size = ps // Set page size if numeric
	}
	return page
}

// idParam parses a positive numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
