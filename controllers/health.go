package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports whether the ledger has received its first agents snapshot. Until
// then logins can only be resolved through the remote lookup.
func (ctl *Controller) Health(c *gin.Context) {
	if !ctl.Ledger.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "orders": len(ctl.Ledger.Orders())})
}
