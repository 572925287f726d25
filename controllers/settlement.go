package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mfgledger/logger"
	"mfgledger/middleware"
	"mfgledger/settlement"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (ctl *Controller) GetStatus(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}
	agentID := scopeAgent(c)
	status, err := ctl.Tracker.Status(c.Request.Context(), month, agentID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "agentId": agentID, "status": status})
}

type toggleInput struct {
	Month   string `json:"month" binding:"required,datetime=2006-01"`
	AgentID string `json:"agentId" binding:"required"`
}

// ToggleStatus flips the settlement flag of one month and partner.
func (ctl *Controller) ToggleStatus(c *gin.Context) {
	var input toggleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := ctl.Tracker.Toggle(c.Request.Context(), c.GetString(middleware.RoleKey), input.Month, strings.TrimSpace(input.AgentID))
	switch {
	case errors.Is(err, settlement.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, settlement.ErrAllScope):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		storeError(c, err)
		return
	}

	middleware.SettlementTogglesTotal.WithLabelValues(string(status)).Inc()
	logger.Log().WithFields(logrus.Fields{
		"month":    input.Month,
		"agent_id": input.AgentID,
		"status":   status,
	}).Info("settlement status changed")
	c.JSON(http.StatusOK, gin.H{"month": input.Month, "agentId": input.AgentID, "status": status})
}
