package controllers

import (
	"errors"
	"net/http"
	"strings"

	"mfgledger/config"
	"mfgledger/credential"
	"mfgledger/logger"
	"mfgledger/middleware"
	"mfgledger/models"
	"mfgledger/store"
	"mfgledger/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type loginInput struct {
	Code string `json:"code"`
	Role string `json:"role" binding:"required,oneof=admin agent partner"`
}

// Login resolves a code to the admin or a partner and issues a token. Every failure
// gets the same answer.
func (ctl *Controller) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := input.Role
	if role == "partner" {
		role = models.RoleAgent
	}

	identity, err := ctl.Resolver.Resolve(c.Request.Context(), input.Code, role, ctl.Ledger.Agents(), ctl.Ledger.Company().AdminPin)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(role, "failed").Inc()
		fields := logrus.Fields{"role": role, "ip": getClientIP(c)}
		var ce *credential.Error
		if errors.As(err, &ce) {
			fields["kind"] = ce.Kind
		}
		logger.Log().WithFields(fields).Info("login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login failed"})
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues(role, "ok").Inc()

	token, err := utils.GenerateToken(identity.ID, identity.Role, identity.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while generating token"})
		return
	}

	session := models.Session{
		UserID:    identity.ID,
		Role:      identity.Role,
		IP:        getClientIP(c),
		Device:    c.Request.UserAgent(),
		Timestamp: ctl.now(),
	}
	_, err = ctl.Store.Create(c.Request.Context(), config.SessionCollection, store.Document{
		"userId":    session.UserID,
		"role":      session.Role,
		"ip":        session.IP,
		"device":    session.Device,
		"timestamp": session.Timestamp,
	})
	if err != nil {
		logger.WithCollection(config.SessionCollection).WithError(err).Error("recording session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recording session"})
		return
	}

	c.SetCookie("token", token, 3600*24, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"id":    identity.ID,
		"role":  identity.Role,
		"name":  identity.Name,
		"agent": identity.Agent,
	})
}

// Me returns the identity carried by the token.
func (ctl *Controller) Me(c *gin.Context) {
	id := c.GetString(middleware.UserIDKey)
	if c.GetString(middleware.RoleKey) == models.RoleAdmin {
		c.JSON(http.StatusOK, models.AdminIdentity())
		return
	}
	agent, ok := ctl.Ledger.Agent(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
		return
	}
	c.JSON(http.StatusOK, models.AgentIdentity(agent))
}

func getClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.ClientIP()
}
