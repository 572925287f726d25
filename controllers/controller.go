package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mfgledger/config"
	"mfgledger/credential"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/middleware"
	"mfgledger/models"
	"mfgledger/settlement"
	"mfgledger/store"

	"github.com/gin-gonic/gin"
)

// Controller holds what the HTTP handlers share. Reads come from the ledger
// repository, writes go to the store and come back through its subscriptions.
type Controller struct {
	Store    store.Store
	Ledger   *ledger.Repository
	Tracker  *settlement.Tracker
	Resolver *credential.Resolver
	Config   *config.Configuration

	now func() time.Time
}

func New(s store.Store, repo *ledger.Repository, cfg *config.Configuration) *Controller {
	return &Controller{
		Store:    s,
		Ledger:   repo,
		Tracker:  settlement.NewTracker(s, repo),
		Resolver: credential.NewResolver(credential.StoreDirectory{Store: s}, cfg.LoginRemoteTimeout, cfg.AdminPin),
		Config:   cfg,
		now:      time.Now,
	}
}

func (ctl *Controller) today() time.Time {
	return ctl.now().In(ctl.Config.Location())
}

func (ctl *Controller) pageSize() int {
	if ctl.Config.ReportPageSize > 0 {
		return ctl.Config.ReportPageSize
	}
	return ledger.DefaultPageSize
}

// scopeAgent is the partner a request is about. A partner only ever sees itself; the
// admin picks one with ?agent= or gets every partner.
func scopeAgent(c *gin.Context) string {
	if c.GetString(middleware.RoleKey) == models.RoleAgent {
		return c.GetString(middleware.UserIDKey)
	}
	if agent := strings.TrimSpace(c.Query("agent")); agent != "" {
		return agent
	}
	return models.AllAgents
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.RoleKey) == models.RoleAdmin
}

// storeError answers a failed store operation. Details only go to the log.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	entry := logger.Log().WithError(err)
	var pe *store.PersistenceError
	if errors.As(err, &pe) {
		entry = entry.WithField("collection", pe.Collection).WithField("op", pe.Op)
	}
	entry.Error("store operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
}
