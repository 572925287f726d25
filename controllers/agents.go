package controllers

import (
	"net/http"
	"strings"

	"mfgledger/config"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/models"
	"mfgledger/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (ctl *Controller) ListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Ledger.Agents())
}

// CreateAgent adds a partner. Codes are login credentials, so a code already used by
// another partner is refused.
func (ctl *Controller) CreateAgent(c *gin.Context) {
	input, ok := bindAgent(c)
	if !ok {
		return
	}
	if other, taken := ledger.FindByCode(ctl.Ledger.Agents(), input.Code); taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Kode sudah dipakai", "agentId": other.ID})
		return
	}

	id, err := ctl.Store.Create(c.Request.Context(), config.AgentCollection, store.Document{
		"name":      input.Name,
		"code":      input.Code,
		"createdAt": ctl.now(),
	})
	if err != nil {
		storeError(c, err)
		return
	}
	logger.WithCollection(config.AgentCollection).WithFields(logrus.Fields{"agent_id": id}).Info("partner created")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (ctl *Controller) UpdateAgent(c *gin.Context) {
	id := c.Param("id")
	input, ok := bindAgent(c)
	if !ok {
		return
	}
	if other, taken := ledger.FindByCode(ctl.Ledger.Agents(), input.Code); taken && other.ID != id {
		c.JSON(http.StatusConflict, gin.H{"error": "Kode sudah dipakai", "agentId": other.ID})
		return
	}

	err := ctl.Store.Update(c.Request.Context(), config.AgentCollection, id, store.Document{
		"name": input.Name,
		"code": input.Code,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (ctl *Controller) DeleteAgent(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Store.Delete(c.Request.Context(), config.AgentCollection, id); err != nil {
		storeError(c, err)
		return
	}
	logger.WithCollection(config.AgentCollection).WithFields(logrus.Fields{"agent_id": id}).Info("partner deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted"})
}

func bindAgent(c *gin.Context) (models.AgentInput, bool) {
	var input models.AgentInput
	err := c.ShouldBindJSON(&input)
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.TrimSpace(input.Code)
	if err != nil || input.Name == "" || input.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Isi semua!"})
		return input, false
	}
	return input, true
}
