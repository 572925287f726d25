package controllers

import (
	"net/http"
	"strings"

	"mfgledger/config"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/models"
	"mfgledger/utils"

	"github.com/gin-gonic/gin"
)

// PublicCompany is the invoice header without the admin pin.
func (ctl *Controller) PublicCompany(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Ledger.Company().Public())
}

// GetCompany is the settings form. The stored pin is a bcrypt hash and is never sent back.
func (ctl *Controller) GetCompany(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Ledger.Company().Public())
}

// UpdateCompany replaces the company settings. An empty adminPin keeps the current one;
// a new pin is stored hashed.
func (ctl *Controller) UpdateCompany(c *gin.Context) {
	var input models.Company
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if pin := strings.TrimSpace(input.AdminPin); pin == "" {
		input.AdminPin = ctl.Ledger.Company().AdminPin
	} else {
		hashed, err := utils.HashPassword(pin)
		if err != nil {
			logger.Log().WithError(err).Error("hashing admin pin failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		input.AdminPin = hashed
	}
	if input.Banks == nil {
		input.Banks = []models.Bank{}
	}

	if err := ctl.Store.Set(c.Request.Context(), config.CompanyCollection, config.CompanyDocID, ledger.CompanyDocument(input)); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, input.Public())
}
