package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mfgledger/config"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/middleware"
	"mfgledger/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ListOrders returns the in-scope ledger, newest first, optionally for one month.
func (ctl *Controller) ListOrders(c *gin.Context) {
	orders := ledger.FilterByAgent(ctl.Ledger.Orders(), scopeAgent(c))
	if month := strings.TrimSpace(c.Query("month")); month != "" {
		orders = ledger.FilterByMonth(orders, month)
	}
	c.JSON(http.StatusOK, orders)
}

func (ctl *Controller) GetOrder(c *gin.Context) {
	order, ok := ctl.Ledger.Order(c.Param("id"))
	if !ok || !ctl.canSee(c, order) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ctl *Controller) CreateOrder(c *gin.Context) {
	input, ok := bindOrder(c)
	if !ok {
		return
	}

	id, err := ctl.Store.Create(c.Request.Context(), config.OrderCollection, ledger.OrderDocument(input, ctl.now()))
	if err != nil {
		storeError(c, err)
		return
	}
	logger.WithCollection(config.OrderCollection).WithFields(logrus.Fields{
		"order_id": id,
		"agent_id": input.AgentID,
	}).Info("order created")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateOrder rewrites the form fields of an order. The id and createdAt stay.
func (ctl *Controller) UpdateOrder(c *gin.Context) {
	id := c.Param("id")
	input, ok := bindOrder(c)
	if !ok {
		return
	}

	if !isAdmin(c) {
		current, err := ctl.Store.Get(c.Request.Context(), config.OrderCollection, id)
		if err != nil {
			storeError(c, err)
			return
		}
		// the agent id is readable even when the stored date is not
		existing, _ := ledger.NormalizeOrder(current)
		if existing.AgentID != input.AgentID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
	}

	if err := ctl.Store.Update(c.Request.Context(), config.OrderCollection, id, ledger.OrderDocument(input, time.Time{})); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (ctl *Controller) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Store.Delete(c.Request.Context(), config.OrderCollection, id); err != nil {
		storeError(c, err)
		return
	}
	logger.WithCollection(config.OrderCollection).WithField("order_id", id).Info("order deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// bindOrder reads and validates the order form. A partner can only write orders for
// itself, whatever agentId the form carries.
func bindOrder(c *gin.Context) (models.OrderInput, bool) {
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return input, false
		}
	}
	if c.GetString(middleware.RoleKey) == models.RoleAgent {
		input.AgentID = c.GetString(middleware.UserIDKey)
	}

	if err := ledger.ValidateOrderInput(input); err != nil {
		var ve *ledger.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data tidak lengkap", "fields": ve.Fields})
			return input, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return input, false
	}
	return input, true
}

func (ctl *Controller) canSee(c *gin.Context, o models.Order) bool {
	return isAdmin(c) || o.AgentID == c.GetString(middleware.UserIDKey)
}
