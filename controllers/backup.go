package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mfgledger/config"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/settlement"
	"mfgledger/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type backupFile struct {
	Timestamp string           `json:"timestamp"`
	Company   store.Document   `json:"company"`
	Agents    []store.Document `json:"agents"`
	Orders    []store.Document `json:"orders"`
	Status    []store.Document `json:"status"`
}

// Backup exports every collection the ledger is built from.
func (ctl *Controller) Backup(c *gin.Context) {
	ctx := c.Request.Context()
	out := backupFile{Timestamp: ctl.now().UTC().Format(time.RFC3339)}

	company, err := ctl.Store.Get(ctx, config.CompanyCollection, config.CompanyDocID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		company = ledger.CompanyDocument(ctl.Ledger.Company())
	case err != nil:
		storeError(c, err)
		return
	}
	delete(company, store.IDField)
	out.Company = company

	for _, part := range []struct {
		collection string
		dst        *[]store.Document
	}{
		{config.AgentCollection, &out.Agents},
		{config.OrderCollection, &out.Orders},
		{config.MonthlyStatusCollection, &out.Status},
	} {
		docs, err := ctl.Store.GetAll(ctx, part.collection)
		if err != nil {
			storeError(c, err)
			return
		}
		*part.dst = docs
	}

	c.Header("Content-Disposition", `attachment; filename="MFG_BACKUP.json"`)
	c.JSON(http.StatusOK, out)
}

// Restore writes a backup over the current data. Documents keep their ids; a
// document without one gets a fresh id, except settlement flags, whose id follows
// from their month and partner.
func (ctl *Controller) Restore(c *gin.Context) {
	var in backupFile
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error restore"})
		return
	}
	ctx := c.Request.Context()

	if in.Company != nil {
		if err := ctl.Store.Set(ctx, config.CompanyCollection, config.CompanyDocID, in.Company); err != nil {
			storeError(c, err)
			return
		}
	}
	counts := gin.H{}
	for collection, docs := range map[string][]store.Document{
		config.AgentCollection:         in.Agents,
		config.OrderCollection:         in.Orders,
		config.MonthlyStatusCollection: in.Status,
	} {
		for _, d := range docs {
			if err := ctl.restoreOne(ctx, collection, d); err != nil {
				storeError(c, err)
				return
			}
		}
		counts[collection] = len(docs)
	}

	logger.Log().WithFields(logrus.Fields(counts)).Info("backup restored")
	c.JSON(http.StatusOK, gin.H{"message": "Restored", "counts": counts})
}

func (ctl *Controller) restoreOne(ctx context.Context, collection string, d store.Document) error {
	id := d.ID()
	if id == "" && collection == config.MonthlyStatusCollection {
		month, _ := d["monthKey"].(string)
		agent, _ := d["agentId"].(string)
		if month != "" && agent != "" {
			id = settlement.DocID(month, agent)
		}
	}
	if id == "" {
		_, err := ctl.Store.Create(ctx, collection, d)
		return err
	}
	return ctl.Store.Set(ctx, collection, id, d)
}
