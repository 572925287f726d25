package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mfgledger/ledger"
	"mfgledger/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// Folders returns the twelve month folders of a year for the requested scope.
// outsideYear counts in-scope orders that fall in another year and so have no folder.
func (ctl *Controller) Folders(c *gin.Context) {
	year := ctl.today().Year()
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		y, err := cast.ToIntE(raw)
		if err != nil || y < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = y
	}

	agentID := scopeAgent(c)
	orders := ledger.FilterByAgent(ctl.Ledger.Orders(), agentID)
	folders := ledger.AggregateFolders(orders, year)
	for i := range folders {
		status, err := ctl.Tracker.Status(c.Request.Context(), folders[i].Key, agentID)
		if err != nil {
			storeError(c, err)
			return
		}
		folders[i].Status = status
	}

	c.JSON(http.StatusOK, gin.H{
		"year":        year,
		"agentId":     agentID,
		"folders":     folders,
		"outsideYear": ledger.CountOutsideYear(orders, year),
	})
}

// Dashboard is the live summary of the current month.
func (ctl *Controller) Dashboard(c *gin.Context) {
	now := ctl.today()
	agentID := scopeAgent(c)
	orders := ledger.FilterByAgent(ctl.Ledger.Orders(), agentID)
	c.JSON(http.StatusOK, gin.H{
		"month":   ledger.MonthKeyOf(now),
		"agentId": agentID,
		"stats":   ledger.CurrentMonthStats(orders, now),
	})
}

type reportItem struct {
	No int `json:"no"`
	models.Order
}

type reportPage struct {
	Page  int          `json:"page"`
	Items []reportItem `json:"items"`
}

type monthlyReport struct {
	Company   models.Company          `json:"company"`
	Month     string                  `json:"month"`
	AgentID   string                  `json:"agentId"`
	AgentName string                  `json:"agentName"`
	Status    models.SettlementStatus `json:"status"`
	Stats     models.Stats            `json:"stats"`
	Pages     []reportPage            `json:"pages"`
}

// Report builds the printable monthly invoice for one scope.
func (ctl *Controller) Report(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	report, err := ctl.buildReport(c.Request.Context(), month, scopeAgent(c))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ctl *Controller) buildReport(ctx context.Context, month, agentID string) (monthlyReport, error) {
	orders := ledger.FilterByMonth(ledger.FilterByAgent(ctl.Ledger.Orders(), agentID), month)

	status, err := ctl.Tracker.Status(ctx, month, agentID)
	if err != nil {
		return monthlyReport{}, err
	}

	name := "Semua Mitra"
	if agentID != models.AllAgents {
		name = agentID
		if a, ok := ctl.Ledger.Agent(agentID); ok {
			name = a.Name
		}
	}

	size := ctl.pageSize()
	chunks := ledger.Paginate(orders, size)
	pages := make([]reportPage, 0, len(chunks))
	for k, chunk := range chunks {
		items := make([]reportItem, 0, len(chunk))
		for i, o := range chunk {
			items = append(items, reportItem{No: ledger.GlobalIndex(k, i, size) + 1, Order: o})
		}
		pages = append(pages, reportPage{Page: k + 1, Items: items})
	}

	return monthlyReport{
		Company:   ctl.Ledger.Company().Public(),
		Month:     month,
		AgentID:   agentID,
		AgentName: name,
		Status:    status,
		Stats:     ledger.StatsOf(orders),
		Pages:     pages,
	}, nil
}
