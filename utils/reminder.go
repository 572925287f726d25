package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mfgledger/config"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/models"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// UnsettledBill is one partner that still owes for a month.
type UnsettledBill struct {
	AgentID   string       `json:"agentId"`
	AgentName string       `json:"agentName"`
	Month     string       `json:"month"`
	Stats     models.Stats `json:"stats"`
}

type StatusReader interface {
	Status(ctx context.Context, monthKey, agentID string) (models.SettlementStatus, error)
}

// LedgerSource is the read side of the ledger the reminder works on.
type LedgerSource interface {
	Orders() []models.Order
	Agents() []models.Agent
}

// PreviousMonth returns the month key of the calendar month before now.
func PreviousMonth(now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return ledger.MonthKeyOf(first.AddDate(0, 0, -1))
}

// UnsettledBills lists the partners with orders in month whose flag is not settled.
func UnsettledBills(ctx context.Context, orders []models.Order, agents []models.Agent, month string, statuses StatusReader) ([]UnsettledBill, error) {
	inMonth := ledger.FilterByMonth(orders, month)
	var bills []UnsettledBill
	for _, a := range agents {
		stats := ledger.StatsOf(ledger.FilterByAgent(inMonth, a.ID))
		if stats.Count == 0 {
			continue
		}
		status, err := statuses.Status(ctx, month, a.ID)
		if err != nil {
			return nil, fmt.Errorf("status of %s/%s: %w", month, a.ID, err)
		}
		if status == models.StatusSettled {
			continue
		}
		bills = append(bills, UnsettledBill{AgentID: a.ID, AgentName: a.Name, Month: month, Stats: stats})
	}
	return bills, nil
}

// BillingReminder reports last month's unsettled partners once a month.
type BillingReminder struct {
	Ledger   LedgerSource
	Statuses StatusReader
	SMTP     config.SMTPConfig
	Now      func() time.Time
	Send     func(cfg config.SMTPConfig, subject, body string) error
}

func (r *BillingReminder) Run() {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	month := PreviousMonth(now())
	log := logger.Log().WithFields(logrus.Fields{"month": month})
	log.Info("checking unsettled billing")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bills, err := UnsettledBills(ctx, r.Ledger.Orders(), r.Ledger.Agents(), month, r.Statuses)
	if err != nil {
		log.WithError(err).Error("unsettled billing check failed")
		return
	}
	if len(bills) == 0 {
		log.Info("every partner is settled")
		return
	}
	for _, b := range bills {
		log.WithFields(logrus.Fields{
			"agent_id":      b.AgentID,
			"count":         b.Stats.Count,
			"total_payment": b.Stats.TotalPayment,
		}).Warn("partner has not settled")
	}

	if !r.SMTP.Enabled() {
		return
	}
	send := SendEmail
	if r.Send != nil {
		send = r.Send
	}
	if err := send(r.SMTP, "Tagihan belum lunas "+month, ReminderBody(month, bills)); err != nil {
		log.WithError(err).Error("sending reminder email failed")
	}
}

func ReminderBody(month string, bills []UnsettledBill) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tagihan bulan %s yang belum lunas:\n\n", month)
	for i, b := range bills {
		fmt.Fprintf(&sb, "%d. %s: %d order, total Rp %.0f\n", i+1, b.AgentName, b.Stats.Count, b.Stats.TotalPayment)
	}
	return sb.String()
}

// StartReminderScheduler runs the reminder on the 1st of every month at 01:01.
func StartReminderScheduler(loc *time.Location, r *BillingReminder) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	if _, err := s.Every(1).Month(1).At("01:01").Do(r.Run); err != nil {
		return nil, fmt.Errorf("failed to schedule billing reminder: %w", err)
	}
	s.StartAsync()
	return s, nil
}
