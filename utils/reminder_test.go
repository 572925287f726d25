package utils

import (
	"context"
	"testing"
	"time"

	"mfgledger/config"
	"mfgledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatusReader struct {
	mock.Mock
}

func (m *MockStatusReader) Status(ctx context.Context, monthKey, agentID string) (models.SettlementStatus, error) {
	args := m.Called(ctx, monthKey, agentID)
	return args.Get(0).(models.SettlementStatus), args.Error(1)
}

type fixedLedger struct {
	orders []models.Order
	agents []models.Agent
}

func (l fixedLedger) Orders() []models.Order { return l.orders }
func (l fixedLedger) Agents() []models.Agent { return l.agents }

var (
	reminderAgents = []models.Agent{
		{ID: "a1", Name: "Mitra A"},
		{ID: "a2", Name: "Mitra B"},
		{ID: "a3", Name: "Mitra C"},
	}
	reminderOrders = []models.Order{
		{ID: "o1", AgentID: "a1", MonthKey: "2024-02", TotalPayment: 60000},
		{ID: "o2", AgentID: "a1", MonthKey: "2024-02", TotalPayment: 40000},
		{ID: "o3", AgentID: "a2", MonthKey: "2024-02", TotalPayment: 10000},
		{ID: "o4", AgentID: "a3", MonthKey: "2024-03", TotalPayment: 5000},
	}
)

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, "2024-02", PreviousMonth(time.Date(2024, 3, 1, 1, 1, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12", PreviousMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
}

func TestUnsettledBills(t *testing.T) {
	statuses := new(MockStatusReader)
	statuses.On("Status", mock.Anything, "2024-02", "a1").Return(models.StatusUnsettled, nil)
	statuses.On("Status", mock.Anything, "2024-02", "a2").Return(models.StatusSettled, nil)

	bills, err := UnsettledBills(context.Background(), reminderOrders, reminderAgents, "2024-02", statuses)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "a1", bills[0].AgentID)
	assert.Equal(t, 2, bills[0].Stats.Count)
	assert.Equal(t, 100000.0, bills[0].Stats.TotalPayment)

	statuses.AssertExpectations(t)
	statuses.AssertNotCalled(t, "Status", mock.Anything, "2024-02", "a3")
}

func TestBillingReminderSendsEmail(t *testing.T) {
	statuses := new(MockStatusReader)
	statuses.On("Status", mock.Anything, "2024-02", mock.Anything).Return(models.StatusUnsettled, nil)

	var subject, body string
	r := &BillingReminder{
		Ledger:   fixedLedger{orders: reminderOrders, agents: reminderAgents},
		Statuses: statuses,
		SMTP:     config.SMTPConfig{Host: "smtp.example.com", Port: 465, To: "owner@example.com"},
		Now:      func() time.Time { return time.Date(2024, 3, 1, 1, 1, 0, 0, time.UTC) },
		Send: func(_ config.SMTPConfig, s, b string) error {
			subject, body = s, b
			return nil
		},
	}
	r.Run()

	assert.Equal(t, "Tagihan belum lunas 2024-02", subject)
	assert.Contains(t, body, "1. Mitra A: 2 order, total Rp 100000")
	assert.Contains(t, body, "2. Mitra B: 1 order, total Rp 10000")
}

func TestBillingReminderWithoutSMTP(t *testing.T) {
	statuses := new(MockStatusReader)
	statuses.On("Status", mock.Anything, mock.Anything, mock.Anything).Return(models.StatusUnsettled, nil)

	sent := false
	r := &BillingReminder{
		Ledger:   fixedLedger{orders: reminderOrders, agents: reminderAgents},
		Statuses: statuses,
		Now:      func() time.Time { return time.Date(2024, 3, 1, 1, 1, 0, 0, time.UTC) },
		Send: func(config.SMTPConfig, string, string) error {
			sent = true
			return nil
		},
	}
	r.Run()
	assert.False(t, sent)
}
