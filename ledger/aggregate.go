package ledger

import (
	"fmt"
	"time"

	"mfgledger/models"

	"github.com/shopspring/decimal"
)

// FilterByAgent keeps the orders of one agent. The "all" scope and an empty id
// keep everything.
func FilterByAgent(orders []models.Order, agentID string) []models.Order {
	if agentID == "" || agentID == models.AllAgents {
		return orders
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.AgentID == agentID {
			out = append(out, o)
		}
	}
	return out
}

func FilterByMonth(orders []models.Order, monthKey string) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.MonthKey == monthKey {
			out = append(out, o)
		}
	}
	return out
}

func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// AggregateFolders returns one folder per calendar month of year, January first.
// Months without orders have zero stats; orders from other years are not counted.
func AggregateFolders(orders []models.Order, year int) []models.MonthlyFolder {
	sums := make(map[string]*accumulator, 12)
	folders := make([]models.MonthlyFolder, 12)
	for i := range folders {
		key := MonthKey(year, i+1)
		folders[i].Key = key
		sums[key] = &accumulator{}
	}

	for _, o := range orders {
		if acc, ok := sums[o.MonthKey]; ok {
			acc.add(o)
		}
	}

	for i := range folders {
		folders[i].Stats = sums[folders[i].Key].stats()
	}
	return folders
}

// CountOutsideYear reports how many orders have no folder in year's view.
func CountOutsideYear(orders []models.Order, year int) int {
	prefix := fmt.Sprintf("%04d-", year)
	n := 0
	for _, o := range orders {
		if len(o.MonthKey) < len(prefix) || o.MonthKey[:len(prefix)] != prefix {
			n++
		}
	}
	return n
}

// CurrentMonthStats totals the orders of the month now falls in.
func CurrentMonthStats(orders []models.Order, now time.Time) models.Stats {
	return StatsOf(FilterByMonth(orders, MonthKeyOf(now)))
}

func StatsOf(orders []models.Order) models.Stats {
	acc := &accumulator{}
	for _, o := range orders {
		acc.add(o)
	}
	return acc.stats()
}

type accumulator struct {
	count int

	price, fee, shipping, totalPayment decimal.Decimal
}

func (a *accumulator) add(o models.Order) {
	a.count++
	a.price = a.price.Add(decimal.NewFromFloat(o.Price))
	a.fee = a.fee.Add(decimal.NewFromFloat(o.Fee))
	a.shipping = a.shipping.Add(decimal.NewFromFloat(o.Shipping))
	a.totalPayment = a.totalPayment.Add(decimal.NewFromFloat(o.TotalPayment))
}

func (a *accumulator) stats() models.Stats {
	return models.Stats{
		Count:        a.count,
		TotalHarga:   a.price.InexactFloat64(),
		TotalFee:     a.fee.InexactFloat64(),
		TotalOngkir:  a.shipping.InexactFloat64(),
		TotalPayment: a.totalPayment.InexactFloat64(),
	}
}
