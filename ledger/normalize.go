// Package ledger turns raw store documents into the order ledger and derives
// the monthly billing views from it.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"mfgledger/models"
	"mfgledger/store"

	"github.com/spf13/cast"
)

// ErrMalformedRecord marks a stored order that cannot be part of the ledger.
// It is logged and the record dropped, never shown to a user.
var ErrMalformedRecord = errors.New("malformed record")

// agent documents have been written with several spellings of the code field
var codeKeys = []string{"code", "Code", "kode", "Kode", "KODE"}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006-01",
}

// NormalizeAgent maps a stored agent document to an Agent. Code is empty when
// no spelling of the code field carries a value.
func NormalizeAgent(doc store.Document) models.Agent {
	a := models.Agent{
		ID:        doc.ID(),
		Name:      str(doc["name"]),
		CreatedAt: timeOf(doc["createdAt"]),
	}
	for _, k := range codeKeys {
		if c := strings.TrimSpace(str(doc[k])); c != "" {
			a.Code = c
			return a
		}
	}
	for k, v := range doc {
		if strings.EqualFold(k, "code") || strings.EqualFold(k, "kode") {
			if c := strings.TrimSpace(str(v)); c != "" {
				a.Code = c
				return a
			}
		}
	}
	return a
}

func NormalizeAgents(docs []store.Document) []models.Agent {
	out := make([]models.Agent, 0, len(docs))
	for _, d := range docs {
		out = append(out, NormalizeAgent(d))
	}
	return out
}

// NormalizeOrder maps a stored order document to an Order. Amounts are coerced to
// non-negative numbers; an order whose date does not parse is rejected with
// ErrMalformedRecord.
func NormalizeOrder(doc store.Document) (models.Order, error) {
	o := models.Order{
		ID:           doc.ID(),
		AgentID:      strings.TrimSpace(str(doc["agentId"])),
		Date:         dateString(doc["date"]),
		DeliveryDate: dateString(doc["deliveryDate"]),
		Address:      str(doc["address"]),
		Description:  str(doc["description"]),
		Photo:        str(doc["photo"]),
		Price:        Amount(doc["price"]),
		Shipping:     Amount(doc["shipping"]),
		Fee:          Amount(doc["fee"]),
		TotalPayment: Amount(doc["totalPayment"]),
		CreatedAt:    timeOf(doc["createdAt"]),
	}

	placed, err := ParseDate(o.Date)
	if err != nil {
		return o, fmt.Errorf("order %s: %w", o.ID, err)
	}
	o.PlacedAt = placed
	o.MonthKey = MonthKeyOf(placed)
	return o, nil
}

// BuildLedger normalizes a full orders snapshot, drops malformed records (reporting
// each through onDrop when it is not nil) and sorts the rest by date, newest first.
func BuildLedger(docs []store.Document, onDrop func(id string, err error)) []models.Order {
	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o, err := NormalizeOrder(d)
		if err != nil {
			if onDrop != nil {
				onDrop(d.ID(), err)
			}
			continue
		}
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
	return orders
}

// Amount coerces a stored amount to a non-negative number. Missing, unparseable,
// negative and non-finite values all become 0.
func Amount(v interface{}) float64 {
	switch t := v.(type) {
	case nil, bool:
		return 0
	case string:
		v = strings.TrimSpace(t)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ParseDate accepts the date shapes order documents have been stored with.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", ErrMalformedRecord)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrMalformedRecord, s)
}

// MonthKeyOf formats the YYYY-MM month an instant belongs to, in its own offset.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

func str(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func dateString(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	return strings.TrimSpace(str(v))
}

func timeOf(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
