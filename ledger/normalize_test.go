package ledger

import (
	"errors"
	"math"
	"testing"
	"time"

	"mfgledger/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAgentCodeSpellings(t *testing.T) {
	tests := []struct {
		name string
		doc  store.Document
		want string
	}{
		{"lower", store.Document{"id": "a1", "name": "A", "code": "A001"}, "A001"},
		{"capital", store.Document{"id": "a2", "name": "B", "Code": "B002"}, "B002"},
		{"indonesian", store.Document{"id": "a3", "name": "C", "kode": " C003 "}, "C003"},
		{"upper", store.Document{"id": "a4", "name": "D", "KODE": "D004"}, "D004"},
		{"odd casing", store.Document{"id": "a5", "name": "E", "cODe": "E005"}, "E005"},
		{"numeric", store.Document{"id": "a6", "name": "F", "code": 42}, "42"},
		{"blank code falls through", store.Document{"id": "a7", "name": "G", "code": "  ", "kode": "G007"}, "G007"},
		{"missing", store.Document{"id": "a8", "name": "H"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NormalizeAgent(tt.doc)
			assert.Equal(t, tt.want, a.Code)
			assert.Equal(t, tt.doc.ID(), a.ID)
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{nil, 0},
		{"", 0},
		{"50000", 50000},
		{" 12.5 ", 12.5},
		{"abc", 0},
		{15000, 15000},
		{int64(7), 7},
		{2.25, 2.25},
		{-10, 0},
		{"-3", 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.in), "Amount(%#v)", tt.in)
	}
}

func TestNormalizeOrderCoercesAmounts(t *testing.T) {
	o, err := NormalizeOrder(store.Document{
		"id":           "o1",
		"agentId":      "ag1",
		"date":         "2024-03-05",
		"address":      "Jl. Ijen 1",
		"price":        "50000",
		"fee":          "n/a",
		"totalPayment": -5,
	})
	require.NoError(t, err)
	assert.Equal(t, 50000.0, o.Price)
	assert.Equal(t, 0.0, o.Shipping)
	assert.Equal(t, 0.0, o.Fee)
	assert.Equal(t, 0.0, o.TotalPayment)
	assert.Equal(t, "2024-03", o.MonthKey)
}

func TestNormalizeOrderDerivesMonthKeyFromDate(t *testing.T) {
	o, err := NormalizeOrder(store.Document{"id": "o1", "date": "2024-03-31", "monthKey": "2024-04"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", o.MonthKey)

	o, err = NormalizeOrder(store.Document{"id": "o2", "date": time.Date(2023, 12, 24, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "2023-12", o.MonthKey)
}

func TestNormalizeOrderRejectsBadDates(t *testing.T) {
	for _, date := range []interface{}{nil, "", "not-a-date", "2024-13-01", "2024-02-30"} {
		_, err := NormalizeOrder(store.Document{"id": "bad", "date": date, "price": 1})
		assert.ErrorIs(t, err, ErrMalformedRecord, "date %#v", date)
	}
}

func TestNormalizeOrderIsIdempotent(t *testing.T) {
	created := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	first, err := NormalizeOrder(store.Document{
		"id":           "o1",
		"agentId":      " ag1 ",
		"date":         "2024-03-05",
		"deliveryDate": "2024-03-06",
		"address":      "Jl. Ijen 1",
		"price":        "50000",
		"shipping":     15000,
		"fee":          "5000",
		"totalPayment": "60000",
		"createdAt":    created,
	})
	require.NoError(t, err)

	second, err := NormalizeOrder(ToDocument(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "ag1", second.AgentID)
}

func TestBuildLedgerDropsMalformedAndSorts(t *testing.T) {
	docs := []store.Document{
		{"id": "o1", "date": "2024-01-10", "price": 100},
		{"id": "o2", "date": "2024-03-01", "price": 200},
		{"id": "bad", "date": "not-a-date", "price": 999},
		{"id": "o3", "date": "2024-02-15", "price": 300},
		{"id": "o4", "date": "2024-03-20", "price": 400},
	}

	var dropped []string
	orders := BuildLedger(docs, func(id string, err error) {
		dropped = append(dropped, id)
		assert.True(t, errors.Is(err, ErrMalformedRecord))
	})

	require.Len(t, orders, 4)
	assert.Equal(t, []string{"bad"}, dropped)
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"o4", "o2", "o3", "o1"}, ids)

	folders := AggregateFolders(orders, 2024)
	total := 0
	for _, f := range folders {
		total += f.Stats.Count
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 1000.0, StatsOf(orders).TotalHarga)

	pages := Paginate(orders, DefaultPageSize)
	require.Len(t, pages, 1)
	assert.Len(t, pages[0], 4)
}

func TestBuildLedgerWithoutCallback(t *testing.T) {
	orders := BuildLedger([]store.Document{{"id": "bad"}}, nil)
	assert.Empty(t, orders)
}
