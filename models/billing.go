package models

// Stats are the totals of one group of orders.
type Stats struct {
	Count        int     `json:"count"`
	TotalHarga   float64 `json:"totalHarga"`  // sum of price
	TotalFee     float64 `json:"totalFee"`
	TotalOngkir  float64 `json:"totalOngkir"` // sum of shipping
	TotalPayment float64 `json:"totalPayment"`
}

// MonthlyFolder is the derived view of one calendar month.
type MonthlyFolder struct {
	Key    string           `json:"key"` // YYYY-MM
	Stats  Stats            `json:"stats"`
	Status SettlementStatus `json:"status,omitempty"`
}

type SettlementStatus string

// The persisted values are lunas/belum; mixed is only ever computed.
const (
	StatusSettled   SettlementStatus = "lunas"
	StatusUnsettled SettlementStatus = "belum"
	StatusMixed     SettlementStatus = "mixed"
)

// AllAgents is the pseudo scope used by the admin for "every partner".
const AllAgents = "all"
