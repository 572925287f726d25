package models

import "time"

// Order is one delivery order placed for a partner.
type Order struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agentId"`
	Date         string    `json:"date"`         // order placement, YYYY-MM-DD
	DeliveryDate string    `json:"deliveryDate"` // YYYY-MM-DD, may be empty
	Address      string    `json:"address"`
	Description  string    `json:"description,omitempty"`
	Photo        string    `json:"photo,omitempty"` // data URI, carried as-is
	Price        float64   `json:"price"`
	Shipping     float64   `json:"shipping"`
	Fee          float64   `json:"fee"`
	TotalPayment float64   `json:"totalPayment"`
	MonthKey     string    `json:"monthKey"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`

	// parsed Date, used for sorting
	PlacedAt time.Time `json:"-"`
}

// OrderInput is what the order form submits. Price is a pointer so a missing price
// can be told apart from a zero one.
type OrderInput struct {
	AgentID      string   `json:"agentId" binding:"required"`
	Date         string   `json:"date" binding:"required,datetime=2006-01-02"`
	DeliveryDate string   `json:"deliveryDate" binding:"omitempty,datetime=2006-01-02"`
	Address      string   `json:"address" binding:"required"`
	Description  string   `json:"description"`
	Photo        string   `json:"photo"`
	Price        *float64 `json:"price" binding:"required,gte=0"`
	Shipping     float64  `json:"shipping" binding:"gte=0"`
	Fee          float64  `json:"fee" binding:"gte=0"`
}
