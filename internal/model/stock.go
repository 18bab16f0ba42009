package model

import "time"

type Stock struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	PricePerUnit      float64   `json:"price_per_unit"`
	AvailableQuantity int       `json:"available_quantity"`
	Category          string    `json:"category"`
	InvestedAmount    float64   `json:"invested_amount"`
	InvestorCount     int       `json:"investor_count"`
	OwnerID           string    `json:"owner"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// StockSummary is the projection returned by the catalog listing.
type StockSummary struct {
	ID                string  `json:"_id"`
	Name              string  `json:"name"`
	PricePerUnit      float64 `json:"price_per_unit"`
	AvailableQuantity int     `json:"available_quantity"`
	Description       string  `json:"description"`
	InvestedAmount    float64 `json:"invested_amount"`
	InvestorCount     int     `json:"investor_count"`
}
