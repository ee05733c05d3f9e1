package models

import "time"

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	ImageRef      string    `json:"image_ref"`
	StockQuantity int       `json:"stock_quantity"`
	Status        string    `json:"status"` // "active" ou "inactive"
	Featured      bool      `json:"featured"`
	Weight        float64   `json:"weight"` // poids unitaire en kg, pour le fret
	CreatedAt     time.Time `json:"created_at"`
}
