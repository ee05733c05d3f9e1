package models

// RegionCountryWide - libellé de région joker : une règle portant ce libellé
// s'applique à tout le territoire.
const RegionCountryWide = "BR"

// FreightRule - bande de poids [MinWeight, MaxWeight) pour une région
// (code d'état, macro-région ou "BR").
type FreightRule struct {
	ID        string  `json:"id"`
	Region    string  `json:"region"`
	MinWeight float64 `json:"min_weight"`
	MaxWeight float64 `json:"max_weight"`
	Price     float64 `json:"price"`
	Carrier   string  `json:"carrier"`
}

// Contains vérifie si le poids tombe dans la bande (borne haute exclue).
func (r FreightRule) Contains(weight float64) bool {
	return weight >= r.MinWeight && weight < r.MaxWeight
}

const (
	ShippingSourceTable   = "table"   // règle locale
	ShippingSourceCarrier = "carrier" // API transporteur
)

// ShippingOption - forme interne unique, que l'option vienne de la table de
// règles ou de l'API transporteur (les payloads externes sont mappés à la
// frontière, jamais propagés).
type ShippingOption struct {
	ID           string  `json:"id"`
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Price        float64 `json:"price"`
	DeliveryDays int     `json:"delivery_days"`
	Source       string  `json:"source"`
}
