package models

import "time"

const (
	ShipmentStatusPosted    = "posted"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusDelayed   = "delayed"
)

// Shipment - l'id est la référence de commande. Le lien avec la commande
// est par valeur (chaîne), jamais par référence vive.
type Shipment struct {
	ID           string    `json:"id"`
	Carrier      string    `json:"carrier"`
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	SLADays      int       `json:"sla_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidShipmentStatus vérifie qu'un statut fait partie du cycle de vie.
func ValidShipmentStatus(s string) bool {
	switch s {
	case ShipmentStatusPosted, ShipmentStatusInTransit, ShipmentStatusDelivered, ShipmentStatusDelayed:
		return true
	}
	return false
}
