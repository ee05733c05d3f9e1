package models

import "time"

// Address - adresse de livraison validée au checkout.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

type Customer struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// OrderRequest - commande assemblée localement puis soumise à la passerelle
// de paiement. La passerelle est le système de référence : localement on ne
// conserve que l'id et le total pour l'écran de confirmation.
type OrderRequest struct {
	Total         float64            `json:"total"`
	Subtotal      float64            `json:"subtotal"`
	Discount      float64            `json:"discount"`
	PaymentMethod string             `json:"payment_method"` // "card", "pix", "boleto"
	Items         []OrderItem        `json:"items"`
	Customer      Customer           `json:"customer"`
	Address       Address            `json:"address"`
	Shipping      ShippingOption     `json:"shipping"`
	Coupon        *CouponApplication `json:"coupon,omitempty"`
}

type OrderConfirmation struct {
	ID           string      `json:"id"`
	Status       string      `json:"status"`
	Total        float64     `json:"total"`
	ClientSecret string      `json:"client_secret,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
	Customer     Customer    `json:"customer"`
	CreatedAt    time.Time   `json:"created_at"`
}
