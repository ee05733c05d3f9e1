package checkout

import (
	"fmt"

	"farmavida_back_end/internal/models"
)

// ValidationError - la session est incomplète ou incohérente, rien n'a été
// envoyé à la passerelle.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation commande (%s): %s", e.Field, e.Reason)
}

// Session - état explicite d'un parcours de checkout. Tout est porté par la
// session elle-même: l'assembleur ne lit aucun état ambiant.
type Session struct {
	UserID        string                 `json:"user_id"`
	Items         []models.CartItem      `json:"items"`
	Customer      models.Customer        `json:"customer"`
	Address       models.Address         `json:"address"`
	Shipping      *models.ShippingOption `json:"shipping"`
	Coupon        *models.Coupon         `json:"coupon,omitempty"`
	PaymentMethod string                 `json:"payment_method"`
}

// Subtotal - somme des lignes du panier, hors remise et hors livraison.
func (s *Session) Subtotal() float64 {
	return models.CartSubtotal(s.Items)
}

// Weight - poids total du panier en kg, pour la résolution de fret.
func (s *Session) Weight() float64 {
	return models.CartWeight(s.Items)
}
