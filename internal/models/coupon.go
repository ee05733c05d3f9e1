package models

import "time"

const (
	CouponKindPercent = "percent"
	CouponKindFixed   = "fixed"

	CouponReasonExpired   = "expired"
	CouponReasonExhausted = "exhausted"
)

// Coupon - le code sert de clé primaire (id == code, toujours en majuscules).
// "Épuisé" (uses == maxUses) et "expiré" (now > expiresAt) sont des états
// dérivés, jamais stockés.
type Coupon struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Kind      string    `json:"discount_kind"` // "percent" ou "fixed"
	Value     float64   `json:"value"`
	MaxUses   int       `json:"max_uses"`
	Uses      int       `json:"uses"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// CouponValidation - résultat de verifyCoupon. Le montant de la réduction
// n'est PAS calculé ici, c'est à l'appelant de le faire sur le sous-total
// courant (percent: subtotal*value/100, fixed: value).
type CouponValidation struct {
	Coupon  *Coupon `json:"coupon"`
	IsValid bool    `json:"is_valid"`
	Reason  string  `json:"reason,omitempty"` // "expired" ou "exhausted"
}

// CouponApplication - réduction déjà calculée par l'appelant, avec le
// sous-total sur lequel elle a été calculée (détection de staleness au
// moment de l'assemblage de la commande).
type CouponApplication struct {
	Code     string  `json:"code"`
	Kind     string  `json:"kind"`
	Discount float64 `json:"discount"`
	Subtotal float64 `json:"subtotal"`
}
