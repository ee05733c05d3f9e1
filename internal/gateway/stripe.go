package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/refund"

	"farmavida_back_end/internal/models"
)

// StripeGateway - implémentation Stripe du port Gateway. Le montant part en
// centavos (BRL), le détail de la commande dans les métadonnées du
// PaymentIntent.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway { return &StripeGateway{} }

func (g *StripeGateway) SubmitOrder(ctx context.Context, req *models.OrderRequest) (*models.OrderConfirmation, error) {
	// ✅ Sérialiser le panier pour les metadata Stripe
	cartJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("sérialisation panier: %w", err)}
	}
	shippingJSON, err := json.Marshal(req.Shipping)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("sérialisation livraison: %w", err)}
	}

	metadata := map[string]string{
		"user_id":        req.Customer.UserID,
		"customer_name":  req.Customer.Name,
		"customer_email": req.Customer.Email,
		"cep":            req.Address.PostalCode,
		"city":           req.Address.City,
		"state":          req.Address.State,
		"cart":           string(cartJSON),
		"shipping":       string(shippingJSON),
		"payment_method": req.PaymentMethod,
	}
	if req.Coupon != nil {
		metadata["coupon_code"] = req.Coupon.Code
		metadata["coupon_kind"] = req.Coupon.Kind
		metadata["discount"] = fmt.Sprintf("%.2f", req.Coupon.Discount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCentavos(req.Total)),
		Currency: stripe.String("brl"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapStripeError(ctx, err)
	}

	log.Printf("💳 Commande soumise: %s (R$ %.2f) pour %s", intent.ID, req.Total, req.Customer.Email)

	return confirmationFromIntent(intent), nil
}

func (g *StripeGateway) GetOrder(ctx context.Context, orderID string) (*models.OrderConfirmation, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(orderID, params)
	if err != nil {
		return nil, wrapStripeError(ctx, err)
	}
	return confirmationFromIntent(intent), nil
}

func (g *StripeGateway) RefundOrder(ctx context.Context, orderID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(orderID),
		Reason:        stripe.String("requested_by_customer"),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		return wrapStripeError(ctx, err)
	}
	log.Printf("💳 Remboursement demandé pour %s", orderID)
	return nil
}

func confirmationFromIntent(intent *stripe.PaymentIntent) *models.OrderConfirmation {
	return &models.OrderConfirmation{
		ID:           intent.ID,
		Status:       string(intent.Status),
		Total:        float64(intent.Amount) / 100,
		ClientSecret: intent.ClientSecret,
		CreatedAt:    time.Unix(intent.Created, 0),
	}
}

// toCentavos arrondit au centavo le plus proche avant l'envoi.
func toCentavos(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func wrapStripeError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return &GatewayError{Timeout: true, Err: err}
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &GatewayError{Status: stripeErr.HTTPStatusCode, Err: err}
	}
	return &GatewayError{Err: err}
}
