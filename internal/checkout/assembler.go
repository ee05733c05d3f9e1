package checkout

import (
	"context"
	"log"
	"math"
	"time"

	"farmavida_back_end/internal/gateway"
	"farmavida_back_end/internal/metrics"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/repository"
)

// Assembler transforme une Session en OrderRequest puis la soumet à la
// passerelle de paiement. Une session = au plus une soumission: après un
// timeout, on relit la commande via GetOrder, on ne resoumet jamais.
type Assembler struct {
	gateway   gateway.Gateway
	coupons   *repository.PromotionRepository
	catalog   *repository.CatalogRepository
	logistics *repository.LogisticsRepository
}

func NewAssembler(gw gateway.Gateway, coupons *repository.PromotionRepository, catalog *repository.CatalogRepository, logistics *repository.LogisticsRepository) *Assembler {
	return &Assembler{
		gateway:   gw,
		coupons:   coupons,
		catalog:   catalog,
		logistics: logistics,
	}
}

// BuildOrderRequest valide la session et assemble la commande. Le coupon est
// revérifié contre le registre au moment de l'assemblage (il a pu expirer ou
// s'épuiser depuis son application au panier) et la remise est recalculée sur
// le sous-total courant. La remise porte sur le sous-total seul, jamais sur
// les frais de port.
func (a *Assembler) BuildOrderRequest(ctx context.Context, s *Session) (*models.OrderRequest, error) {
	// ✅ 1. Panier
	if len(s.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "panier vide"}
	}
	for _, item := range s.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "items", Reason: "quantité invalide pour " + item.ProductID}
		}
		if item.UnitPrice < 0 {
			return nil, &ValidationError{Field: "items", Reason: "prix négatif pour " + item.ProductID}
		}
	}

	// ✅ 2. Client
	if s.Customer.Name == "" || s.Customer.Email == "" {
		return nil, &ValidationError{Field: "customer", Reason: "nom et email requis"}
	}

	// ✅ 3. Adresse
	if s.Address.PostalCode == "" || s.Address.Street == "" || s.Address.Number == "" ||
		s.Address.City == "" || s.Address.State == "" {
		return nil, &ValidationError{Field: "address", Reason: "CEP, rue, numéro, ville et état requis"}
	}

	// ✅ 4. Livraison - toujours un choix explicite, jamais de tarif implicite
	if s.Shipping == nil {
		return nil, &ValidationError{Field: "shipping", Reason: "aucune option de livraison sélectionnée"}
	}

	subtotal := s.Subtotal()

	// ✅ 5. Coupon - revérification + recalcul sur le sous-total courant
	var application *models.CouponApplication
	if s.Coupon != nil {
		validation, err := a.coupons.VerifyCoupon(ctx, s.Coupon.Code)
		if err != nil {
			return nil, err
		}
		if validation.Coupon == nil {
			return nil, &ValidationError{Field: "coupon", Reason: "coupon inconnu: " + s.Coupon.Code}
		}
		if !validation.IsValid {
			return nil, &ValidationError{Field: "coupon", Reason: "coupon " + validation.Reason + ": " + s.Coupon.Code}
		}
		application = &models.CouponApplication{
			Code:     validation.Coupon.Code,
			Kind:     validation.Coupon.Kind,
			Discount: computeDiscount(*validation.Coupon, subtotal),
			Subtotal: subtotal,
		}
	}

	var discount float64
	if application != nil {
		discount = application.Discount
	}

	total := subtotal - discount + s.Shipping.Price
	if total < 0 {
		total = 0
	}

	items := make([]models.OrderItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return &models.OrderRequest{
		Total:         roundToCentavos(total),
		Subtotal:      roundToCentavos(subtotal),
		Discount:      roundToCentavos(discount),
		PaymentMethod: s.PaymentMethod,
		Items:         items,
		Customer:      s.Customer,
		Address:       s.Address,
		Shipping:      *s.Shipping,
		Coupon:        application,
	}, nil
}

// SubmitOrder assemble et soumet la commande, puis applique les suites
// locales (consommation du coupon, décrément de stock, expédition). Les
// suites locales n'invalident jamais une commande déjà acceptée: en cas
// d'échec on logue et on continue.
func (a *Assembler) SubmitOrder(ctx context.Context, s *Session) (*models.OrderConfirmation, error) {
	start := time.Now()

	req, err := a.BuildOrderRequest(ctx, s)
	if err != nil {
		metrics.RecordCheckoutDuration("validation_error", time.Since(start).Seconds())
		return nil, err
	}

	confirmation, err := a.gateway.SubmitOrder(ctx, req)
	if err != nil {
		status := "gateway_error"
		if gateway.IsGatewayTimeout(err) {
			status = "gateway_timeout"
		}
		metrics.RecordCheckoutDuration(status, time.Since(start).Seconds())
		return nil, err
	}

	if req.Coupon != nil {
		if err := a.coupons.IncrementCouponUse(ctx, req.Coupon.Code); err != nil {
			log.Printf("⚠️ Consommation coupon %s après commande %s: %v", req.Coupon.Code, confirmation.ID, err)
		}
	}
	for _, item := range req.Items {
		if err := a.catalog.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("⚠️ Décrément stock %s après commande %s: %v", item.ProductID, confirmation.ID, err)
		}
	}
	if _, err := a.logistics.CreateShipmentForOrder(ctx, confirmation.ID, req.Shipping); err != nil {
		log.Printf("⚠️ Création expédition pour commande %s: %v", confirmation.ID, err)
	}

	confirmation.Items = req.Items
	confirmation.Customer = req.Customer
	if confirmation.CreatedAt.IsZero() {
		confirmation.CreatedAt = time.Now()
	}

	metrics.RecordCheckoutDuration("success", time.Since(start).Seconds())
	log.Printf("✅ Commande %s confirmée (R$ %.2f) pour %s", confirmation.ID, req.Total, req.Customer.Email)

	return confirmation, nil
}

// GetOrder relit une commande auprès de la passerelle (levée d'ambiguïté
// après timeout de soumission).
func (a *Assembler) GetOrder(ctx context.Context, orderID string) (*models.OrderConfirmation, error) {
	return a.gateway.GetOrder(ctx, orderID)
}

// RefundOrder demande le remboursement d'une commande auprès de la
// passerelle. L'expédition associée n'est pas annulée ici: la logistique
// reste pilotée par le back-office.
func (a *Assembler) RefundOrder(ctx context.Context, orderID string) error {
	if err := a.gateway.RefundOrder(ctx, orderID); err != nil {
		return err
	}
	log.Printf("💳 Remboursement demandé pour la commande %s", orderID)
	return nil
}

// computeDiscount calcule la remise sur le sous-total seul. Une remise fixe
// est plafonnée au sous-total.
func computeDiscount(c models.Coupon, subtotal float64) float64 {
	switch c.Kind {
	case models.CouponKindPercent:
		return subtotal * c.Value / 100
	case models.CouponKindFixed:
		if c.Value > subtotal {
			return subtotal
		}
		return c.Value
	}
	return 0
}

func roundToCentavos(amount float64) float64 {
	return math.Round(amount*100) / 100
}
