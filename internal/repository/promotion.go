package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmavida_back_end/internal/metrics"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/store"
)

const couponsCollection = "coupons"

// ErrCouponExhausted - incrément refusé : uses a atteint maxUses.
// L'invariant uses <= maxUses ne doit jamais être violé.
var ErrCouponExhausted = errors.New("coupon épuisé: toutes les utilisations ont été consommées")

// PromotionRepository - registre des coupons : CRUD, validation et
// consommation d'utilisation.
type PromotionRepository struct {
	engine store.Engine
}

func NewPromotionRepository(engine store.Engine) *PromotionRepository {
	return &PromotionRepository{engine: engine}
}

func couponDocument(c models.Coupon) (store.Document, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return store.Document{}, fmt.Errorf("sérialisation coupon %s: %w", c.Code, err)
	}
	return store.Document{ID: c.ID, Data: data}, nil
}

func decodeCoupon(doc store.Document) (models.Coupon, error) {
	var c models.Coupon
	if err := json.Unmarshal(doc.Data, &c); err != nil {
		return models.Coupon{}, fmt.Errorf("désérialisation coupon %s: %w", doc.ID, err)
	}
	return c, nil
}

func validateCoupon(c models.Coupon) error {
	if c.Code == "" {
		return fmt.Errorf("code coupon obligatoire")
	}
	switch c.Kind {
	case models.CouponKindPercent:
		if c.Value <= 0 || c.Value > 100 {
			return fmt.Errorf("pourcentage invalide: %.2f (attendu dans (0,100])", c.Value)
		}
	case models.CouponKindFixed:
		if c.Value <= 0 {
			return fmt.Errorf("montant fixe invalide: %.2f (attendu > 0)", c.Value)
		}
	default:
		return fmt.Errorf("type de réduction inconnu: %s", c.Kind)
	}
	if c.MaxUses <= 0 {
		return fmt.Errorf("max_uses invalide: %d (attendu > 0)", c.MaxUses)
	}
	if c.Uses < 0 || c.Uses > c.MaxUses {
		return fmt.Errorf("uses invalide: %d (attendu dans [0,%d])", c.Uses, c.MaxUses)
	}
	return nil
}

// AddCoupon - le code (en majuscules) sert de clé primaire, l'unicité est
// donc garantie par le moteur (DuplicateKeyError sur collision).
func (r *PromotionRepository) AddCoupon(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.ID = c.Code

	if err := validateCoupon(*c); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	doc, err := couponDocument(*c)
	if err != nil {
		return err
	}
	return r.engine.Add(ctx, couponsCollection, doc)
}

func (r *PromotionRepository) GetCoupon(ctx context.Context, code string) (models.Coupon, error) {
	doc, err := r.engine.Get(ctx, couponsCollection, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return models.Coupon{}, err
	}
	return decodeCoupon(doc)
}

func (r *PromotionRepository) GetAllCoupons(ctx context.Context) ([]models.Coupon, error) {
	docs, err := r.engine.GetAll(ctx, couponsCollection)
	if err != nil {
		return nil, err
	}
	coupons := make([]models.Coupon, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeCoupon(doc)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

// UpdateCoupon - remplacement complet (lire-modifier-réécrire côté appelant).
func (r *PromotionRepository) UpdateCoupon(ctx context.Context, c models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.ID = c.Code
	if err := validateCoupon(c); err != nil {
		return err
	}
	if _, err := r.engine.Get(ctx, couponsCollection, c.ID); err != nil {
		return err
	}
	doc, err := couponDocument(c)
	if err != nil {
		return err
	}
	return r.engine.Put(ctx, couponsCollection, doc)
}

func (r *PromotionRepository) DeleteCoupon(ctx context.Context, code string) error {
	return r.engine.Delete(ctx, couponsCollection, strings.ToUpper(strings.TrimSpace(code)))
}

// VerifyCoupon - coupon absent => {coupon:nil} sans erreur. Sinon
// isValid = (now <= expiresAt) && (uses < maxUses) ; l'expiration est
// vérifiée en premier quand les deux raisons s'appliquent.
func (r *PromotionRepository) VerifyCoupon(ctx context.Context, code string) (models.CouponValidation, error) {
	doc, err := r.engine.Get(ctx, couponsCollection, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if store.IsNotFound(err) {
			return models.CouponValidation{Coupon: nil, IsValid: false}, nil
		}
		return models.CouponValidation{}, err
	}

	c, err := decodeCoupon(doc)
	if err != nil {
		return models.CouponValidation{}, err
	}

	now := time.Now()
	if now.After(c.ExpiresAt) {
		return models.CouponValidation{Coupon: &c, IsValid: false, Reason: models.CouponReasonExpired}, nil
	}
	if c.Uses >= c.MaxUses {
		return models.CouponValidation{Coupon: &c, IsValid: false, Reason: models.CouponReasonExhausted}, nil
	}
	return models.CouponValidation{Coupon: &c, IsValid: true}, nil
}

// IncrementCouponUse - consomme exactement une utilisation via
// compare-and-swap : jamais d'écrasement aveugle, on relit et on réessaie
// en cas de conflit de version. ErrCouponExhausted si uses == maxUses.
func (r *PromotionRepository) IncrementCouponUse(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	for attempt := 0; attempt < casRetries; attempt++ {
		doc, err := r.engine.Get(ctx, couponsCollection, code)
		if err != nil {
			return err
		}
		c, err := decodeCoupon(doc)
		if err != nil {
			return err
		}
		if c.Uses >= c.MaxUses {
			metrics.RecordCouponRedemption("exhausted")
			return ErrCouponExhausted
		}

		c.Uses++
		next, err := couponDocument(c)
		if err != nil {
			return err
		}
		err = r.engine.CompareAndSwap(ctx, couponsCollection, next, doc.Version)
		if err == store.ErrVersionConflict {
			continue
		}
		if err == nil {
			metrics.RecordCouponRedemption("success")
		}
		return err
	}

	metrics.RecordCouponRedemption("conflict")
	return fmt.Errorf("incrément du coupon %s abandonné après %d conflits", code, casRetries)
}
