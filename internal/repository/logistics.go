package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/store"
)

const (
	freightRulesCollection = "freight_rules"
	shipmentsCollection    = "shipments"
)

// LogisticsRepository - CRUD sur les expéditions et les règles de fret,
// requêtables par région/transporteur/statut.
type LogisticsRepository struct {
	engine store.Engine
}

func NewLogisticsRepository(engine store.Engine) *LogisticsRepository {
	return &LogisticsRepository{engine: engine}
}

// =============================================
// RÈGLES DE FRET
// =============================================

func freightRuleDocument(r models.FreightRule) (store.Document, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return store.Document{}, fmt.Errorf("sérialisation règle de fret %s: %w", r.ID, err)
	}
	return store.Document{
		ID:   r.ID,
		Data: data,
		Indexes: map[string]string{
			"region":  r.Region,
			"carrier": r.Carrier,
		},
	}, nil
}

func decodeFreightRule(doc store.Document) (models.FreightRule, error) {
	var r models.FreightRule
	if err := json.Unmarshal(doc.Data, &r); err != nil {
		return models.FreightRule{}, fmt.Errorf("désérialisation règle de fret %s: %w", doc.ID, err)
	}
	return r, nil
}

// AddFreightRule - minWeight < maxWeight est validé à l'écriture. Les bandes
// qui se chevauchent ne sont PAS rejetées : le recouvrement est résolu à la
// requête par "le moins cher gagne" (cf. resolver).
func (l *LogisticsRepository) AddFreightRule(ctx context.Context, r *models.FreightRule) error {
	r.Region = strings.ToUpper(strings.TrimSpace(r.Region))
	if r.Region == "" {
		return fmt.Errorf("région obligatoire")
	}
	if r.MinWeight < 0 || r.MinWeight >= r.MaxWeight {
		return fmt.Errorf("bande de poids invalide: [%.2f, %.2f)", r.MinWeight, r.MaxWeight)
	}
	if r.Price < 0 {
		return fmt.Errorf("prix invalide: %.2f", r.Price)
	}
	if r.Carrier == "" {
		return fmt.Errorf("transporteur obligatoire")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	doc, err := freightRuleDocument(*r)
	if err != nil {
		return err
	}
	return l.engine.Add(ctx, freightRulesCollection, doc)
}

func (l *LogisticsRepository) GetFreightRule(ctx context.Context, id string) (models.FreightRule, error) {
	doc, err := l.engine.Get(ctx, freightRulesCollection, id)
	if err != nil {
		return models.FreightRule{}, err
	}
	return decodeFreightRule(doc)
}

func (l *LogisticsRepository) GetAllFreightRules(ctx context.Context) ([]models.FreightRule, error) {
	docs, err := l.engine.GetAll(ctx, freightRulesCollection)
	if err != nil {
		return nil, err
	}
	return decodeFreightRules(docs)
}

func (l *LogisticsRepository) UpdateFreightRule(ctx context.Context, r models.FreightRule) error {
	r.Region = strings.ToUpper(strings.TrimSpace(r.Region))
	if r.MinWeight < 0 || r.MinWeight >= r.MaxWeight {
		return fmt.Errorf("bande de poids invalide: [%.2f, %.2f)", r.MinWeight, r.MaxWeight)
	}
	if _, err := l.engine.Get(ctx, freightRulesCollection, r.ID); err != nil {
		return err
	}
	doc, err := freightRuleDocument(r)
	if err != nil {
		return err
	}
	return l.engine.Put(ctx, freightRulesCollection, doc)
}

func (l *LogisticsRepository) DeleteFreightRule(ctx context.Context, id string) error {
	return l.engine.Delete(ctx, freightRulesCollection, id)
}

// RulesForRegion - toutes les règles portant exactement ce libellé de région.
func (l *LogisticsRepository) RulesForRegion(ctx context.Context, region string) ([]models.FreightRule, error) {
	docs, err := l.engine.QueryByIndex(ctx, freightRulesCollection, "region",
		strings.ToUpper(strings.TrimSpace(region)))
	if err != nil {
		return nil, err
	}
	return decodeFreightRules(docs)
}

func (l *LogisticsRepository) RulesForCarrier(ctx context.Context, carrier string) ([]models.FreightRule, error) {
	docs, err := l.engine.QueryByIndex(ctx, freightRulesCollection, "carrier", carrier)
	if err != nil {
		return nil, err
	}
	return decodeFreightRules(docs)
}

func decodeFreightRules(docs []store.Document) ([]models.FreightRule, error) {
	rules := make([]models.FreightRule, 0, len(docs))
	for _, doc := range docs {
		r, err := decodeFreightRule(doc)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// =============================================
// EXPÉDITIONS
// =============================================

func shipmentDocument(s models.Shipment) (store.Document, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return store.Document{}, fmt.Errorf("sérialisation expédition %s: %w", s.ID, err)
	}
	return store.Document{
		ID:   s.ID,
		Data: data,
		Indexes: map[string]string{
			"carrier": s.Carrier,
			"status":  s.Status,
		},
	}, nil
}

func decodeShipment(doc store.Document) (models.Shipment, error) {
	var s models.Shipment
	if err := json.Unmarshal(doc.Data, &s); err != nil {
		return models.Shipment{}, fmt.Errorf("désérialisation expédition %s: %w", doc.ID, err)
	}
	return s, nil
}

func (l *LogisticsRepository) AddShipment(ctx context.Context, s *models.Shipment) error {
	if s.ID == "" {
		return fmt.Errorf("référence de commande obligatoire")
	}
	if !models.ValidShipmentStatus(s.Status) {
		return fmt.Errorf("statut d'expédition inconnu: %s", s.Status)
	}
	if s.SLADays <= 0 {
		return fmt.Errorf("sla_days invalide: %d (attendu > 0)", s.SLADays)
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	doc, err := shipmentDocument(*s)
	if err != nil {
		return err
	}
	return l.engine.Add(ctx, shipmentsCollection, doc)
}

// CreateShipmentForOrder - enregistre l'expédition "posted" d'une commande
// tout juste soumise, avec un code de suivi généré.
func (l *LogisticsRepository) CreateShipmentForOrder(ctx context.Context, orderID string, shipping models.ShippingOption) (models.Shipment, error) {
	shipment := models.Shipment{
		ID:           orderID,
		Carrier:      shipping.Carrier,
		TrackingCode: "FV-" + strings.ToUpper(uuid.NewString()[:13]),
		Status:       models.ShipmentStatusPosted,
		SLADays:      shipping.DeliveryDays,
	}
	if shipment.SLADays <= 0 {
		shipment.SLADays = 1
	}
	if err := l.AddShipment(ctx, &shipment); err != nil {
		return models.Shipment{}, err
	}
	return shipment, nil
}

func (l *LogisticsRepository) GetShipment(ctx context.Context, id string) (models.Shipment, error) {
	doc, err := l.engine.Get(ctx, shipmentsCollection, id)
	if err != nil {
		return models.Shipment{}, err
	}
	return decodeShipment(doc)
}

func (l *LogisticsRepository) GetAllShipments(ctx context.Context) ([]models.Shipment, error) {
	docs, err := l.engine.GetAll(ctx, shipmentsCollection)
	if err != nil {
		return nil, err
	}
	return decodeShipments(docs)
}

func (l *LogisticsRepository) ShipmentsByStatus(ctx context.Context, status string) ([]models.Shipment, error) {
	docs, err := l.engine.QueryByIndex(ctx, shipmentsCollection, "status", status)
	if err != nil {
		return nil, err
	}
	return decodeShipments(docs)
}

func (l *LogisticsRepository) ShipmentsByCarrier(ctx context.Context, carrier string) ([]models.Shipment, error) {
	docs, err := l.engine.QueryByIndex(ctx, shipmentsCollection, "carrier", carrier)
	if err != nil {
		return nil, err
	}
	return decodeShipments(docs)
}

// UpdateShipmentStatus - transition pilotée par l'admin logistique (ou
// l'équivalent du polling transporteur, hors périmètre).
func (l *LogisticsRepository) UpdateShipmentStatus(ctx context.Context, id, status string) (models.Shipment, error) {
	if !models.ValidShipmentStatus(status) {
		return models.Shipment{}, fmt.Errorf("statut d'expédition inconnu: %s", status)
	}

	s, err := l.GetShipment(ctx, id)
	if err != nil {
		return models.Shipment{}, err
	}
	s.Status = status
	s.UpdatedAt = time.Now()

	doc, err := shipmentDocument(s)
	if err != nil {
		return models.Shipment{}, err
	}
	if err := l.engine.Put(ctx, shipmentsCollection, doc); err != nil {
		return models.Shipment{}, err
	}
	return s, nil
}

func (l *LogisticsRepository) DeleteShipment(ctx context.Context, id string) error {
	return l.engine.Delete(ctx, shipmentsCollection, id)
}

func decodeShipments(docs []store.Document) ([]models.Shipment, error) {
	shipments := make([]models.Shipment, 0, len(docs))
	for _, doc := range docs {
		s, err := decodeShipment(doc)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}
