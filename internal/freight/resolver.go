package freight

import (
	"context"
	"errors"
	"sort"
	"time"

	"farmavida_back_end/internal/metrics"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/repository"
)

// Request - entrée de la résolution de fret. RegionHint est le libellé de
// région de destination (code d'état en général) ; s'il est vide, seul le
// repli national est consulté côté table.
type Request struct {
	OriginCEP      string
	DestinationCEP string
	Weight         float64
	RegionHint     string
	Parcels        []QuoteParcel // dimensions complètes, pour l'API transporteur
}

// Resolver - résolution des options de livraison : table de règles d'abord
// (du libellé le plus précis au plus large), API transporteur en repli.
// Jamais de prix forfaitaire silencieux quand tout échoue.
type Resolver struct {
	logistics *repository.LogisticsRepository
	carrier   *CarrierClient
}

func NewResolver(logistics *repository.LogisticsRepository, carrier *CarrierClient) *Resolver {
	return &Resolver{logistics: logistics, carrier: carrier}
}

// Resolve retourne les options classées par prix croissant (à prix égal,
// délai transporteur le plus court d'abord). Déterministe à table fixée.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]models.ShippingOption, error) {
	start := time.Now()
	source := "none"
	defer func() {
		metrics.RecordFreightResolveDuration(source, time.Since(start).Seconds())
	}()

	// 1. Règles locales, au libellé le plus précis qui matche.
	for _, label := range RegionLabels(req.RegionHint) {
		rules, err := r.logistics.RulesForRegion(ctx, label)
		if err != nil {
			return nil, err
		}

		var matches []models.FreightRule
		for _, rule := range rules {
			if rule.Contains(req.Weight) {
				matches = append(matches, rule)
			}
		}
		if len(matches) > 0 {
			source = "table"
			return rankRules(matches), nil
		}
	}

	// 2. Aucune règle locale : cotation transporteur avec le colis complet.
	quoteReq := QuoteRequest{Products: req.Parcels}
	quoteReq.From.PostalCode = req.OriginCEP
	quoteReq.To.PostalCode = req.DestinationCEP
	if len(quoteReq.Products) == 0 {
		quoteReq.Products = []QuoteParcel{{Weight: req.Weight, Quantity: 1}}
	}

	options, err := r.carrier.Quote(ctx, quoteReq)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, &ShippingUnavailableError{Err: errors.New("aucune cotation exploitable")}
	}

	source = "carrier"
	sortOptions(options)
	return options, nil
}

// rankRules - les moins chères d'abord ; les bandes qui se recouvrent se
// départagent donc naturellement par "le moins cher gagne".
func rankRules(rules []models.FreightRule) []models.ShippingOption {
	options := make([]models.ShippingOption, 0, len(rules))
	for _, rule := range rules {
		options = append(options, models.ShippingOption{
			ID:           rule.ID,
			Carrier:      rule.Carrier,
			Service:      rule.Carrier,
			Price:        rule.Price,
			DeliveryDays: CarrierSLADays(rule.Carrier),
			Source:       models.ShippingSourceTable,
		})
	}
	sortOptions(options)
	return options
}

func sortOptions(options []models.ShippingOption) {
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Price != options[j].Price {
			return options[i].Price < options[j].Price
		}
		return options[i].DeliveryDays < options[j].DeliveryDays
	})
}
