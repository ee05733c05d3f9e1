package freight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"farmavida_back_end/internal/models"
)

// ShippingUnavailableError - ni règle locale ni cotation transporteur.
// Timeout distingue "délai dépassé" de "rejeté par le serveur" : les couches
// UI ne retentent (ou ne basculent sur du cache) que sur timeout.
type ShippingUnavailableError struct {
	Timeout bool
	Status  int
	Err     error
}

func (e *ShippingUnavailableError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("cotation de fret indisponible: délai dépassé (%v)", e.Err)
	case e.Status != 0:
		return fmt.Sprintf("cotation de fret indisponible: le transporteur a répondu %d", e.Status)
	default:
		return fmt.Sprintf("cotation de fret indisponible: %v", e.Err)
	}
}

func (e *ShippingUnavailableError) Unwrap() error { return e.Err }

// IsShippingUnavailable - helper pour les handlers.
func IsShippingUnavailable(err error) bool {
	var su *ShippingUnavailableError
	return errors.As(err, &su)
}

// QuoteParcel - un colis tel qu'attendu par l'API de cotation.
type QuoteParcel struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Length         float64 `json:"length"`
	Weight         float64 `json:"weight"`
	InsuranceValue float64 `json:"insurance_value"`
	Quantity       int     `json:"quantity"`
}

// QuoteRequest - contrat externe de l'API transporteur.
type QuoteRequest struct {
	From     struct{ PostalCode string `json:"postal_code"` } `json:"from"`
	To       struct{ PostalCode string `json:"postal_code"` } `json:"to"`
	Products []QuoteParcel                                    `json:"products"`
}

// carrierQuote - payload brut renvoyé par le transporteur. Forme non typée
// par contrat (price arrive parfois en chaîne) : on valide et on mappe ici,
// la forme externe ne se propage jamais vers l'intérieur.
type carrierQuote struct {
	ID           json.Number `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	Currency     string      `json:"currency"`
	DeliveryDays int         `json:"delivery_days"`
	Company      struct {
		Name string `json:"name"`
	} `json:"company"`
	Error string `json:"error,omitempty"`
}

// CarrierClient - client de l'API de cotation externe. Timeout visible par
// l'appelant et limiteur de débit côté client (l'API publique est quotée).
type CarrierClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

func NewCarrierClient(baseURL, token string, timeout time.Duration) *CarrierClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &CarrierClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Quote interroge l'API transporteur et traduit chaque cotation dans la
// forme interne, classée ensuite par le resolver.
func (c *CarrierClient) Quote(ctx context.Context, req QuoteRequest) ([]models.ShippingOption, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ShippingUnavailableError{Timeout: true, Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("sérialisation demande de cotation: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/me/shipment/calculate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construction requête cotation: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &ShippingUnavailableError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ShippingUnavailableError{Status: resp.StatusCode,
			Err: fmt.Errorf("réponse transporteur %s", resp.Status)}
	}

	var quotes []carrierQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, &ShippingUnavailableError{Err: fmt.Errorf("payload transporteur illisible: %w", err)}
	}

	options := make([]models.ShippingOption, 0, len(quotes))
	for _, q := range quotes {
		// Le transporteur renvoie aussi les services indisponibles, marqués
		// par un champ error : on les écarte à la frontière.
		if q.Error != "" {
			continue
		}
		price, err := q.Price.Float64()
		if err != nil || price <= 0 {
			continue
		}
		days := q.DeliveryDays
		if days <= 0 {
			days = CarrierSLADays(q.Company.Name)
		}
		options = append(options, models.ShippingOption{
			ID:           q.ID.String(),
			Carrier:      q.Company.Name,
			Service:      q.Name,
			Price:        price,
			DeliveryDays: days,
			Source:       models.ShippingSourceCarrier,
		})
	}
	return options, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
