package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrCEPNotFound - le CEP est bien formé mais inconnu du référentiel.
var ErrCEPNotFound = errors.New("CEP introuvable")

// LookupError - échec réseau, avec distinction délai dépassé / rejet serveur
// (les couches UI retombent sur la saisie manuelle uniquement sur timeout).
type LookupError struct {
	Timeout bool
	Err     error
}

func (e *LookupError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("consultation d'adresse: délai dépassé (%v)", e.Err)
	}
	return fmt.Sprintf("consultation d'adresse: %v", e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Result - forme interne, mappée depuis le payload ViaCEP à la frontière.
type Result struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Client - client de consultation d'adresse par CEP (API type ViaCEP).
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://viacep.com.br/ws"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup résout un CEP (8 chiffres, tirets tolérés) en adresse.
func (c *Client) Lookup(ctx context.Context, cep string) (Result, error) {
	cep = SanitizeCEP(cep)
	if len(cep) != 8 {
		return Result{}, fmt.Errorf("CEP mal formé: attendu 8 chiffres")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s/json", c.baseURL, cep), nil)
	if err != nil {
		return Result{}, fmt.Errorf("construction requête adresse: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, &LookupError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, &LookupError{Err: fmt.Errorf("réponse %s", resp.Status)}
	}

	// ViaCEP signale un CEP inconnu par {"erro": true} avec un statut 200.
	var payload struct {
		Street       string `json:"logradouro"`
		Neighborhood string `json:"bairro"`
		City         string `json:"localidade"`
		State        string `json:"uf"`
		Erro         bool   `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, &LookupError{Err: fmt.Errorf("payload adresse illisible: %w", err)}
	}
	if payload.Erro {
		return Result{}, ErrCEPNotFound
	}

	return Result{
		Street:       payload.Street,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        strings.ToUpper(payload.State),
	}, nil
}

// SanitizeCEP ne conserve que les chiffres.
func SanitizeCEP(cep string) string {
	var b strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
