package gateway

import (
	"context"
	"errors"
	"fmt"

	"farmavida_back_end/internal/models"
)

// GatewayError - échec d'un appel à la passerelle de paiement. Timeout
// distingue un délai dépassé d'un rejet explicite: seul le premier autorise
// une relecture ultérieure de la commande pour lever l'ambiguïté.
type GatewayError struct {
	Timeout bool
	Status  int
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("passerelle de paiement: délai dépassé (%v)", e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("passerelle de paiement: rejet HTTP %d (%v)", e.Status, e.Err)
	}
	return fmt.Sprintf("passerelle de paiement: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsGatewayTimeout signale qu'on ne sait pas si la commande a été prise.
func IsGatewayTimeout(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Timeout
}

// Gateway - port vers le prestataire de paiement. Une seule soumission par
// commande: les suites d'un timeout passent par GetOrder, jamais par un
// second SubmitOrder.
type Gateway interface {
	SubmitOrder(ctx context.Context, req *models.OrderRequest) (*models.OrderConfirmation, error)
	GetOrder(ctx context.Context, orderID string) (*models.OrderConfirmation, error)
	RefundOrder(ctx context.Context, orderID string) error
}
