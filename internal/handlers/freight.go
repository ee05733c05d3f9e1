package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/address"
	"farmavida_back_end/internal/freight"
	"farmavida_back_end/internal/models"
)

//
// --- HANDLERS FRET ---
//

// 🟢 POST /api/freight/quote
// Cote la livraison pour un CEP et un panier. Table locale d'abord, API
// transporteur en repli. Jamais de tarif implicite: si rien ne couvre la
// demande, on répond 503 et le client affiche "livraison indisponible".
func QuoteFreight(c *gin.Context) {
	var req struct {
		CEP    string            `json:"cep"`
		Items  []models.CartItem `json:"items"`
		Weight float64           `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CEP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CEP requis"})
		return
	}

	weight := req.Weight
	if len(req.Items) > 0 {
		weight = models.CartWeight(req.Items)
	}
	if weight <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Poids ou panier requis"})
		return
	}

	// L'état du CEP sert d'indice de région pour la table locale. Un échec
	// de consultation n'est pas bloquant: on cotera en couverture nationale.
	var regionHint string
	if result, err := addresses.Lookup(c.Request.Context(), req.CEP); err == nil {
		regionHint = result.State
	} else {
		log.Printf("⚠️ Consultation CEP %s pour cotation: %v", req.CEP, err)
	}

	options, err := resolver.Resolve(c.Request.Context(), freight.Request{
		OriginCEP:      originCEP,
		DestinationCEP: req.CEP,
		Weight:         weight,
		RegionHint:     regionHint,
	})
	if err != nil {
		var unavailable *freight.ShippingUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Livraison indisponible pour cette destination",
				"timeout": unavailable.Timeout,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": options, "weight": weight})
}

// 🟢 GET /api/address/:cep
func LookupAddress(c *gin.Context) {
	result, err := addresses.Lookup(c.Request.Context(), c.Param("cep"))
	if err != nil {
		if errors.Is(err, address.ErrCEPNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "CEP introuvable"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
