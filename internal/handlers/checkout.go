package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/cache"
	"farmavida_back_end/internal/checkout"
	"farmavida_back_end/internal/database"
	"farmavida_back_end/internal/gateway"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/utils"
)

//
// --- HANDLERS CHECKOUT ---
//

// 🟢 POST /api/checkout
// Assemble la commande depuis le panier Redis + le corps de la requête, la
// soumet à la passerelle, puis applique les suites locales. Une soumission
// par session: après un timeout le client relit via GET /api/orders/:id.
func SubmitOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var req struct {
		Customer      models.Customer        `json:"customer"`
		Address       models.Address         `json:"address"`
		Shipping      *models.ShippingOption `json:"shipping"`
		CouponCode    string                 `json:"coupon_code"`
		PaymentMethod string                 `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := loadCart(c.Request.Context(), userID)

	session := &checkout.Session{
		UserID:        userID,
		Items:         cart,
		Customer:      req.Customer,
		Address:       req.Address,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
	}
	session.Customer.UserID = userID
	if email := c.GetString("email"); email != "" && session.Customer.Email == "" {
		session.Customer.Email = email
	}
	if req.CouponCode != "" {
		session.Coupon = &models.Coupon{Code: req.CouponCode}
	}

	confirmation, err := assembler.SubmitOrder(c.Request.Context(), session)
	if err != nil {
		var validationErr *checkout.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
			return
		}
		if gateway.IsGatewayTimeout(err) {
			// Sort indéterminé: le client doit relire, jamais resoumettre
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error":   "La passerelle de paiement n'a pas répondu, le sort de la commande est indéterminé",
				"timeout": true,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// Panier consommé, confirmation en cache pour réaffichage
	database.RedisClient.Del(c.Request.Context(), cartKey(userID))
	cache.SetOrderConfirmation(c.Request.Context(), confirmation)

	go func(conf models.OrderConfirmation) {
		if err := utils.SendOrderConfirmationEmail(&conf); err != nil {
			log.Printf("⚠️ Envoi e-mail confirmation %s: %v", conf.ID, err)
		}
	}(*confirmation)

	response := gin.H{"order": confirmation}

	// Paiement PIX: on joint le QR BR Code
	if req.PaymentMethod == "pix" {
		pixKey := os.Getenv("PIX_KEY")
		if pixKey != "" {
			qr, err := utils.GeneratePixQR(pixKey, "FARMAVIDA", "SAO PAULO", confirmation.ID, confirmation.Total)
			if err != nil {
				log.Printf("⚠️ Génération QR PIX pour %s: %v", confirmation.ID, err)
			} else {
				response["pix_qr"] = qr
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// 🟢 GET /api/orders/:id
// Relit une commande: cache local d'abord, passerelle sinon (la passerelle
// reste le système de référence).
func GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	if cached := cache.GetOrderConfirmation(c.Request.Context(), orderID); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	confirmation, err := assembler.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if gateway.IsGatewayTimeout(err) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Passerelle de paiement injoignable", "timeout": true})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	cache.SetOrderConfirmation(c.Request.Context(), confirmation)
	c.JSON(http.StatusOK, confirmation)
}

// 🟢 POST /api/admin/orders/:id/refund
// Demande le remboursement auprès de la passerelle puis invalide la
// confirmation en cache (le statut a changé côté passerelle).
func RefundOrder(c *gin.Context) {
	orderID := c.Param("id")

	if err := assembler.RefundOrder(c.Request.Context(), orderID); err != nil {
		if gateway.IsGatewayTimeout(err) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Passerelle de paiement injoignable", "timeout": true})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	cache.InvalidateOrderConfirmation(c.Request.Context(), orderID)
	c.JSON(http.StatusOK, gin.H{"message": "Remboursement demandé", "order_id": orderID})
}
