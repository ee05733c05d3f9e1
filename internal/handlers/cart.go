package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/database"
	"farmavida_back_end/internal/models"
)

// Le panier vit dans Redis, jamais dans le store: il est jeté après la
// soumission de la commande.
const cartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string { return "cart:" + userID }

func loadCart(ctx context.Context, userID string) []models.CartItem {
	data, err := database.RedisClient.Get(ctx, cartKey(userID)).Result()
	if err != nil {
		return []models.CartItem{}
	}
	var cart []models.CartItem
	if json.Unmarshal([]byte(data), &cart) != nil {
		return []models.CartItem{}
	}
	return cart
}

func saveCart(ctx context.Context, userID string, cart []models.CartItem) {
	jsonData, _ := json.Marshal(cart)
	database.RedisClient.Set(ctx, cartKey(userID), jsonData, cartTTL)
}

// 🟢 GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	cart := loadCart(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"items":    cart,
		"subtotal": models.CartSubtotal(cart),
		"weight":   models.CartWeight(cart),
	})
}

// 🟢 POST /api/cart/add
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if item.ProductID == "" || item.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id et quantité positive requis"})
		return
	}

	// Le prix et le poids viennent du catalogue, jamais du client
	product, err := catalog.GetProduct(c.Request.Context(), item.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	item.Name = product.Name
	item.UnitPrice = product.Price
	item.Weight = product.Weight

	cart := loadCart(c.Request.Context(), userID)

	// Vérifie si le produit est déjà présent
	found := false
	for i := range cart {
		if cart[i].ProductID == item.ProductID {
			cart[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, item)
	}

	saveCart(c.Request.Context(), userID, cart)
	c.JSON(http.StatusOK, cart)
}

// 🟢 DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")
	cart := loadCart(c.Request.Context(), userID)

	filtered := make([]models.CartItem, 0, len(cart))
	for _, item := range cart {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}

	saveCart(c.Request.Context(), userID, filtered)
	c.JSON(http.StatusOK, filtered)
}

// 🟢 DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	database.RedisClient.Del(c.Request.Context(), cartKey(userID))
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
