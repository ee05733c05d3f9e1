package cache

import (
	"context"
	"encoding/json"
	"time"

	"farmavida_back_end/internal/database"
	"farmavida_back_end/internal/models"
)

const (
	ProductCacheTTL = 10 * time.Minute
	OrderCacheTTL   = 24 * time.Hour
)

// GetProductFromCache récupère un produit depuis Redis, nil si absent.
func GetProductFromCache(ctx context.Context, productID string) *models.Product {
	data, err := database.Redis.Get(ctx, "product:"+productID).Result()
	if err != nil {
		return nil
	}
	var product models.Product
	if json.Unmarshal([]byte(data), &product) != nil {
		return nil
	}
	return &product
}

// SetProductCache met un produit en cache.
func SetProductCache(ctx context.Context, product models.Product) {
	jsonData, err := json.Marshal(product)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, "product:"+product.ID, jsonData, ProductCacheTTL)
}

// InvalidateProductCache supprime un produit du cache (après mise à jour ou
// décrément de stock).
func InvalidateProductCache(ctx context.Context, productID string) {
	database.Redis.Del(ctx, "product:"+productID)
}

// SetOrderConfirmation conserve l'écran de confirmation localement. La
// passerelle reste le système de référence: ce cache ne sert qu'à réafficher
// la confirmation sans rappeler la passerelle.
func SetOrderConfirmation(ctx context.Context, confirmation *models.OrderConfirmation) {
	jsonData, err := json.Marshal(confirmation)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, "order:"+confirmation.ID, jsonData, OrderCacheTTL)
}

// InvalidateOrderConfirmation supprime une confirmation du cache (après un
// remboursement, le statut côté passerelle a changé).
func InvalidateOrderConfirmation(ctx context.Context, orderID string) {
	database.Redis.Del(ctx, "order:"+orderID)
}

// GetOrderConfirmation relit une confirmation en cache, nil si absente.
func GetOrderConfirmation(ctx context.Context, orderID string) *models.OrderConfirmation {
	data, err := database.Redis.Get(ctx, "order:"+orderID).Result()
	if err != nil {
		return nil
	}
	var confirmation models.OrderConfirmation
	if json.Unmarshal([]byte(data), &confirmation) != nil {
		return nil
	}
	return &confirmation
}
