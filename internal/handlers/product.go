package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/cache"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/services"
	"farmavida_back_end/internal/store"
)

//
// --- HANDLERS PRODUITS ---
//

// 🟢 Créer un produit (admin)
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" || p.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'name' et 'category' sont obligatoires"})
		return
	}
	if p.Price < 0 || p.Weight < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix et poids doivent être positifs"})
		return
	}

	if err := catalog.AddProduct(c.Request.Context(), &p); err != nil {
		if store.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Un produit avec cet identifiant existe déjà"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 🔄 Indexe dans Elasticsearch
	go services.IndexProduct(context.Background(), p)

	c.JSON(http.StatusOK, p)
}

// 🟢 GET /api/products
func GetAllProducts(c *gin.Context) {
	products, err := catalog.GetActiveProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/:id
func GetProduct(c *gin.Context) {
	id := c.Param("id")

	// 1. Essayer le cache Redis
	if cached := cache.GetProductFromCache(c.Request.Context(), id); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 2. Mettre en cache
	cache.SetProductCache(c.Request.Context(), product)

	c.JSON(http.StatusOK, product)
}

// 🟢 GET /api/products/category/:category
func GetProductsByCategory(c *gin.Context) {
	products, err := catalog.GetProductsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/featured
func GetFeaturedProducts(c *gin.Context) {
	products, err := catalog.GetFeaturedProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/search?q=...
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' requis"})
		return
	}

	// Elasticsearch d'abord, repli sur un filtre catalogue si indisponible
	results, err := services.SearchProducts(c.Request.Context(), query)
	if err != nil {
		products, err := catalog.GetActiveProducts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		results = services.FilterProducts(products, query)
	}

	c.JSON(http.StatusOK, results)
}

// 🟢 Mettre à jour un produit (admin)
func UpdateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = c.Param("id")

	if err := catalog.UpdateProduct(c.Request.Context(), p); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cache.InvalidateProductCache(c.Request.Context(), p.ID)
	go services.IndexProduct(context.Background(), p)

	c.JSON(http.StatusOK, p)
}

// 🟢 Supprimer un produit (admin)
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cache.InvalidateProductCache(c.Request.Context(), id)
	go services.RemoveProduct(context.Background(), id)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// 🟢 POST /api/admin/products/:id/image - upload puis URL signée
func UploadProductImage(c *gin.Context) {
	id := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' requis"})
		return
	}

	objectName, err := services.UploadProductImage(c.Request.Context(), id, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	product, err := catalog.GetProduct(c.Request.Context(), id)
	if err == nil {
		product.ImageRef = objectName
		if err := catalog.UpdateProduct(c.Request.Context(), product); err == nil {
			cache.InvalidateProductCache(c.Request.Context(), id)
		}
	}

	signedURL, err := services.GenerateSignedURL(c.Request.Context(), objectName, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"image_ref": objectName})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_ref": objectName, "image_url": signedURL})
}
