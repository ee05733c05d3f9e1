package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/store"
)

//
// --- HANDLERS COUPONS ---
//

// 🟢 GET /api/coupons/verify?code=... (public, rate-limité)
// Répond toujours 200 avec is_valid: un code inconnu n'est pas une erreur.
func VerifyCoupon(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	validation, err := promotions.VerifyCoupon(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if validation.Coupon == nil {
		c.JSON(http.StatusOK, gin.H{"is_valid": false, "reason": "unknown"})
		return
	}
	if !validation.IsValid {
		c.JSON(http.StatusOK, gin.H{"is_valid": false, "reason": validation.Reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_valid": true,
		"code":     validation.Coupon.Code,
		"kind":     validation.Coupon.Kind,
		"value":    validation.Coupon.Value,
	})
}

// 🟢 Créer un coupon (admin)
func CreateCoupon(c *gin.Context) {
	var req struct {
		Code      string    `json:"code"`
		Kind      string    `json:"kind"`
		Value     float64   `json:"value"`
		MaxUses   int       `json:"max_uses"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon := models.Coupon{
		Code:      req.Code,
		Kind:      req.Kind,
		Value:     req.Value,
		MaxUses:   req.MaxUses,
		ExpiresAt: req.ExpiresAt,
	}
	if err := promotions.AddCoupon(c.Request.Context(), &coupon); err != nil {
		if store.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ce code promo existe déjà"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, coupon)
}

// 🟢 Mettre à jour un coupon (admin) - lecture puis remplacement complet,
// le compteur d'utilisations est préservé.
func UpdateCoupon(c *gin.Context) {
	var req struct {
		Kind      string    `json:"kind"`
		Value     float64   `json:"value"`
		MaxUses   int       `json:"max_uses"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := promotions.GetCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	coupon.Kind = req.Kind
	coupon.Value = req.Value
	coupon.MaxUses = req.MaxUses
	coupon.ExpiresAt = req.ExpiresAt

	if err := promotions.UpdateCoupon(c.Request.Context(), coupon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// 🟢 Lister les coupons (admin)
func GetAllCoupons(c *gin.Context) {
	coupons, err := promotions.GetAllCoupons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// 🟢 Supprimer un coupon (admin)
func DeleteCoupon(c *gin.Context) {
	if err := promotions.DeleteCoupon(c.Request.Context(), c.Param("code")); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon supprimé"})
}
