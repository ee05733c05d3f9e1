package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/store"
)

//
// --- HANDLERS LOGISTIQUE (admin) ---
//

// 🟢 Créer une règle de fret (admin)
func CreateFreightRule(c *gin.Context) {
	var rule models.FreightRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := logistics.AddFreightRule(c.Request.Context(), &rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// 🟢 Lister les règles de fret (admin)
func GetAllFreightRules(c *gin.Context) {
	// Filtres optionnels par région ou transporteur
	if region := c.Query("region"); region != "" {
		rules, err := logistics.RulesForRegion(c.Request.Context(), region)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rules)
		return
	}
	if carrier := c.Query("carrier"); carrier != "" {
		rules, err := logistics.RulesForCarrier(c.Request.Context(), carrier)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rules)
		return
	}

	rules, err := logistics.GetAllFreightRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rules)
}

// 🟢 Mettre à jour une règle de fret (admin)
func UpdateFreightRule(c *gin.Context) {
	var rule models.FreightRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.ID = c.Param("id")

	if err := logistics.UpdateFreightRule(c.Request.Context(), rule); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Règle introuvable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// 🟢 Supprimer une règle de fret (admin)
func DeleteFreightRule(c *gin.Context) {
	if err := logistics.DeleteFreightRule(c.Request.Context(), c.Param("id")); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Règle introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Règle supprimée"})
}

// 🟢 Lister les expéditions (admin)
func GetAllShipments(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		shipments, err := logistics.ShipmentsByStatus(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shipments)
		return
	}
	if carrier := c.Query("carrier"); carrier != "" {
		shipments, err := logistics.ShipmentsByCarrier(c.Request.Context(), carrier)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shipments)
		return
	}

	shipments, err := logistics.GetAllShipments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, shipments)
}

// 🟢 GET /api/admin/shipments/:id
func GetShipment(c *gin.Context) {
	shipment, err := logistics.GetShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expédition introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// 🟢 PATCH /api/admin/shipments/:id/status
func UpdateShipmentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidShipmentStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut d'expédition invalide: " + req.Status})
		return
	}

	shipment, err := logistics.UpdateShipmentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expédition introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, shipment)
}
