package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const roleAdmin = "admin"

// RequireAdmin protège le back-office (catalogue, coupons, grille de fret,
// expéditions). Le rôle vient des claims posés par AuthRequired.
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != roleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
