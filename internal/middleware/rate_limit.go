package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmavida_back_end/internal/database"
)

const (
	// Limites par endpoint
	CouponVerifyMaxAttempts = 10
	CheckoutMaxAttempts     = 5

	// Durées de cooldown
	CouponVerifyCooldown = 5 * time.Minute
	CheckoutCooldown     = 10 * time.Minute
)

// CouponVerifyRateLimit limite les vérifications de coupon par IP (évite
// l'énumération de codes).
func CouponVerifyRateLimit() gin.HandlerFunc {
	return ipRateLimit("coupon_verify", CouponVerifyMaxAttempts, CouponVerifyCooldown)
}

// CheckoutRateLimit limite les soumissions de commande par IP.
func CheckoutRateLimit() gin.HandlerFunc {
	return ipRateLimit("checkout", CheckoutMaxAttempts, CheckoutCooldown)
}

func ipRateLimit(name string, maxAttempts int, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		ip := c.ClientIP()
		key := name + "_attempts:" + ip
		cooldownKey := name + "_cooldown:" + ip

		// Vérifier si l'IP est en cooldown
		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de requêtes. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		// Vérifier le nombre de tentatives
		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= maxAttempts {
			// Activer le cooldown
			database.Redis.Set(ctx, cooldownKey, "1", cooldown)
			database.Redis.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de requêtes. Réessayez plus tard",
				"retry_after": int(cooldown.Seconds()),
			})
			c.Abort()
			return
		}

		// Incrémenter le compteur
		pipe := database.Redis.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, cooldown)
		pipe.Exec(ctx)

		c.Next()
	}
}
