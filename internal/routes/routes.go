package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmavida_back_end/internal/config"
	"farmavida_back_end/internal/handlers"
	"farmavida_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Catalogue (public)
		api.GET("/products", handlers.GetAllProducts)
		api.GET("/products/featured", handlers.GetFeaturedProducts)
		api.GET("/products/search", handlers.SearchProducts)
		api.GET("/products/category/:category", handlers.GetProductsByCategory)
		api.GET("/products/:id", handlers.GetProduct)

		// Coupons (public, rate-limité)
		api.GET("/coupons/verify", middleware.CouponVerifyRateLimit(), handlers.VerifyCoupon)

		// Adresse & fret (public)
		api.GET("/address/:cep", handlers.LookupAddress)
		api.POST("/freight/quote", handlers.QuoteFreight)

		// Panier (authentifié)
		auth := api.Group("")
		auth.Use(middleware.AuthRequired())
		{
			auth.GET("/cart", handlers.GetCart)
			auth.POST("/cart/add", handlers.AddToCart)
			auth.DELETE("/cart/:productId", handlers.RemoveFromCart)
			auth.DELETE("/cart", handlers.ClearCart)

			// Checkout
			auth.POST("/checkout", middleware.CheckoutRateLimit(), handlers.SubmitOrder)
			auth.GET("/orders/:id", handlers.GetOrder)
		}

		// Administration
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.POST("/products", handlers.CreateProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.POST("/products/:id/image", handlers.UploadProductImage)

			admin.POST("/coupons", handlers.CreateCoupon)
			admin.GET("/coupons", handlers.GetAllCoupons)
			admin.PUT("/coupons/:code", handlers.UpdateCoupon)
			admin.DELETE("/coupons/:code", handlers.DeleteCoupon)

			admin.POST("/freight-rules", handlers.CreateFreightRule)
			admin.GET("/freight-rules", handlers.GetAllFreightRules)
			admin.PUT("/freight-rules/:id", handlers.UpdateFreightRule)
			admin.DELETE("/freight-rules/:id", handlers.DeleteFreightRule)

			admin.POST("/orders/:id/refund", handlers.RefundOrder)

			admin.GET("/shipments", handlers.GetAllShipments)
			admin.GET("/shipments/:id", handlers.GetShipment)
			admin.PATCH("/shipments/:id/status", handlers.UpdateShipmentStatus)
		}
	}
}
