package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"farmavida_back_end/internal/address"
	"farmavida_back_end/internal/checkout"
	"farmavida_back_end/internal/config"
	"farmavida_back_end/internal/database"
	"farmavida_back_end/internal/freight"
	"farmavida_back_end/internal/gateway"
	"farmavida_back_end/internal/handlers"
	"farmavida_back_end/internal/middleware"
	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/repository"
	"farmavida_back_end/internal/routes"
	"farmavida_back_end/internal/utils"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	middleware.SetJWTSecret(cfg.JWT.Secret)
	utils.InitMailer(cfg.SMTP)

	stripe.Key = cfg.Stripe.SecretKey
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases(cfg)
	defer database.CloseStore()

	// Migration idempotente du schéma au démarrage
	if err := database.Engine.Migrate(ctx); err != nil {
		log.Fatalf("❌ Échec migration du schéma: %v", err)
	}
	log.Println("✅ Schéma du store à jour")

	// Dépôts et services
	catalog := repository.NewCatalogRepository(database.Engine)
	promotions := repository.NewPromotionRepository(database.Engine)
	logistics := repository.NewLogisticsRepository(database.Engine)

	carrierClient := freight.NewCarrierClient(
		cfg.Carrier.BaseURL,
		cfg.Carrier.Token,
		time.Duration(cfg.Carrier.TimeoutSeconds)*time.Second,
	)
	resolver := freight.NewResolver(logistics, carrierClient)

	addresses := address.NewClient(cfg.ViaCEP.BaseURL, time.Duration(cfg.ViaCEP.TimeoutSeconds)*time.Second)

	assembler := checkout.NewAssembler(gateway.NewStripeGateway(), promotions, catalog, logistics)

	handlers.Init(catalog, promotions, logistics, resolver, assembler, addresses, cfg.Carrier.OriginCEP)

	seedBootstrapData(ctx, promotions, logistics)

	r := gin.Default()
	routes.RegisterRoutes(r, cfg)

	log.Println("🚀 Serveur FarmaVida lancé sur le port", cfg.Server.Port)
	r.Run(":" + cfg.Server.Port)
}

// seedBootstrapData installe les données de démarrage sur une base vierge:
// le coupon de bienvenue et une grille de fret nationale pour que la
// cotation fonctionne avant toute configuration admin.
func seedBootstrapData(ctx context.Context, promotions *repository.PromotionRepository, logistics *repository.LogisticsRepository) {
	coupons, err := promotions.GetAllCoupons(ctx)
	if err == nil && len(coupons) == 0 {
		welcome := models.Coupon{
			Code:      "BEMVINDO10",
			Kind:      models.CouponKindPercent,
			Value:     10,
			MaxUses:   100,
			ExpiresAt: time.Now().AddDate(1, 0, 0),
		}
		if err := promotions.AddCoupon(ctx, &welcome); err != nil {
			log.Printf("⚠️ Seed coupon de bienvenue: %v", err)
		} else {
			log.Println("✅ Coupon de bienvenue BEMVINDO10 créé")
		}
	}

	rules, err := logistics.GetAllFreightRules(ctx)
	if err == nil && len(rules) == 0 {
		defaults := []models.FreightRule{
			{Region: models.RegionCountryWide, MinWeight: 0, MaxWeight: 1, Price: 19.90, Carrier: "CORREIOS"},
			{Region: models.RegionCountryWide, MinWeight: 1, MaxWeight: 5, Price: 29.90, Carrier: "CORREIOS"},
			{Region: models.RegionCountryWide, MinWeight: 5, MaxWeight: 30, Price: 49.90, Carrier: "CORREIOS"},
		}
		for i := range defaults {
			if err := logistics.AddFreightRule(ctx, &defaults[i]); err != nil {
				log.Printf("⚠️ Seed règle de fret: %v", err)
			}
		}
		log.Println("✅ Grille de fret nationale installée")
	}
}
