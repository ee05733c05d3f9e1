package handlers

import (
	"farmavida_back_end/internal/address"
	"farmavida_back_end/internal/checkout"
	"farmavida_back_end/internal/freight"
	"farmavida_back_end/internal/repository"
)

// Dépendances partagées par tous les handlers, injectées au démarrage.
var (
	catalog    *repository.CatalogRepository
	promotions *repository.PromotionRepository
	logistics  *repository.LogisticsRepository
	resolver   *freight.Resolver
	assembler  *checkout.Assembler
	addresses  *address.Client

	// CEP d'expédition de l'entrepôt, origine de toutes les cotations.
	originCEP string
)

// Init branche les handlers sur les dépôts et services construits dans main.
func Init(
	cat *repository.CatalogRepository,
	promo *repository.PromotionRepository,
	logi *repository.LogisticsRepository,
	res *freight.Resolver,
	asm *checkout.Assembler,
	addr *address.Client,
	origin string,
) {
	catalog = cat
	promotions = promo
	logistics = logi
	resolver = res
	assembler = asm
	addresses = addr
	originCEP = origin
}
