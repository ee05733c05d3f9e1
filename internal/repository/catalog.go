package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmavida_back_end/internal/models"
	"farmavida_back_end/internal/store"
)

const productsCollection = "products"

// casRetries - nombre d'essais des boucles compare-and-swap avant abandon.
const casRetries = 5

// CatalogRepository - CRUD + requêtes indexées sur les produits.
type CatalogRepository struct {
	engine store.Engine
}

func NewCatalogRepository(engine store.Engine) *CatalogRepository {
	return &CatalogRepository{engine: engine}
}

func productDocument(p models.Product) (store.Document, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return store.Document{}, fmt.Errorf("sérialisation produit %s: %w", p.ID, err)
	}
	return store.Document{
		ID:   p.ID,
		Data: data,
		Indexes: map[string]string{
			"category": p.Category,
			"status":   p.Status,
		},
	}, nil
}

func decodeProduct(doc store.Document) (models.Product, error) {
	var p models.Product
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return models.Product{}, fmt.Errorf("désérialisation produit %s: %w", doc.ID, err)
	}
	return p, nil
}

func decodeProducts(docs []store.Document) ([]models.Product, error) {
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := decodeProduct(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// AddProduct - CreatedAt est assigné si absent ; DuplicateKeyError si l'id
// existe déjà.
func (r *CatalogRepository) AddProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		return fmt.Errorf("id produit obligatoire")
	}
	if p.Status == "" {
		p.Status = models.ProductStatusActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	doc, err := productDocument(*p)
	if err != nil {
		return err
	}
	return r.engine.Add(ctx, productsCollection, doc)
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (models.Product, error) {
	doc, err := r.engine.Get(ctx, productsCollection, id)
	if err != nil {
		return models.Product{}, err
	}
	return decodeProduct(doc)
}

func (r *CatalogRepository) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	docs, err := r.engine.GetAll(ctx, productsCollection)
	if err != nil {
		return nil, err
	}
	return decodeProducts(docs)
}

// UpdateProduct - remplacement complet de l'enregistrement, pas de patch
// partiel : l'appelant lit, modifie, réécrit. Dernier écrivain gagne.
func (r *CatalogRepository) UpdateProduct(ctx context.Context, p models.Product) error {
	if _, err := r.engine.Get(ctx, productsCollection, p.ID); err != nil {
		return err
	}
	doc, err := productDocument(p)
	if err != nil {
		return err
	}
	return r.engine.Put(ctx, productsCollection, doc)
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.engine.Delete(ctx, productsCollection, id)
}

func (r *CatalogRepository) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	docs, err := r.engine.QueryByIndex(ctx, productsCollection, "category", category)
	if err != nil {
		return nil, err
	}
	return decodeProducts(docs)
}

func (r *CatalogRepository) GetActiveProducts(ctx context.Context) ([]models.Product, error) {
	docs, err := r.engine.QueryByIndex(ctx, productsCollection, "status", models.ProductStatusActive)
	if err != nil {
		return nil, err
	}
	return decodeProducts(docs)
}

// GetFeaturedProducts - pas d'index déclaré sur featured, on filtre en
// mémoire parmi les produits actifs (le rayon vitrine reste petit).
func (r *CatalogRepository) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	active, err := r.GetActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	var featured []models.Product
	for _, p := range active {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// DecrementStock - décrément atomique via compare-and-swap, jamais en
// dessous de zéro. Relit et réessaie en cas de conflit de version.
func (r *CatalogRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantité invalide: %d", quantity)
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		doc, err := r.engine.Get(ctx, productsCollection, id)
		if err != nil {
			return err
		}
		p, err := decodeProduct(doc)
		if err != nil {
			return err
		}

		p.StockQuantity -= quantity
		if p.StockQuantity < 0 {
			p.StockQuantity = 0
		}

		next, err := productDocument(p)
		if err != nil {
			return err
		}
		err = r.engine.CompareAndSwap(ctx, productsCollection, next, doc.Version)
		if err == store.ErrVersionConflict {
			continue
		}
		return err
	}
	return fmt.Errorf("décrément de stock abandonné après %d conflits pour %s", casRetries, id)
}
