package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"farmavida_back_end/internal/database"
	"farmavida_back_end/internal/models"
)

const productIndex = "products"

// IndexProduct indexe un produit pour la recherche plein texte. Sans
// Elasticsearch on ne fait rien: la recherche retombera sur le catalogue.
func IndexProduct(ctx context.Context, product models.Product) {
	if database.Elastic == nil {
		return
	}

	body, err := json.Marshal(product)
	if err != nil {
		log.Printf("⚠️ Sérialisation produit %s pour indexation: %v", product.ID, err)
		return
	}

	res, err := database.Elastic.Index(
		productIndex,
		bytes.NewReader(body),
		database.Elastic.Index.WithDocumentID(product.ID),
		database.Elastic.Index.WithContext(ctx),
	)
	if err != nil {
		log.Printf("⚠️ Indexation produit %s: %v", product.ID, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Indexation produit %s: réponse %s", product.ID, res.Status())
	}
}

// RemoveProduct retire un produit de l'index.
func RemoveProduct(ctx context.Context, productID string) {
	if database.Elastic == nil {
		return
	}

	res, err := database.Elastic.Delete(productIndex, productID,
		database.Elastic.Delete.WithContext(ctx))
	if err != nil {
		log.Printf("⚠️ Suppression produit %s de l'index: %v", productID, err)
		return
	}
	res.Body.Close()
}

// SearchProducts interroge l'index plein texte (nom + catégorie). Retourne
// une erreur si Elasticsearch est absent: l'appelant retombe sur un filtre
// catalogue.
func SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	if database.Elastic == nil {
		return nil, fmt.Errorf("Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(searchBody); err != nil {
		return nil, err
	}

	res, err := database.Elastic.Search(
		database.Elastic.Search.WithContext(ctx),
		database.Elastic.Search.WithIndex(productIndex),
		database.Elastic.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("recherche Elasticsearch: %s", res.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}

// FilterProducts - repli sans Elasticsearch: filtre insensible à la casse
// sur le nom et la catégorie.
func FilterProducts(products []models.Product, query string) []models.Product {
	query = strings.ToLower(query)
	matched := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			matched = append(matched, p)
		}
	}
	return matched
}
