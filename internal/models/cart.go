package models

// CartItem - transient, jamais persisté côté serveur : le panier vit dans la
// session (Redis) et est jeté après soumission de la commande.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Weight    float64 `json:"weight"`
}

// CartSubtotal calcule le sous-total d'un panier.
func CartSubtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// CartWeight calcule le poids total facturable d'un panier.
func CartWeight(items []CartItem) float64 {
	var weight float64
	for _, item := range items {
		weight += item.Weight * float64(item.Quantity)
	}
	return weight
}
