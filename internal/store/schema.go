package store

// SchemaVersion - version déclarée du schéma. Toute ouverture avec une
// version stockée inférieure déclenche la migration (idempotente).
const SchemaVersion = 2

// Collection décrit un object store : une clé primaire (id) et zéro ou
// plusieurs index secondaires déclarés à la création.
type Collection struct {
	Name    string
	Indexes []string
}

// Collections - le schéma complet de la base farmavida.
// La collection users est hors périmètre métier mais déclarée pour
// conserver le layout de la base.
var Collections = []Collection{
	{Name: "products", Indexes: []string{"category", "status"}},
	{Name: "coupons"},
	{Name: "shipments", Indexes: []string{"carrier", "status"}},
	{Name: "freight_rules", Indexes: []string{"region", "carrier"}},
	{Name: "users"},
}

// CollectionByName retourne la collection déclarée, ou nil si inconnue.
func CollectionByName(name string) *Collection {
	for i := range Collections {
		if Collections[i].Name == name {
			return &Collections[i]
		}
	}
	return nil
}

// HasIndex vérifie qu'un index secondaire est bien déclaré pour la collection.
func (c *Collection) HasIndex(name string) bool {
	for _, idx := range c.Indexes {
		if idx == name {
			return true
		}
	}
	return false
}
