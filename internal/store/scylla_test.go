package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableCQL(t *testing.T) {
	t.Parallel()

	cql := createTableCQL(Collection{Name: "products", Indexes: []string{"category", "status"}})
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS products (id text PRIMARY KEY, doc text, version bigint, category text, status text)",
		cql)

	// Collection sans index : uniquement les colonnes de base
	cql = createTableCQL(Collection{Name: "coupons"})
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS coupons (id text PRIMARY KEY, doc text, version bigint)",
		cql)
}

func TestCreateIndexCQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"CREATE INDEX IF NOT EXISTS freight_rules_region_idx ON freight_rules (region)",
		createIndexCQL("freight_rules", "region"))
}

func TestMigrationStatementsCoverSchema(t *testing.T) {
	t.Parallel()

	stmts := MigrationStatements()

	// Une table par collection + un index par colonne déclarée
	wantCount := 0
	for _, c := range Collections {
		wantCount += 1 + len(c.Indexes)
	}
	require.Len(t, stmts, wantCount)

	// Toutes les instructions sont idempotentes
	for _, stmt := range stmts {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}

func TestCollectionByName(t *testing.T) {
	t.Parallel()

	c := CollectionByName("products")
	require.NotNil(t, c)
	assert.True(t, c.HasIndex("category"))
	assert.False(t, c.HasIndex("price"))

	assert.Nil(t, CollectionByName("inconnue"))
}
