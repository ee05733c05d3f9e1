package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmavida_back_end/internal/store"
)

func newEngine(t *testing.T) *store.MemoryEngine {
	t.Helper()
	engine := store.NewMemoryEngine()
	require.NoError(t, engine.Migrate(context.Background()))
	return engine
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	engine := store.NewMemoryEngine()
	require.NoError(t, engine.Migrate(ctx))
	require.NoError(t, engine.Add(ctx, "products", store.Document{ID: "p1", Data: []byte(`{}`)}))

	// Relancer la migration ne détruit pas les données existantes
	require.NoError(t, engine.Migrate(ctx))
	assert.Equal(t, store.SchemaVersion, engine.SchemaVersionApplied())

	doc, err := engine.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", doc.ID)
}

func TestOpsBeforeMigrate(t *testing.T) {
	t.Parallel()

	engine := store.NewMemoryEngine()
	_, err := engine.Get(context.Background(), "products", "p1")
	var unsupported *store.UnsupportedStorageError
	assert.ErrorAs(t, err, &unsupported)
}

func TestAddAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := newEngine(t)

	doc := store.Document{
		ID:      "p1",
		Data:    []byte(`{"name":"Dipirona 500mg"}`),
		Indexes: map[string]string{"category": "analgesicos", "status": "active"},
	}
	require.NoError(t, engine.Add(ctx, "products", doc))

	got, err := engine.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.JSONEq(t, `{"name":"Dipirona 500mg"}`, string(got.Data))

	// Ajout sur clé existante refusé
	err = engine.Add(ctx, "products", doc)
	assert.True(t, store.IsDuplicateKey(err))
}

func TestGetMissing(t *testing.T) {
	t.Parallel()
	engine := newEngine(t)

	_, err := engine.Get(context.Background(), "products", "inexistant")
	assert.True(t, store.IsNotFound(err))
}

func TestPutUpsertsAndBumpsVersion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := newEngine(t)

	require.NoError(t, engine.Put(ctx, "products", store.Document{ID: "p1", Data: []byte(`{"v":1}`)}))
	require.NoError(t, engine.Put(ctx, "products", store.Document{ID: "p1", Data: []byte(`{"v":2}`)}))

	got, err := engine.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.JSONEq(t, `{"v":2}`, string(got.Data))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := newEngine(t)

	require.NoError(t, engine.Add(ctx, "products", store.Document{ID: "p1", Data: []byte(`{}`)}))
	require.NoError(t, engine.Delete(ctx, "products", "p1"))

	_, err := engine.Get(ctx, "products", "p1")
	assert.True(t, store.IsNotFound(err))

	// Supprimer une clé absente est une erreur explicite
	assert.True(t, store.IsNotFound(engine.Delete(ctx, "products", "p1")))
}

func TestQueryByIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := newEngine(t)

	require.NoError(t, engine.Add(ctx, "products", store.Document{
		ID: "p1", Data: []byte(`{}`), Indexes: map[string]string{"category": "vitaminas", "status": "active"},
	}))
	require.NoError(t, engine.Add(ctx, "products", store.Document{
		ID: "p2", Data: []byte(`{}`), Indexes: map[string]string{"category": "analgesicos", "status": "active"},
	}))

	docs, err := engine.QueryByIndex(ctx, "products", "category", "vitaminas")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)

	// Index non déclaré refusé
	_, err = engine.QueryByIndex(ctx, "products", "price", "10")
	assert.Error(t, err)
}

func TestCompareAndSwap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := newEngine(t)

	require.NoError(t, engine.Add(ctx, "coupons", store.Document{ID: "BEMVINDO10", Data: []byte(`{"uses":0}`)}))

	// Succès avec la bonne version
	require.NoError(t, engine.CompareAndSwap(ctx, "coupons",
		store.Document{ID: "BEMVINDO10", Data: []byte(`{"uses":1}`)}, 1))

	got, err := engine.Get(ctx, "coupons", "BEMVINDO10")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)

	// Version périmée refusée
	err = engine.CompareAndSwap(ctx, "coupons",
		store.Document{ID: "BEMVINDO10", Data: []byte(`{"uses":2}`)}, 1)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	// Document absent
	err = engine.CompareAndSwap(ctx, "coupons",
		store.Document{ID: "ABSENT", Data: []byte(`{}`)}, 1)
	assert.True(t, store.IsNotFound(err))
}

func TestDocumentIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := newEngine(t)

	original := store.Document{ID: "p1", Data: []byte(`{"v":1}`)}
	require.NoError(t, engine.Add(ctx, "products", original))

	// Modifier le document retourné ne doit pas toucher le store
	got, err := engine.Get(ctx, "products", "p1")
	require.NoError(t, err)
	got.Data[2] = 'x'

	again, err := engine.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(again.Data))
}
