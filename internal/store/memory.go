package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryEngine - moteur en mémoire, même contrat que ScyllaEngine.
// Sert de repli quand aucun stockage persistant n'est disponible
// (UnsupportedStorageError au démarrage) et de moteur pour les tests.
// Les données sont perdues à l'arrêt : c'est le mode dégradé assumé.
type MemoryEngine struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	version     int
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{collections: make(map[string]map[string]Document)}
}

func (e *MemoryEngine) Migrate(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Idempotent : ne recrée jamais une collection existante.
	for _, c := range Collections {
		if _, ok := e.collections[c.Name]; !ok {
			e.collections[c.Name] = make(map[string]Document)
		}
	}
	e.version = SchemaVersion
	return nil
}

// SchemaVersionApplied retourne la version de schéma appliquée (tests).
func (e *MemoryEngine) SchemaVersionApplied() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

func (e *MemoryEngine) table(collection string) (map[string]Document, *Collection, error) {
	c := CollectionByName(collection)
	if c == nil {
		return nil, nil, fmt.Errorf("collection inconnue: %s", collection)
	}
	t, ok := e.collections[collection]
	if !ok {
		return nil, nil, &UnsupportedStorageError{Reason: "collection non migrée: " + collection}
	}
	return t, c, nil
}

func (e *MemoryEngine) Get(_ context.Context, collection, id string) (Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, _, err := e.table(collection)
	if err != nil {
		return Document{}, err
	}
	doc, ok := t[id]
	if !ok {
		return Document{}, &NotFoundError{Collection: collection, Key: id}
	}
	return copyDocument(doc), nil
}

func (e *MemoryEngine) GetAll(_ context.Context, collection string) ([]Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, _, err := e.table(collection)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(t))
	for _, doc := range t {
		docs = append(docs, copyDocument(doc))
	}
	return docs, nil
}

func (e *MemoryEngine) Add(_ context.Context, collection string, doc Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, _, err := e.table(collection)
	if err != nil {
		return err
	}
	if _, exists := t[doc.ID]; exists {
		return &DuplicateKeyError{Collection: collection, Key: doc.ID}
	}
	doc.Version = 1
	t[doc.ID] = copyDocument(doc)
	return nil
}

func (e *MemoryEngine) Put(_ context.Context, collection string, doc Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, _, err := e.table(collection)
	if err != nil {
		return err
	}
	doc.Version = t[doc.ID].Version + 1
	t[doc.ID] = copyDocument(doc)
	return nil
}

func (e *MemoryEngine) Delete(_ context.Context, collection, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, _, err := e.table(collection)
	if err != nil {
		return err
	}
	if _, exists := t[id]; !exists {
		return &NotFoundError{Collection: collection, Key: id}
	}
	delete(t, id)
	return nil
}

func (e *MemoryEngine) QueryByIndex(_ context.Context, collection, index, value string) ([]Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, c, err := e.table(collection)
	if err != nil {
		return nil, err
	}
	if !c.HasIndex(index) {
		return nil, fmt.Errorf("index '%s' non déclaré pour la collection '%s'", index, collection)
	}

	var docs []Document
	for _, doc := range t {
		if doc.Indexes[index] == value {
			docs = append(docs, copyDocument(doc))
		}
	}
	return docs, nil
}

func (e *MemoryEngine) CompareAndSwap(_ context.Context, collection string, doc Document, expectedVersion int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, _, err := e.table(collection)
	if err != nil {
		return err
	}
	current, exists := t[doc.ID]
	if !exists {
		return &NotFoundError{Collection: collection, Key: doc.ID}
	}
	if current.Version != expectedVersion {
		return ErrVersionConflict
	}
	doc.Version = expectedVersion + 1
	t[doc.ID] = copyDocument(doc)
	return nil
}

func copyDocument(doc Document) Document {
	out := doc
	out.Data = append([]byte(nil), doc.Data...)
	if doc.Indexes != nil {
		out.Indexes = make(map[string]string, len(doc.Indexes))
		for k, v := range doc.Indexes {
			out.Indexes[k] = v
		}
	}
	return out
}
