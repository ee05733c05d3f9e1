package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gocql/gocql"
)

const schemaInfoKey = "farmavida"

// ScyllaEngine - implémentation ScyllaDB du moteur de stockage. Chaque
// collection devient une table (id text PRIMARY KEY, doc text, version bigint,
// + une colonne text par index secondaire déclaré). Add et CompareAndSwap
// s'appuient sur les LWT (IF NOT EXISTS / IF version = ?).
type ScyllaEngine struct {
	session *gocql.Session
}

func NewScyllaEngine(session *gocql.Session) *ScyllaEngine {
	return &ScyllaEngine{session: session}
}

// =============================================
// MIGRATION DE SCHÉMA (idempotente)
// =============================================

// Migrate crée les tables/index manquants. Relancer la migration sur une
// base déjà à jour ne touche à rien : tout passe par IF NOT EXISTS et la
// version stockée dans schema_info.
func (e *ScyllaEngine) Migrate(ctx context.Context) error {
	if err := e.session.Query(
		`CREATE TABLE IF NOT EXISTS schema_info (key text PRIMARY KEY, version int)`,
	).WithContext(ctx).Exec(); err != nil {
		return &UnsupportedStorageError{Reason: "création schema_info impossible", Err: err}
	}

	var stored int
	err := e.session.Query(`SELECT version FROM schema_info WHERE key = ?`, schemaInfoKey).
		WithContext(ctx).Scan(&stored)
	if err != nil && !errors.Is(err, gocql.ErrNotFound) {
		return &UnsupportedStorageError{Reason: "lecture version de schéma impossible", Err: err}
	}

	if stored >= SchemaVersion {
		log.Printf("✅ Schéma déjà en version %d, aucune migration nécessaire", stored)
		return nil
	}

	for _, stmt := range MigrationStatements() {
		if err := e.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return &UnsupportedStorageError{Reason: "migration de schéma échouée", Err: err}
		}
	}

	if err := e.session.Query(`INSERT INTO schema_info (key, version) VALUES (?, ?)`,
		schemaInfoKey, SchemaVersion).WithContext(ctx).Exec(); err != nil {
		return &UnsupportedStorageError{Reason: "écriture version de schéma impossible", Err: err}
	}

	log.Printf("✅ Schéma migré de la version %d vers %d", stored, SchemaVersion)
	return nil
}

// MigrationStatements retourne la liste ordonnée des CQL de migration.
// Exportée pour pouvoir être vérifiée en test sans cluster.
func MigrationStatements() []string {
	var stmts []string
	for _, c := range Collections {
		stmts = append(stmts, createTableCQL(c))
		for _, idx := range c.Indexes {
			stmts = append(stmts, createIndexCQL(c.Name, idx))
		}
	}
	return stmts
}

func createTableCQL(c Collection) string {
	cols := []string{"id text PRIMARY KEY", "doc text", "version bigint"}
	for _, idx := range c.Indexes {
		cols = append(cols, idx+" text")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", c.Name, strings.Join(cols, ", "))
}

func createIndexCQL(table, column string) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_%s_idx ON %s (%s)", table, column, table, column)
}

// =============================================
// OPÉRATIONS
// =============================================

func (e *ScyllaEngine) Get(ctx context.Context, collection, id string) (Document, error) {
	c := CollectionByName(collection)
	if c == nil {
		return Document{}, fmt.Errorf("collection inconnue: %s", collection)
	}

	sel := append([]string{"doc", "version"}, c.Indexes...)
	cql := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(sel, ", "), c.Name)

	var doc string
	var version int64
	idxValues := make([]string, len(c.Indexes))

	dest := []interface{}{&doc, &version}
	for i := range idxValues {
		dest = append(dest, &idxValues[i])
	}

	if err := e.session.Query(cql, id).WithContext(ctx).Scan(dest...); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return Document{}, &NotFoundError{Collection: collection, Key: id}
		}
		return Document{}, fmt.Errorf("lecture %s/%s: %w", collection, id, err)
	}

	indexes := make(map[string]string, len(c.Indexes))
	for i, idx := range c.Indexes {
		indexes[idx] = idxValues[i]
	}

	return Document{ID: id, Version: version, Data: []byte(doc), Indexes: indexes}, nil
}

func (e *ScyllaEngine) GetAll(ctx context.Context, collection string) ([]Document, error) {
	c := CollectionByName(collection)
	if c == nil {
		return nil, fmt.Errorf("collection inconnue: %s", collection)
	}

	cql := fmt.Sprintf("SELECT id, doc, version FROM %s", c.Name)
	return e.scanDocuments(e.session.Query(cql).WithContext(ctx).Iter())
}

func (e *ScyllaEngine) Add(ctx context.Context, collection string, doc Document) error {
	c := CollectionByName(collection)
	if c == nil {
		return fmt.Errorf("collection inconnue: %s", collection)
	}

	cols := []string{"id", "doc", "version"}
	args := []interface{}{doc.ID, string(doc.Data), int64(1)}
	for _, idx := range c.Indexes {
		cols = append(cols, idx)
		args = append(args, doc.Indexes[idx])
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	cql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) IF NOT EXISTS",
		c.Name, strings.Join(cols, ", "), placeholders)

	previous := map[string]interface{}{}
	applied, err := e.session.Query(cql, args...).WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return fmt.Errorf("insertion %s/%s: %w", collection, doc.ID, err)
	}
	if !applied {
		return &DuplicateKeyError{Collection: collection, Key: doc.ID}
	}
	return nil
}

// Put - remplacement complet, dernier écrivain gagne. La version est relue
// puis incrémentée sans LWT : deux Put concurrents peuvent se marcher dessus,
// c'est le compromis assumé du modèle (les chemins sensibles passent par
// CompareAndSwap).
func (e *ScyllaEngine) Put(ctx context.Context, collection string, doc Document) error {
	c := CollectionByName(collection)
	if c == nil {
		return fmt.Errorf("collection inconnue: %s", collection)
	}

	var current int64
	err := e.session.Query(fmt.Sprintf("SELECT version FROM %s WHERE id = ?", c.Name), doc.ID).
		WithContext(ctx).Scan(&current)
	if err != nil && !errors.Is(err, gocql.ErrNotFound) {
		return fmt.Errorf("lecture version %s/%s: %w", collection, doc.ID, err)
	}

	cols := []string{"id", "doc", "version"}
	args := []interface{}{doc.ID, string(doc.Data), current + 1}
	for _, idx := range c.Indexes {
		cols = append(cols, idx)
		args = append(args, doc.Indexes[idx])
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	cql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.Name, strings.Join(cols, ", "), placeholders)

	if err := e.session.Query(cql, args...).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("écriture %s/%s: %w", collection, doc.ID, err)
	}
	return nil
}

func (e *ScyllaEngine) Delete(ctx context.Context, collection, id string) error {
	c := CollectionByName(collection)
	if c == nil {
		return fmt.Errorf("collection inconnue: %s", collection)
	}

	previous := map[string]interface{}{}
	applied, err := e.session.Query(fmt.Sprintf("DELETE FROM %s WHERE id = ? IF EXISTS", c.Name), id).
		WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return fmt.Errorf("suppression %s/%s: %w", collection, id, err)
	}
	if !applied {
		return &NotFoundError{Collection: collection, Key: id}
	}
	return nil
}

func (e *ScyllaEngine) QueryByIndex(ctx context.Context, collection, index, value string) ([]Document, error) {
	c := CollectionByName(collection)
	if c == nil {
		return nil, fmt.Errorf("collection inconnue: %s", collection)
	}
	if !c.HasIndex(index) {
		return nil, fmt.Errorf("index '%s' non déclaré pour la collection '%s'", index, collection)
	}

	cql := fmt.Sprintf("SELECT id, doc, version FROM %s WHERE %s = ?", c.Name, index)
	return e.scanDocuments(e.session.Query(cql, value).WithContext(ctx).Iter())
}

func (e *ScyllaEngine) CompareAndSwap(ctx context.Context, collection string, doc Document, expectedVersion int64) error {
	c := CollectionByName(collection)
	if c == nil {
		return fmt.Errorf("collection inconnue: %s", collection)
	}

	sets := []string{"doc = ?", "version = ?"}
	args := []interface{}{string(doc.Data), expectedVersion + 1}
	for _, idx := range c.Indexes {
		sets = append(sets, idx+" = ?")
		args = append(args, doc.Indexes[idx])
	}
	args = append(args, doc.ID, expectedVersion)

	cql := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? IF version = ?",
		c.Name, strings.Join(sets, ", "))

	previous := map[string]interface{}{}
	applied, err := e.session.Query(cql, args...).WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return fmt.Errorf("compare-and-swap %s/%s: %w", collection, doc.ID, err)
	}
	if !applied {
		if v, ok := previous["version"]; !ok || v == nil {
			return &NotFoundError{Collection: collection, Key: doc.ID}
		}
		return ErrVersionConflict
	}
	return nil
}

func (e *ScyllaEngine) scanDocuments(iter *gocql.Iter) ([]Document, error) {
	var docs []Document
	var id, doc string
	var version int64

	for iter.Scan(&id, &doc, &version) {
		docs = append(docs, Document{ID: id, Version: version, Data: []byte(doc)})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("itération: %w", err)
	}
	return docs, nil
}
