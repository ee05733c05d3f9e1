package store

import "context"

// Document - représentation générique d'un enregistrement : la clé primaire,
// le corps JSON, la version (compteur monotone pour CompareAndSwap) et les
// valeurs des index secondaires déclarés.
type Document struct {
	ID      string
	Version int64
	Data    []byte
	Indexes map[string]string
}

// Engine - contrat du moteur de stockage transactionnel. Chaque opération
// est portée par sa propre "transaction" (un seul statement) : il n'existe
// volontairement aucune API de transaction multi-statements, les opérations
// composées (lire, valider, incrémenter) passent par CompareAndSwap.
type Engine interface {
	// Migrate crée les collections/index manquants sans toucher aux
	// enregistrements existants. Strictement idempotent.
	Migrate(ctx context.Context) error

	Get(ctx context.Context, collection, id string) (Document, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// Add échoue avec DuplicateKeyError si la clé existe déjà.
	Add(ctx context.Context, collection string, doc Document) error

	// Put est un upsert "dernier écrivain gagne" (remplacement complet).
	Put(ctx context.Context, collection string, doc Document) error

	// Delete échoue avec NotFoundError si la clé est absente.
	Delete(ctx context.Context, collection, id string) error

	QueryByIndex(ctx context.Context, collection, index, value string) ([]Document, error)

	// CompareAndSwap remplace le document uniquement si la version stockée
	// vaut expectedVersion, sinon ErrVersionConflict.
	CompareAndSwap(ctx context.Context, collection string, doc Document, expectedVersion int64) error
}
