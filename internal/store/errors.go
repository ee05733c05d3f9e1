package store

import (
	"errors"
	"fmt"
)

// ErrVersionConflict est renvoyé par CompareAndSwap quand la version attendue
// ne correspond plus à celle stockée. L'appelant doit relire puis réessayer.
var ErrVersionConflict = errors.New("conflit de version: l'enregistrement a été modifié entre-temps")

// DuplicateKeyError - violation de contrainte d'unicité sur Add
type DuplicateKeyError struct {
	Collection string
	Key        string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("la clé '%s' existe déjà dans la collection '%s'", e.Key, e.Collection)
}

// NotFoundError - get/update/delete sur une clé absente
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("clé '%s' introuvable dans la collection '%s'", e.Key, e.Collection)
}

// UnsupportedStorageError - aucun stockage persistant disponible dans
// l'environnement d'exécution. Les dépendants doivent basculer sur le
// moteur mémoire (mode dégradé).
type UnsupportedStorageError struct {
	Reason string
	Err    error
}

func (e *UnsupportedStorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stockage persistant indisponible (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("stockage persistant indisponible (%s)", e.Reason)
}

func (e *UnsupportedStorageError) Unwrap() error { return e.Err }

// IsDuplicateKey / IsNotFound - helpers pour les handlers
func IsDuplicateKey(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
