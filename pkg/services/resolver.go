// Package services contains the reconciliation core: key resolution,
// derivation, validation, and the two synchronization strategies.
package services

import "github.com/TheCarlosRamos/projeto-portos/pkg/models"

// KeyIndex holds the natural-key lookup structures of one reconciliation
// run. It is built incrementally as rows are written and is never shared
// across runs. Resolution is exact-match on the normalized key tuples; a
// key that cannot be resolved stays unresolved rather than being attached
// to an arbitrary parent.
type KeyIndex struct {
	registrations map[models.RegistrationKey]int64
	services      map[models.ServiceKey]int64
	refs          map[models.ServiceRef][]int64
}

// NewKeyIndex creates an empty index.
func NewKeyIndex() *KeyIndex {
	return &KeyIndex{
		registrations: make(map[models.RegistrationKey]int64),
		services:      make(map[models.ServiceKey]int64),
		refs:          make(map[models.ServiceRef][]int64),
	}
}

// AddRegistration records a registration's assigned id under its key.
func (ix *KeyIndex) AddRegistration(key models.RegistrationKey, id int64) {
	ix.registrations[key] = id
}

// FindRegistration resolves a registration key to its assigned id.
func (ix *KeyIndex) FindRegistration(key models.RegistrationKey) (int64, bool) {
	id, ok := ix.registrations[key]
	return id, ok
}

// AddService records a service's assigned id under both its full key and
// its description-less reference.
func (ix *KeyIndex) AddService(key models.ServiceKey, id int64) {
	ix.services[key] = id
	ref := key.Ref()
	ix.refs[ref] = append(ix.refs[ref], id)
}

// FindService resolves a full service key to its assigned id.
func (ix *KeyIndex) FindService(key models.ServiceKey) (int64, bool) {
	id, ok := ix.services[key]
	return id, ok
}

// FindServiceByRef resolves a description-less service reference. A
// reference matching more than one service is ambiguous and reported as
// unresolved.
func (ix *KeyIndex) FindServiceByRef(ref models.ServiceRef) (int64, bool) {
	ids := ix.refs[ref]
	if len(ids) != 1 {
		return 0, false
	}
	return ids[0], true
}
