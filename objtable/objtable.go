/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package objtable implements the per-service object registry: omap
// (oid -> live object, pinned for the service's lifetime) and pubmap
// (public name -> oid).
package objtable

import (
	"errors"
	"math/big"
	"sync"
)

// ErrNoSuchName is returned by Resolve for a name with no pubmap entry.
var ErrNoSuchName = errors.New("no-such-name")

// ErrBadOID is returned when an oid has no corresponding live object.
var ErrBadOID = errors.New("bad-oid")

// Table is the object registry. A Go port can't reuse a host runtime
// address as the object id, so Table mints monotonically increasing
// ids itself, storing them as *big.Int to match the codec's LONG wire
// representation.
type Table struct {
	mu     sync.Mutex
	omap   map[string]interface{} // oid.String() -> live object
	pubmap map[string]*big.Int    // name -> oid
	byIdentity map[interface{}]*big.Int
	nextOID *big.Int
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		omap:       make(map[string]interface{}),
		pubmap:     make(map[string]*big.Int),
		byIdentity: make(map[interface{}]*big.Int),
		nextOID:    big.NewInt(1),
	}
}

// Pin assigns (or reuses) a stable oid for obj and retains obj in omap.
// Pin is idempotent for the same obj value when obj is a comparable Go
// value (pointers, the common case, are); non-comparable values (e.g. a
// raw slice or map passed by value) are pinned fresh every call, since Go
// offers no identity notion finer than == for those kinds.
func (t *Table) Pin(obj interface{}) (oid *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if isComparable(obj) {
		if existing, ok := t.byIdentity[obj]; ok {
			return existing
		}
	}
	oid = new(big.Int).Set(t.nextOID)
	t.nextOID.Add(t.nextOID, big.NewInt(1))
	t.omap[oid.String()] = obj
	if isComparable(obj) {
		t.byIdentity[obj] = oid
	}
	return oid
}

func isComparable(obj interface{}) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	m := map[interface{}]struct{}{}
	m[obj] = struct{}{}
	return true
}

// Register pins obj and publishes it under name in the directory.
func (t *Table) Register(obj interface{}, name string) *big.Int {
	oid := t.Pin(obj)
	t.mu.Lock()
	t.pubmap[name] = oid
	t.mu.Unlock()
	return oid
}

// Unregister removes name from the directory without unpinning its
// object: remote peers that already hold a reference to it keep working.
func (t *Table) Unregister(name string) {
	t.mu.Lock()
	delete(t.pubmap, name)
	t.mu.Unlock()
}

// Resolve looks up name in the directory and returns its live object.
func (t *Table) Resolve(name string) (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	oid, ok := t.pubmap[name]
	if !ok {
		return nil, ErrNoSuchName
	}
	obj, ok := t.omap[oid.String()]
	if !ok {
		return nil, ErrBadOID
	}
	return obj, nil
}

// List returns the directory's names.
func (t *Table) List() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.pubmap))
	for n := range t.pubmap {
		names = append(names, n)
	}
	return names
}

// Lookup resolves oid to its live object.
func (t *Table) Lookup(oid *big.Int) (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.omap[oid.String()]
	if !ok {
		return nil, ErrBadOID
	}
	return obj, nil
}
