/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package objtable

import "testing"

func TestPinIdempotent(t *testing.T) {
	tbl := New()
	type thing struct{ N int }
	obj := &thing{N: 1}
	oid1 := tbl.Pin(obj)
	oid2 := tbl.Pin(obj)
	if oid1.Cmp(oid2) != 0 {
		t.Fatalf("expected same oid for repeated Pin, got %v != %v", oid1, oid2)
	}
}

func TestRegisterResolve(t *testing.T) {
	tbl := New()
	obj := map[string]int{"x": 1}
	tbl.Register(obj, "stuff")

	got, err := tbl.Resolve("stuff")
	if err != nil {
		t.Fatal(err)
	}
	gm, ok := got.(map[string]int)
	if !ok || gm["x"] != 1 {
		t.Fatalf("unexpected resolved value: %v", got)
	}

	if _, err := tbl.Resolve("nope"); err != ErrNoSuchName {
		t.Fatalf("expected ErrNoSuchName, got %v", err)
	}
}

func TestUnregisterKeepsObject(t *testing.T) {
	tbl := New()
	obj := &struct{ X int }{X: 5}
	oid := tbl.Register(obj, "thing")
	tbl.Unregister("thing")

	if _, err := tbl.Resolve("thing"); err != ErrNoSuchName {
		t.Fatalf("expected ErrNoSuchName after Unregister, got %v", err)
	}
	if _, err := tbl.Lookup(oid); err != nil {
		t.Fatalf("object should still be pinned after Unregister: %v", err)
	}
}

func TestList(t *testing.T) {
	tbl := New()
	tbl.Register(1, "a")
	tbl.Register(2, "b")
	names := tbl.List()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d: %v", len(names), names)
	}
}
