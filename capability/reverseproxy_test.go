/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package capability

import "testing"

type widget struct {
	Name  string
	Count int
}

func TestReverseProxyAttr(t *testing.T) {
	w := &widget{Name: "gadget", Count: 3}
	rp := NewReverseProxy(w)

	v, err := rp.GetAttr("Name")
	if err != nil {
		t.Fatal(err)
	}
	if v.(string) != "gadget" {
		t.Fatalf("expected gadget, got %v", v)
	}

	if err := rp.SetAttr("Count", 9); err != nil {
		t.Fatal(err)
	}
	if w.Count != 9 {
		t.Fatalf("expected Count==9 after SetAttr, got %d", w.Count)
	}

	if _, err := rp.GetAttr("Missing"); err != ErrNoSuchAttr {
		t.Fatalf("expected ErrNoSuchAttr, got %v", err)
	}
}

func TestReverseProxyMap(t *testing.T) {
	m := map[string]int{"a": 1}
	rp := NewReverseProxy(m)
	v, err := rp.GetItem("a")
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
	if err := rp.SetItem("b", 2); err != nil {
		t.Fatal(err)
	}
	if m["b"] != 2 {
		t.Fatalf("expected m[b]==2, got %d", m["b"])
	}
	n, err := rp.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected len 2, got %d", n)
	}
}

func TestReverseProxyCall(t *testing.T) {
	fn := func(a, b int) int { return a + b }
	rp := NewReverseProxy(fn)
	out, err := rp.Call([]interface{}{2, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.(int) != 5 {
		t.Fatalf("expected 5, got %v", out)
	}
}
