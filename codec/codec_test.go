/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package codec

import (
	"io"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTripPrimitives(t *testing.T) {
	c := New()
	big1, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	cases := []interface{}{
		int32(42),
		int32(-7),
		big1,
		3.14159,
		[]byte("hello"),
		"hello, world",
		true,
		false,
		nil,
		Slice{Start: 0, Stop: 10, Step: 2},
		Ellipsis,
	}
	for _, v := range cases {
		enc, err := c.Serialize(v)
		if err != nil {
			t.Fatalf("Serialize(%#v): %v", v, err)
		}
		dec, err := c.Deserialize(enc)
		if err != nil {
			t.Fatalf("Deserialize(%#v): %v", v, err)
		}
		if !cmp.Equal(v, dec, cmp.Comparer(func(a, b *big.Int) bool {
			if a == nil || b == nil {
				return a == b
			}
			return a.Cmp(b) == 0
		})) {
			t.Errorf("round trip mismatch: in=%#v out=%#v", v, dec)
		}
	}
}

func TestRoundTripSequences(t *testing.T) {
	c := New()
	cases := []interface{}{
		List{int32(1), int32(2), "three"},
		Tuple{int32(1), "two", true},
		Set{int32(1), int32(2), int32(3)},
	}
	for _, v := range cases {
		enc, err := c.Serialize(v)
		if err != nil {
			t.Fatalf("Serialize(%#v): %v", v, err)
		}
		dec, err := c.Deserialize(enc)
		if err != nil {
			t.Fatalf("Deserialize(%#v): %v", v, err)
		}
		if !cmp.Equal(v, dec) {
			t.Errorf("round trip mismatch: in=%#v out=%#v", v, dec)
		}
	}
}

func TestMapCanonicalOrder(t *testing.T) {
	c := New()
	m1 := Map{Entries: []MapEntry{{Key: "b", Value: int32(1)}, {Key: "a", Value: int32(2)}}}
	m2 := Map{Entries: []MapEntry{{Key: "a", Value: int32(2)}, {Key: "b", Value: int32(1)}}}

	b1, err := c.Serialize(m1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := c.Serialize(m2)
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("maps with same pairs in different insertion order did not serialize identically:\n%x\n%x", b1, b2)
	}

	// re-encoding a decoded map must reproduce the same bytes (canonical
	// order is stable, not merely "some" order).
	decVal, err := c.Deserialize(b1)
	if err != nil {
		t.Fatal(err)
	}
	dec := decVal.(Map)
	b3, err := c.Serialize(dec)
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b3) {
		t.Fatalf("re-encoding a decoded map changed the bytes:\n%x\n%x", b1, b3)
	}
}

func TestUnserializeableType(t *testing.T) {
	c := New()
	type notRegistered struct{ X int }
	_, err := c.Serialize(notRegistered{X: 1})
	if err == nil {
		t.Fatal("expected an UnserializeableError")
	}
	if _, ok := err.(*UnserializeableError); !ok {
		t.Fatalf("expected *UnserializeableError, got %T", err)
	}
}

func TestUnknownTag(t *testing.T) {
	c := New()
	_, err := c.Deserialize([]byte{250})
	if err == nil {
		t.Fatal("expected an UnknownTagError")
	}
	if _, ok := err.(*UnknownTagError); !ok {
		t.Fatalf("expected *UnknownTagError, got %T", err)
	}
}

func TestErrorRoundTrip(t *testing.T) {
	c := New()
	src := &RemoteException{Name: "ValueError", Args: []interface{}{"nope"}}
	enc, err := c.Serialize(src)
	if err != nil {
		t.Fatal(err)
	}
	decVal, err := c.Deserialize(enc)
	if err != nil {
		t.Fatal(err)
	}
	dec, ok := decVal.(*RemoteException)
	if !ok {
		t.Fatalf("expected *RemoteException, got %T", decVal)
	}
	if dec.Name != src.Name || len(dec.Args) != 1 || dec.Args[0] != "nope" {
		t.Fatalf("error did not round trip: got %+v", dec)
	}
}

func TestRegisterExplicitTag(t *testing.T) {
	c := New()
	type custom struct{ V int }
	tag := c.Register(&Variant{
		Tag: 200,
		Match: func(v interface{}) bool {
			_, ok := v.(custom)
			return ok
		},
		Write: func(cc *Codec, v interface{}, w io.Writer) error {
			return writeInt32(w, int32(v.(custom).V))
		},
	})
	if tag != 200 {
		t.Fatalf("expected explicit tag 200, got %d", tag)
	}
}
