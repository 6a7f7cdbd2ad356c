/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package wire

import (
	"math/big"
	"testing"

	"github.com/grissess/nom/codec"
)

func TestPacketRoundTrip(t *testing.T) {
	c := codec.New()
	oid, _ := new(big.Int).SetString("42", 10)
	p := New(CmdPull, map[string]interface{}{
		"xid": int32(7),
		"op":  []byte("GetAttr"),
		"oid": oid,
	})
	enc, err := p.Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := Decode(c, enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Cmd != CmdPull {
		t.Fatalf("expected CmdPull, got %v", dec.Cmd)
	}
	if !dec.Has("xid", "op", "oid") {
		t.Fatalf("expected all attrs present, got %#v", dec.Attrs)
	}
}

func TestPacketDefaultsOnEmptyBuffer(t *testing.T) {
	c := codec.New()
	p, err := Decode(c, nil)
	if err != nil {
		t.Fatalf("Decode(nil): %v", err)
	}
	if p.Cmd != CmdKeepalive {
		t.Fatalf("expected CmdKeepalive default, got %v", p.Cmd)
	}
	if len(p.Attrs) != 0 {
		t.Fatalf("expected empty attrs default, got %#v", p.Attrs)
	}
}

func TestPacketHas(t *testing.T) {
	p := New(CmdSync, map[string]interface{}{"result": true})
	if !p.Has("result") {
		t.Fatal("expected Has(result) true")
	}
	if p.Has("result", "error") {
		t.Fatal("expected Has(result, error) false")
	}
}
