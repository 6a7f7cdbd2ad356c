/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import "testing"

func TestGlobAuthorizerAccessRules(t *testing.T) {
	g := NewGlobAuthorizer(true)
	if err := SetAccessRules(g, []Rule{
		{Pattern: "_*", Allow: false},
		{Pattern: "public_*", Allow: true},
	}); err != nil {
		t.Fatal(err)
	}

	addr := Address{Host: "127.0.0.1", Port: 1}
	if g.CanClientAccess(addr, "_secret") {
		t.Fatal("expected _secret to be denied")
	}
	if !g.CanClientAccess(addr, "public_name") {
		t.Fatal("expected public_name to be allowed")
	}
	if !g.CanClientAccess(addr, "anything_else") {
		t.Fatal("expected fallthrough to defaultAllow=true")
	}
}

func TestGlobAuthorizerClientRules(t *testing.T) {
	g := NewGlobAuthorizer(false)
	if err := SetClientRules(g, []Rule{
		{Pattern: "10.0.*", Allow: true},
	}); err != nil {
		t.Fatal(err)
	}

	if !g.CanClientSync(Address{Host: "10.0.0.5"}) {
		t.Fatal("expected 10.0.0.5 to be allowed")
	}
	if g.CanClientSync(Address{Host: "192.168.1.1"}) {
		t.Fatal("expected 192.168.1.1 to fall through to defaultAllow=false")
	}
}
