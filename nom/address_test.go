/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import "testing"

func TestAddressWireRoundTrip(t *testing.T) {
	a := Address{Host: "192.168.1.5", Port: 9999}
	got, err := addressFromWire(a.toWire())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(a) {
		t.Fatalf("expected %v, got %v", a, got)
	}
}

func TestAddressString(t *testing.T) {
	a := Address{Host: "10.0.0.1", Port: 1234}
	if a.String() != "10.0.0.1:1234" {
		t.Fatalf("unexpected address string: %s", a.String())
	}
}
