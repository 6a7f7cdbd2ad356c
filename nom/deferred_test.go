/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"errors"
	"testing"
	"time"
)

func TestDeferredDeliver(t *testing.T) {
	reg := NewDeferredRegistry()
	d := reg.New(1)

	go func() {
		if !reg.Deliver(1, DeferredResult{Value: "hi"}) {
			t.Error("expected Deliver to find waiter")
		}
	}()

	v, err := d.Wait(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if v.(string) != "hi" {
		t.Fatalf("expected hi, got %v", v)
	}
}

func TestDeferredTimeout(t *testing.T) {
	reg := NewDeferredRegistry()
	d := reg.New(2)

	_, err := d.Wait(10 * time.Millisecond)
	if err != ErrDeferredTimeout {
		t.Fatalf("expected ErrDeferredTimeout, got %v", err)
	}
}

func TestDeferredDeliverError(t *testing.T) {
	reg := NewDeferredRegistry()
	d := reg.New(3)
	wantErr := errors.New("boom")

	reg.Deliver(3, DeferredResult{Err: wantErr})

	_, err := d.Wait(time.Second)
	if err != wantErr {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestDeliverUnknownXidReturnsFalse(t *testing.T) {
	reg := NewDeferredRegistry()
	if reg.Deliver(99, DeferredResult{}) {
		t.Fatal("expected Deliver on unknown xid to return false")
	}
}

func TestCancelAll(t *testing.T) {
	reg := NewDeferredRegistry()
	d1 := reg.New(1)
	d2 := reg.New(2)
	reg.CancelAll()

	for _, d := range []*Deferred{d1, d2} {
		_, err := d.Wait(time.Second)
		if err != ErrDeferredCanceled {
			t.Fatalf("expected ErrDeferredCanceled, got %v", err)
		}
	}
	if reg.Len() != 0 {
		t.Fatalf("expected 0 outstanding after CancelAll, got %d", reg.Len())
	}
}
