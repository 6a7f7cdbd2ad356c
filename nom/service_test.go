/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"net"
	"testing"
	"time"

	"github.com/grissess/nom/codec"
	"github.com/grissess/nom/wire"
)

func newLoopbackService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	local := conn.LocalAddr().(*net.UDPAddr)
	svc := NewService(conn, AddressFromUDP(local), opts...)
	go svc.Serve()
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestServiceSyncDesync(t *testing.T) {
	a := newLoopbackService(t)
	b := newLoopbackService(t)

	d, err := a.SendRequest(b.SelfAddr(), wire.CmdSync, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Wait(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if v.(bool) != true {
		t.Fatalf("expected SYNC result true, got %v", v)
	}

	if err := a.SendPacket(b.SelfAddr(), wire.New(wire.CmdDesync, nil)); err != nil {
		t.Fatal(err)
	}
}

func TestServiceTrace(t *testing.T) {
	a := newLoopbackService(t)
	b := newLoopbackService(t, WithTrace(true))
	b.Table().Register(map[string]int{"x": 1}, "root")

	d, err := a.SendRequest(b.SelfAddr(), wire.CmdList, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Wait(time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestRemoteClientListAndResolve(t *testing.T) {
	a := newLoopbackService(t)
	b := newLoopbackService(t)
	b.Table().Register(map[string]int{"x": 1}, "root")

	rc := NewRemoteClient(a, b.SelfAddr())
	names, err := rc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Fatalf("expected a 1-element list, got %#v", names)
	}

	v, err := rc.Resolve("root")
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := v.(*RemoteReference)
	if !ok {
		t.Fatalf("expected *RemoteReference, got %T", v)
	}
	n, err := ref.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected len 1, got %d", n)
	}
}

func TestServiceResolveAndList(t *testing.T) {
	a := newLoopbackService(t)
	b := newLoopbackService(t)

	b.Table().Register(map[string]int{"x": 1}, "root")

	d, err := a.SendRequest(b.SelfAddr(), wire.CmdList, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Wait(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	items, ok := v.(codec.List)
	if !ok || len(items) != 1 {
		t.Fatalf("expected a 1-element codec.List, got %#v", v)
	}

	d, err = a.SendRequest(b.SelfAddr(), wire.CmdResolve, map[string]interface{}{wire.AttrName: "root"})
	if err != nil {
		t.Fatal(err)
	}
	v, err = d.Wait(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := v.(*RemoteReference)
	if !ok {
		t.Fatalf("expected *RemoteReference, got %T", v)
	}
	n, err := ref.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected len 1, got %d", n)
	}
}

func TestServicePullGetAttr(t *testing.T) {
	type widget struct{ Name string }

	a := newLoopbackService(t)
	b := newLoopbackService(t)
	b.Table().Register(&widget{Name: "gadget"}, "w")

	d, err := a.SendRequest(b.SelfAddr(), wire.CmdResolve, map[string]interface{}{wire.AttrName: "w"})
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Wait(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	ref := v.(*RemoteReference)

	name, err := ref.GetAttr("Name")
	if err != nil {
		t.Fatal(err)
	}
	if name.(string) != "gadget" {
		t.Fatalf("expected gadget, got %v", name)
	}
}

func TestServiceHandleIdentityRoundTrip(t *testing.T) {
	svc := newLoopbackService(t)
	type thing struct{ N int }
	obj := &thing{N: 7}

	encoded, err := svc.Codec().Serialize(obj)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := svc.Codec().Deserialize(encoded)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := decoded.(*thing)
	if !ok {
		t.Fatalf("expected identity-preserving decode to *thing, got %T", decoded)
	}
	if got != obj {
		t.Fatalf("expected same pointer back, got different instance")
	}
}

func TestAuthorizerDeniesUnderscoreAttr(t *testing.T) {
	type secret struct{ Password string }

	a := newLoopbackService(t)
	b := newLoopbackService(t)
	b.Table().Register(&secret{Password: "hunter2"}, "s")

	d, err := a.SendRequest(b.SelfAddr(), wire.CmdResolve, map[string]interface{}{wire.AttrName: "s"})
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Wait(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	ref := v.(*RemoteReference)

	if _, err := ref.GetAttr("_private"); err == nil {
		t.Fatal("expected access to an underscore-prefixed attribute to be denied")
	}
}
