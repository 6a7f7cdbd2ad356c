/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"fmt"
	"net"

	"github.com/grissess/nom/codec"
)

// Address is a service's (host, port), the wire form an object handle uses
// to name the owning service.
type Address struct {
	Host string
	Port int
}

// String renders "host:port", usable directly with net.ResolveUDPAddr.
func (a Address) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Equal compares two addresses by value.
func (a Address) Equal(b Address) bool {
	return a.Host == b.Host && a.Port == b.Port
}

// UDPAddr resolves a to a *net.UDPAddr.
func (a Address) UDPAddr() (*net.UDPAddr, error) {
	return net.ResolveUDPAddr("udp", a.String())
}

// AddressFromUDP converts a *net.UDPAddr into an Address.
func AddressFromUDP(u *net.UDPAddr) Address {
	return Address{Host: u.IP.String(), Port: u.Port}
}

// toWire renders a as the codec.Tuple{host, port} pair an object handle
// carries on the wire.
func (a Address) toWire() codec.Tuple {
	return codec.Tuple{a.Host, int32(a.Port)}
}

// addressFromWire reconstructs an Address from a decoded SEQ value.
func addressFromWire(v interface{}) (Address, error) {
	var elems []interface{}
	switch s := v.(type) {
	case codec.Tuple:
		elems = s
	case codec.List:
		elems = s
	case codec.Set:
		elems = s
	default:
		return Address{}, fmt.Errorf("nom: address wire value is not a sequence: %T", v)
	}
	if len(elems) != 2 {
		return Address{}, fmt.Errorf("nom: address sequence has %d elements, want 2", len(elems))
	}
	host, ok := elems[0].(string)
	if !ok {
		return Address{}, fmt.Errorf("nom: address host is %T, want string", elems[0])
	}
	port, ok := asInt(elems[1])
	if !ok {
		return Address{}, fmt.Errorf("nom: address port is %T, want integer", elems[1])
	}
	return Address{Host: host, Port: port}, nil
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
