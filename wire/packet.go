/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package wire implements the NOM packet framing on top of package codec:
// a one-byte command followed by a codec-encoded attribute map. Packets
// MUST be read on datagram boundaries; this package does not reassemble
// or frame a stream transport.
package wire

import (
	"bytes"
	"io"

	"github.com/grissess/nom/codec"
)

// CMD is the packet command byte.
type CMD uint8

const (
	CmdSync    CMD = 0
	CmdDesync  CMD = 1
	CmdPull    CMD = 2
	CmdResolve CMD = 3
	CmdList    CMD = 4
	CmdPush    CMD = 5

	// CmdKeepalive is never sent; it is the default a decoded Packet
	// reports when the wire bytes carried no cmd byte at all. An
	// unrecognized cmd byte is kept as is.
	CmdKeepalive CMD = 0xFF
)

var cmdNames = map[CMD]string{
	CmdSync:      "SYNC",
	CmdDesync:    "DESYNC",
	CmdPull:      "PULL",
	CmdResolve:   "RESOLVE",
	CmdList:      "LIST",
	CmdPush:      "PUSH",
	CmdKeepalive: "KEEPALIVE",
}

func (c CMD) String() string {
	if n, ok := cmdNames[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// Well-known attribute names.
const (
	AttrXid    = "xid"
	AttrResult = "result"
	AttrError  = "error"
	AttrOp     = "op"
	AttrOid    = "oid"
	AttrAttr   = "attr"
	AttrVal    = "val"
	AttrItem   = "item"
	AttrArgs   = "args"
	AttrKwargs = "kwargs"
	AttrName   = "name"
)

// Packet is (cmd, attrs). Attribute access is by name against a plain
// map; Packet does not use Go struct-tag reflection so that an
// arbitrary, possibly-forward-compatible attribute set can ride along
// unmolested.
type Packet struct {
	Cmd   CMD
	Attrs map[string]interface{}
}

// New builds a Packet, copying attrs into the packet's own map.
func New(cmd CMD, attrs map[string]interface{}) *Packet {
	p := &Packet{Cmd: cmd, Attrs: make(map[string]interface{}, len(attrs))}
	for k, v := range attrs {
		p.Attrs[k] = v
	}
	return p
}

// Has reports whether every name given is present in Attrs.
func (p *Packet) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := p.Attrs[n]; !ok {
			return false
		}
	}
	return true
}

// Get returns attribute attr and whether it was present.
func (p *Packet) Get(attr string) (interface{}, bool) {
	v, ok := p.Attrs[attr]
	return v, ok
}

// Set assigns attribute attr to val.
func (p *Packet) Set(attr string, val interface{}) {
	if p.Attrs == nil {
		p.Attrs = make(map[string]interface{})
	}
	p.Attrs[attr] = val
}

// Del removes attribute attr.
func (p *Packet) Del(attr string) {
	delete(p.Attrs, attr)
}

// Encode writes cmd_byte ‖ codec(attrs) to a fresh buffer.
func (p *Packet) Encode(c *codec.Codec) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.EncodeTo(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes cmd_byte ‖ codec(attrs) onto w.
func (p *Packet) EncodeTo(c *codec.Codec, w io.Writer) error {
	if _, err := w.Write([]byte{byte(p.Cmd)}); err != nil {
		return err
	}
	m := codec.Map{Entries: make([]codec.MapEntry, 0, len(p.Attrs))}
	for k, v := range p.Attrs {
		m.Entries = append(m.Entries, codec.MapEntry{Key: k, Value: v})
	}
	return c.SerializeTo(m, w)
}

// Decode reads cmd_byte ‖ codec(attrs) from data. A truncated header (no
// cmd byte at all) defaults Cmd to CmdKeepalive and Attrs to an empty
// map rather than erroring.
func Decode(c *codec.Codec, data []byte) (*Packet, error) {
	return DecodeFrom(c, bytes.NewReader(data))
}

// DecodeFrom reads a Packet from r the same way Decode does.
func DecodeFrom(c *codec.Codec, r io.Reader) (*Packet, error) {
	var cmdByte [1]byte
	n, err := io.ReadFull(r, cmdByte[:])
	if n == 0 {
		if err == io.EOF {
			return &Packet{Cmd: CmdKeepalive, Attrs: map[string]interface{}{}}, nil
		}
		return nil, err
	} else if err != nil {
		return nil, err
	}

	p := &Packet{Cmd: CMD(cmdByte[0])}
	mapVal, err := c.DeserializeFrom(r)
	if err != nil {
		if err == io.EOF {
			p.Attrs = map[string]interface{}{}
			return p, nil
		}
		return nil, err
	}
	m, ok := mapVal.(codec.Map)
	if !ok {
		p.Attrs = map[string]interface{}{}
		return p, nil
	}
	p.Attrs = make(map[string]interface{}, len(m.Entries))
	for _, e := range m.Entries {
		name, ok := e.Key.(string)
		if !ok {
			continue
		}
		p.Attrs[name] = e.Value
	}
	return p, nil
}
