/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package capability

// Proxy forwards the capability set to a wrapped Obj, typically a
// RemoteReference (package nom). It exists mainly so host language
// bindings and tests have a concrete, dependency-free value to hold;
// the surface proxy (operator overloading, field syntax) is left to the
// host, so Proxy itself is just the explicit-call form.
type Proxy struct {
	Obj Obj
}

// NewProxy wraps obj.
func NewProxy(obj Obj) *Proxy { return &Proxy{Obj: obj} }

func (p *Proxy) GetAttr(attr string) (interface{}, error) { return p.Obj.GetAttr(attr) }
func (p *Proxy) SetAttr(attr string, val interface{}) error {
	return p.Obj.SetAttr(attr, val)
}
func (p *Proxy) DelAttr(attr string) error { return p.Obj.DelAttr(attr) }
func (p *Proxy) GetItem(item interface{}) (interface{}, error) {
	return p.Obj.GetItem(item)
}
func (p *Proxy) SetItem(item interface{}, val interface{}) error {
	return p.Obj.SetItem(item, val)
}
func (p *Proxy) DelItem(item interface{}) error { return p.Obj.DelItem(item) }
func (p *Proxy) Len() (int, error)              { return p.Obj.Len() }
func (p *Proxy) Repr() (string, error)          { return p.Obj.Repr() }
func (p *Proxy) Str() (string, error)           { return p.Obj.Str() }
func (p *Proxy) Call(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	return p.Obj.Call(args, kwargs)
}
