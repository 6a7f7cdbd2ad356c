/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"io"
	"math/big"

	"github.com/grissess/nom/codec"
)

// ObjectTranslator installs the tag-255 HANDLE Variant into a Service's
// own Codec. On encode, any value not already claimed by a
// higher-priority Variant is pinned into the Service's object table and
// written as (oid LONG, owner Address SEQ). On decode, a handle whose
// owner matches this Service's own address resolves straight back to the
// pinned local object (identity preserved); any other owner yields a
// *RemoteReference that issues PULL requests against that owner to
// satisfy capability.Obj calls.
type ObjectTranslator struct {
	svc *Service
}

// newObjectTranslator builds a translator bound to svc and registers its
// Variant on svc.codec at the reserved handle tag.
func newObjectTranslator(svc *Service) *ObjectTranslator {
	t := &ObjectTranslator{svc: svc}
	svc.codec.Register(&codec.Variant{
		Tag: codec.TagHandle,
		// This Variant matches everything, so its priority decides
		// whether it shadows others: at -1 it ranks below the
		// built-ins and below any Priority-0 Variant registered later
		// through Service.Codec, so it only claims values no other
		// Variant matches.
		Priority: -1,
		Match:    func(v interface{}) bool { return true },
		Write:    t.write,
		Read:     t.read,
	})
	return t
}

func (t *ObjectTranslator) write(c *codec.Codec, v interface{}, w io.Writer) error {
	oid, owner := t.pin(v)
	if err := c.SerializeTo(oid, w); err != nil {
		return err
	}
	return c.SerializeTo(owner.toWire(), w)
}

// pin returns the (oid, owner) pair to put on the wire for v. If v is
// already a RemoteReference (a handle we received from, or forwarded by,
// some other service), its own oid/owner are forwarded unchanged rather
// than re-pinning the proxy itself -- otherwise a handle passed through a
// third service would mint a meaningless new identity instead of
// continuing to name the original object.
func (t *ObjectTranslator) pin(v interface{}) (*big.Int, Address) {
	if rr, ok := v.(*RemoteReference); ok {
		return rr.oid, rr.owner
	}
	return t.svc.table.Pin(v), t.svc.selfAddr
}

func (t *ObjectTranslator) read(c *codec.Codec, r io.Reader) (interface{}, error) {
	oidVal, err := c.DeserializeFrom(r)
	if err != nil {
		return nil, err
	}
	oid, ok := toBigInt(oidVal)
	if !ok {
		return nil, &codec.UnserializeableError{Value: oidVal}
	}
	ownerVal, err := c.DeserializeFrom(r)
	if err != nil {
		return nil, err
	}
	owner, err := addressFromWire(ownerVal)
	if err != nil {
		return nil, err
	}
	if owner.Equal(t.svc.selfAddr) {
		obj, err := t.svc.table.Lookup(oid)
		if err != nil {
			return nil, err
		}
		return obj, nil
	}
	return newRemoteReference(t.svc, oid, owner), nil
}

func toBigInt(v interface{}) (*big.Int, bool) {
	n, ok := v.(*big.Int)
	return n, ok
}
