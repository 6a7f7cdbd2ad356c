/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"math/big"
	"sync"
	"time"

	"github.com/grissess/nom/capability"
	"github.com/grissess/nom/codec"
	"github.com/grissess/nom/wire"
)

var _ capability.Obj = (*RemoteReference)(nil)

// RemoteReference implements capability.Obj for an object owned by
// another Service: every call issues a PULL request naming the
// operation and blocks on the resulting Deferred.
//
// pushCache is a placeholder for the not-yet-implemented PUSH command
// (Cmd 5 is reserved): once a remote owner can proactively invalidate
// cached attribute values, GetAttr/GetItem can consult this cache
// before issuing a PULL. Today it is always empty.
type RemoteReference struct {
	svc   *Service
	oid   *big.Int
	owner Address

	// Timeout bounds each PULL's Wait; zero means DefaultReplyTimeout.
	Timeout time.Duration

	pushCacheMu sync.RWMutex
	pushCache   map[string]interface{}
}

func newRemoteReference(svc *Service, oid *big.Int, owner Address) *RemoteReference {
	return &RemoteReference{svc: svc, oid: oid, owner: owner}
}

// OID returns the remote object id this reference names.
func (r *RemoteReference) OID() *big.Int { return r.oid }

// Owner returns the address of the Service that owns the referenced object.
func (r *RemoteReference) Owner() Address { return r.owner }

func (r *RemoteReference) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultReplyTimeout
}

func (r *RemoteReference) pull(attrs map[string]interface{}) (interface{}, error) {
	attrs[wire.AttrOid] = r.oid
	d, err := r.svc.SendRequest(r.owner, wire.CmdPull, attrs)
	if err != nil {
		return nil, err
	}
	xid := d.Xid
	val, err := d.Wait(r.timeout())
	if err != nil {
		r.svc.deferreds.Forget(xid)
		return nil, err
	}
	return val, nil
}

func (r *RemoteReference) GetAttr(attr string) (interface{}, error) {
	return r.pull(map[string]interface{}{wire.AttrOp: "getattr", wire.AttrAttr: attr})
}

func (r *RemoteReference) SetAttr(attr string, val interface{}) error {
	_, err := r.pull(map[string]interface{}{wire.AttrOp: "setattr", wire.AttrAttr: attr, wire.AttrVal: val})
	return err
}

func (r *RemoteReference) DelAttr(attr string) error {
	_, err := r.pull(map[string]interface{}{wire.AttrOp: "delattr", wire.AttrAttr: attr})
	return err
}

func (r *RemoteReference) GetItem(item interface{}) (interface{}, error) {
	return r.pull(map[string]interface{}{wire.AttrOp: "getitem", wire.AttrItem: item})
}

func (r *RemoteReference) SetItem(item interface{}, val interface{}) error {
	_, err := r.pull(map[string]interface{}{wire.AttrOp: "setitem", wire.AttrItem: item, wire.AttrVal: val})
	return err
}

func (r *RemoteReference) DelItem(item interface{}) error {
	_, err := r.pull(map[string]interface{}{wire.AttrOp: "delitem", wire.AttrItem: item})
	return err
}

func (r *RemoteReference) Len() (int, error) {
	v, err := r.pull(map[string]interface{}{wire.AttrOp: "len"})
	if err != nil {
		return 0, err
	}
	n, ok := asInt(v)
	if !ok {
		return 0, &codec.UnserializeableError{Value: v}
	}
	return n, nil
}

func (r *RemoteReference) Repr() (string, error) {
	v, err := r.pull(map[string]interface{}{wire.AttrOp: "repr"})
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (r *RemoteReference) Str() (string, error) {
	v, err := r.pull(map[string]interface{}{wire.AttrOp: "str"})
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (r *RemoteReference) Call(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	attrs := map[string]interface{}{wire.AttrOp: "call"}
	attrs[wire.AttrArgs] = codec.Tuple(args)
	if len(kwargs) > 0 {
		entries := make([]codec.MapEntry, 0, len(kwargs))
		for k, v := range kwargs {
			entries = append(entries, codec.MapEntry{Key: k, Value: v})
		}
		attrs[wire.AttrKwargs] = codec.Map{Entries: entries}
	}
	return r.pull(attrs)
}
