/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"time"

	"github.com/grissess/nom/codec"
	"github.com/grissess/nom/wire"
)

// RemoteClient is a convenience handle on an outbound connection to a
// peer Service: List and Resolve wrap the SendRequest/Wait pair so a
// caller doesn't have to build the xid/Deferred dance itself. It is
// named RemoteClient, not Client, because Client already names the
// bookkeeping record a Service keeps for a peer that has SYNCed to it.
type RemoteClient struct {
	svc  *Service
	addr Address

	// Timeout bounds List and Resolve's wait for a reply; zero means
	// DefaultReplyTimeout.
	Timeout time.Duration
}

// NewRemoteClient returns a handle for issuing requests to addr through
// svc. It does not itself SYNC; callers that need the peer to track
// this Service as synced should SendRequest(addr, wire.CmdSync, nil)
// first.
func NewRemoteClient(svc *Service, addr Address) *RemoteClient {
	return &RemoteClient{svc: svc, addr: addr}
}

// Addr returns the peer address this handle talks to.
func (rc *RemoteClient) Addr() Address { return rc.addr }

func (rc *RemoteClient) timeout() time.Duration {
	if rc.Timeout > 0 {
		return rc.Timeout
	}
	return DefaultReplyTimeout
}

// List returns the names the peer has registered in its object table.
func (rc *RemoteClient) List() (codec.List, error) {
	d, err := rc.svc.SendRequest(rc.addr, wire.CmdList, nil)
	if err != nil {
		return nil, err
	}
	v, err := d.Wait(rc.timeout())
	if err != nil {
		rc.svc.deferreds.Forget(d.Xid)
		return nil, err
	}
	items, _ := v.(codec.List)
	return items, nil
}

// Resolve asks the peer to resolve name and returns whatever it sends
// back: a *RemoteReference for an object the peer owns, or the object
// itself if the handle round-trips to one this Service already holds.
func (rc *RemoteClient) Resolve(name string) (interface{}, error) {
	d, err := rc.svc.SendRequest(rc.addr, wire.CmdResolve, map[string]interface{}{wire.AttrName: name})
	if err != nil {
		return nil, err
	}
	v, err := d.Wait(rc.timeout())
	if err != nil {
		rc.svc.deferreds.Forget(d.Xid)
		return nil, err
	}
	return v, nil
}
