/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import "time"

// Client records one peer that has SYNCed with this Service. It is
// plain bookkeeping -- it carries no capability-set behavior of its own,
// unlike RemoteReference, which represents a single remote object.
type Client struct {
	Addr     Address
	SyncedAt time.Time
	LastSeen time.Time
}

// touch updates LastSeen to now.
func (c *Client) touch(now time.Time) {
	c.LastSeen = now
}
