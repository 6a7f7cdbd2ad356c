/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import "strings"

// Authorizer gates which clients may establish a session and which
// attributes/items a session may reach once established. DefaultAuthorizer
// implements the underscore-is-private convention as an explicit,
// pluggable policy rather than an ad hoc check scattered through Service.
type Authorizer interface {
	// CanClientSync reports whether addr may SYNC with this service.
	CanClientSync(addr Address) bool
	// CanClientAccess reports whether addr may reach the named attribute
	// or item key (attrOrItem is the %v-formatted key for item access).
	CanClientAccess(addr Address, attrOrItem string) bool
}

// DefaultAuthorizer treats any attribute or item spelled with a leading
// underscore as private. Every client may SYNC.
type DefaultAuthorizer struct{}

// CanClientSync always allows.
func (DefaultAuthorizer) CanClientSync(addr Address) bool { return true }

// CanClientAccess denies any name starting with "_".
func (DefaultAuthorizer) CanClientAccess(addr Address, attrOrItem string) bool {
	return !strings.HasPrefix(attrOrItem, "_")
}
