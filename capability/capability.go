/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package capability defines the ten-operation interface through which
// every NOM object, local or remote, is manipulated. A host language
// binding is expected to translate its own operator-overloading surface
// into these calls, but that translation layer itself is out of scope
// here.
package capability

// Obj is the capability set: {GetAttr, SetAttr, DelAttr, GetItem, SetItem,
// DelItem, Len, Repr, Str, Call}. A ReverseProxy implements it over a
// local Go value via reflection; a RemoteReference (package nom)
// implements it by issuing PULL requests.
type Obj interface {
	GetAttr(attr string) (interface{}, error)
	SetAttr(attr string, val interface{}) error
	DelAttr(attr string) error
	GetItem(item interface{}) (interface{}, error)
	SetItem(item interface{}, val interface{}) error
	DelItem(item interface{}) error
	Len() (int, error)
	Repr() (string, error)
	Str() (string, error)
	Call(args []interface{}, kwargs map[string]interface{}) (interface{}, error)
}
