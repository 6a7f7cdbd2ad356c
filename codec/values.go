/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package codec

import "fmt"

// List is the ordered-indexed (mutable) sequence kind.
type List []interface{}

// Tuple is the ordered-immutable sequence kind.
type Tuple []interface{}

// Set is the unordered-unique sequence kind. Decode does not itself
// deduplicate; it trusts the wire to carry what the encoder intended.
type Set []interface{}

// Slice mirrors the three-field Python slice object: (start, stop, step).
type Slice struct {
	Start, Stop, Step int32
}

// ellipsisType is the sentinel carrier for the ELLIPSIS tag; Ellipsis is
// its only inhabitant.
type ellipsisType struct{}

// Ellipsis is the wire ellipsis value ("...").
var Ellipsis = ellipsisType{}

// MapEntry is one key/value pair of a Map, kept in a slice rather than a
// native Go map so that non-comparable keys (e.g. []byte, List) can round
// trip and canonical ascending order can be preserved exactly.
type MapEntry struct {
	Key, Value interface{}
}

// Map is the wire MAP value: a sequence of key/value pairs serialized in
// ascending key order. Entries need not already be sorted before
// encoding; Serialize sorts a copy.
type Map struct {
	Entries []MapEntry
}

// Get returns the value for key (compared via Codec.Serialize byte
// equality) and whether it was found.
func (m Map) Get(c *Codec, key interface{}) (interface{}, bool) {
	kb, err := c.Serialize(key)
	if err != nil {
		return nil, false
	}
	for _, e := range m.Entries {
		eb, err := c.Serialize(e.Key)
		if err != nil {
			continue
		}
		if string(eb) == string(kb) {
			return e.Value, true
		}
	}
	return nil, false
}

// RemoteException is the neutral decode of an ERROR value whose Name is
// not recognized as a local sentinel error by the caller. It implements
// error so it can be returned and compared like any other Go error
// while still carrying the original name and args for callers that want
// to pattern-match on them.
type RemoteException struct {
	Name string
	Args []interface{}
}

func (e *RemoteException) Error() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	return fmt.Sprintf("%s%v", e.Name, e.Args)
}
