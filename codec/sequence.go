/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package codec

import "fmt"

// seqKind is the SEQ kind_byte discriminator: ordered-indexed,
// ordered-immutable, or unordered-unique. It is deliberately small and
// closed over the three built-in container kinds; callers needing a
// fourth kind can use RegisterSequenceKind to extend it.
type seqKind uint8

const (
	seqKindList seqKind = iota
	seqKindTuple
	seqKindSet
)

type seqKindEntry struct {
	kind    seqKind
	unwrap  func(v interface{}) ([]interface{}, bool)
	wrap    func(items []interface{}) interface{}
}

var seqKinds = []seqKindEntry{
	{
		kind: seqKindList,
		unwrap: func(v interface{}) ([]interface{}, bool) {
			l, ok := v.(List)
			return []interface{}(l), ok
		},
		wrap: func(items []interface{}) interface{} { return List(items) },
	},
	{
		kind: seqKindTuple,
		unwrap: func(v interface{}) ([]interface{}, bool) {
			t, ok := v.(Tuple)
			return []interface{}(t), ok
		},
		wrap: func(items []interface{}) interface{} { return Tuple(items) },
	},
	{
		kind: seqKindSet,
		unwrap: func(v interface{}) ([]interface{}, bool) {
			s, ok := v.(Set)
			return []interface{}(s), ok
		},
		wrap: func(items []interface{}) interface{} { return Set(items) },
	},
}

// nextUserSeqKind is the first kind byte available to RegisterSequenceKind.
var nextUserSeqKind = seqKind(3)

// RegisterSequenceKind extends the SEQ variant with an additional
// container kind. unwrap must report ok=false for any value it does not
// own, and wrap must reconstruct a value of that kind from a decoded item
// slice. It returns the assigned kind byte.
func RegisterSequenceKind(unwrap func(interface{}) ([]interface{}, bool), wrap func([]interface{}) interface{}) uint8 {
	k := nextUserSeqKind
	nextUserSeqKind++
	seqKinds = append(seqKinds, seqKindEntry{kind: k, unwrap: unwrap, wrap: wrap})
	return uint8(k)
}

func seqKindForValue(v interface{}) (seqKindEntry, []interface{}, bool) {
	for _, e := range seqKinds {
		if items, ok := e.unwrap(v); ok {
			return e, items, true
		}
	}
	return seqKindEntry{}, nil, false
}

func seqKindByByte(b byte) (seqKindEntry, error) {
	for _, e := range seqKinds {
		if byte(e.kind) == b {
			return e, nil
		}
	}
	return seqKindEntry{}, fmt.Errorf("codec: unknown sequence kind %d", b)
}
