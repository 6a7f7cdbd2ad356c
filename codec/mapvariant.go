/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package codec

import (
	"bytes"
	"io"
	"sort"
)

func mapVariant() *Variant {
	return &Variant{
		Tag: TagMap,
		Match: func(v interface{}) bool {
			_, ok := v.(Map)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			m := v.(Map)
			ordered, err := canonicalOrder(c, m.Entries)
			if err != nil {
				return err
			}
			if err := writeInt32(w, int32(len(ordered))); err != nil {
				return err
			}
			for _, e := range ordered {
				if err := c.SerializeTo(Tuple{e.Key, e.Value}, w); err != nil {
					return err
				}
			}
			return nil
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			n, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			entries := make([]MapEntry, 0, n)
			for i := int32(0); i < n; i++ {
				pairVal, err := c.DeserializeFrom(r)
				if err != nil {
					return nil, err
				}
				pair, _ := pairVal.(Tuple)
				if len(pair) != 2 {
					if l, ok := pairVal.(List); ok && len(l) == 2 {
						pair = Tuple(l)
					} else {
						return nil, &UnknownTagError{Tag: TagMap}
					}
				}
				entries = append(entries, MapEntry{Key: pair[0], Value: pair[1]})
			}
			return Map{Entries: entries}, nil
		},
	}
}

// canonicalOrder sorts entries ascending by the byte-level comparison of
// each key's own serialized form, so Map serialization is canonical.
// Re-serializing a decoded Map reproduces byte-identical output because
// the entries returned here were already read off the wire in this
// order.
func canonicalOrder(c *Codec, entries []MapEntry) ([]MapEntry, error) {
	type keyed struct {
		key []byte
		e   MapEntry
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		kb, err := c.Serialize(e.Key)
		if err != nil {
			return nil, err
		}
		ks[i] = keyed{key: kb, e: e}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return bytes.Compare(ks[i].key, ks[j].key) < 0
	})
	ordered := make([]MapEntry, len(ks))
	for i, k := range ks {
		ordered[i] = k.e
	}
	return ordered, nil
}
