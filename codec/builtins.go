/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package codec

import (
	"io"
	"math"
	"math/big"
)

// builtinVariants returns the reserved low-tag variants (INT..ERROR) in
// registration order. BYTE (tag 9) is not among them: its u8 form is
// written and read directly by writeByte/readByte, and a tag-9 value on
// the wire decodes as an unknown tag. Registration order doubles as their tie-break
// priority; all are given Priority 0, so the only variant that can
// outrank a builtin is another builtin or a user variant explicitly
// claiming a tag with a higher Priority.
func builtinVariants() []*Variant {
	return []*Variant{
		intVariant(),
		longVariant(),
		floatVariant(),
		bytesVariant(),
		textVariant(),
		boolVariant(),
		seqVariant(),
		mapVariant(),
		noneVariant(),
		sliceVariant(),
		ellipsisVariant(),
		errorVariant(),
	}
}

func intVariant() *Variant {
	return &Variant{
		Tag: TagInt,
		Match: func(v interface{}) bool {
			_, ok := v.(int32)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			return writeInt32(w, v.(int32))
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			return readInt32(r)
		},
	}
}

func longVariant() *Variant {
	return &Variant{
		Tag: TagLong,
		Match: func(v interface{}) bool {
			_, ok := v.(*big.Int)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			return writeBytesBody(w, []byte(v.(*big.Int).String()))
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			b, err := readBytesBody(r)
			if err != nil {
				return nil, err
			}
			n := new(big.Int)
			if _, ok := n.SetString(string(b), 10); !ok {
				return nil, &UnknownTagError{Tag: TagLong}
			}
			return n, nil
		},
	}
}

func floatVariant() *Variant {
	return &Variant{
		Tag: TagFloat,
		Match: func(v interface{}) bool {
			_, ok := v.(float64)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			return writeFloat64(w, math.Float64bits(v.(float64)))
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			bits, err := readFloat64(r)
			if err != nil {
				return nil, err
			}
			return math.Float64frombits(bits), nil
		},
	}
}

func writeBytesBody(w io.Writer, b []byte) error {
	if err := writeInt32(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytesBody(r io.Reader) ([]byte, error) {
	n, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &UnknownTagError{Tag: TagBytes}
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func bytesVariant() *Variant {
	return &Variant{
		Tag: TagBytes,
		Match: func(v interface{}) bool {
			_, ok := v.([]byte)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			return writeBytesBody(w, v.([]byte))
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			return readBytesBody(r)
		},
	}
}

func textVariant() *Variant {
	return &Variant{
		Tag: TagText,
		Match: func(v interface{}) bool {
			_, ok := v.(string)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			if err := writeBytesBody(w, []byte(c.PreferredEncoding)); err != nil {
				return err
			}
			return writeBytesBody(w, []byte(v.(string)))
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			codecName, err := readBytesBody(r)
			if err != nil {
				return nil, err
			}
			data, err := readBytesBody(r)
			if err != nil {
				return nil, err
			}
			if string(codecName) != "UTF-8" && string(codecName) != "utf-8" {
				// Unknown codec name: only UTF-8 is natively understood.
				if c.TextErrorMode == "strict" {
					return nil, &codecLookupError{name: string(codecName)}
				}
				return "", nil
			}
			return string(data), nil
		},
	}
}

type codecLookupError struct{ name string }

func (e *codecLookupError) Error() string { return "codec: unknown text codec: " + e.name }

func boolVariant() *Variant {
	return &Variant{
		Tag: TagBool,
		Match: func(v interface{}) bool {
			_, ok := v.(bool)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			n := int32(0)
			if v.(bool) {
				n = 1
			}
			return writeInt32(w, n)
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			n, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			return n != 0, nil
		},
	}
}

func seqVariant() *Variant {
	return &Variant{
		Tag: TagSeq,
		Match: func(v interface{}) bool {
			_, _, ok := seqKindForValue(v)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			entry, items, ok := seqKindForValue(v)
			if !ok {
				return &UnserializeableError{Value: v}
			}
			if err := writeInt32(w, int32(len(items))); err != nil {
				return err
			}
			if err := writeByte(w, byte(entry.kind)); err != nil {
				return err
			}
			for _, item := range items {
				if err := c.SerializeTo(item, w); err != nil {
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
			kindByte, err := readByte(r)
			if err != nil {
				return nil, err
			}
			entry, err := seqKindByByte(kindByte)
			if err != nil {
				return nil, err
			}
			items := make([]interface{}, 0, n)
			for i := int32(0); i < n; i++ {
				item, err := c.DeserializeFrom(r)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			return entry.wrap(items), nil
		},
	}
}

func noneVariant() *Variant {
	return &Variant{
		Tag: TagNone,
		Match: func(v interface{}) bool {
			return v == nil
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error { return nil },
		Read:  func(c *Codec, r io.Reader) (interface{}, error) { return nil, nil },
	}
}

func sliceVariant() *Variant {
	return &Variant{
		Tag: TagSlice,
		Match: func(v interface{}) bool {
			_, ok := v.(Slice)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			s := v.(Slice)
			if err := writeInt32(w, s.Start); err != nil {
				return err
			}
			if err := writeInt32(w, s.Stop); err != nil {
				return err
			}
			return writeInt32(w, s.Step)
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			start, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			stop, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			step, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			return Slice{Start: start, Stop: stop, Step: step}, nil
		},
	}
}

func ellipsisVariant() *Variant {
	return &Variant{
		Tag: TagEllipsis,
		Match: func(v interface{}) bool {
			_, ok := v.(ellipsisType)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error { return nil },
		Read:  func(c *Codec, r io.Reader) (interface{}, error) { return Ellipsis, nil },
	}
}

func errorVariant() *Variant {
	return &Variant{
		Tag: TagError,
		Match: func(v interface{}) bool {
			_, ok := v.(error)
			return ok
		},
		Write: func(c *Codec, v interface{}, w io.Writer) error {
			name, args := errorNameArgs(v.(error))
			if err := writeBytesBody(w, []byte(name)); err != nil {
				return err
			}
			return c.SerializeTo(Tuple(args), w)
		},
		Read: func(c *Codec, r io.Reader) (interface{}, error) {
			nameB, err := readBytesBody(r)
			if err != nil {
				return nil, err
			}
			argsVal, err := c.DeserializeFrom(r)
			if err != nil {
				return nil, err
			}
			var args []interface{}
			switch a := argsVal.(type) {
			case Tuple:
				args = []interface{}(a)
			case List:
				args = []interface{}(a)
			}
			return &RemoteException{Name: string(nameB), Args: args}, nil
		},
	}
}

// errorNameArgs extracts a (name, args) pair from a Go error for ERROR
// serialization. *RemoteException and any type implementing WireArgser
// round-trip their original args; any other error is carried
// as a single-argument exception whose sole arg is its message string,
// since a bare Go error has no structured args tuple to recover.
func errorNameArgs(err error) (string, []interface{}) {
	switch e := err.(type) {
	case *RemoteException:
		return e.Name, e.Args
	case WireArgser:
		return e.WireName(), e.WireArgs()
	default:
		return errorTypeName(err), []interface{}{err.Error()}
	}
}

// WireArgser lets a custom error type control its ERROR-variant wire
// encoding instead of falling back to a single message-string argument.
type WireArgser interface {
	WireName() string
	WireArgs() []interface{}
}

func errorTypeName(err error) string {
	if tn, ok := err.(interface{ WireTypeName() string }); ok {
		return tn.WireTypeName()
	}
	return goTypeName(err)
}
