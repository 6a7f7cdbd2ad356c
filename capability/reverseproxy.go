/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package capability

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoSuchAttr is returned by the reflective fallback when a field or
// method cannot be found for a GetAttr/SetAttr/DelAttr call.
var ErrNoSuchAttr = errors.New("capability: no such attribute")

// ErrNotIndexable is returned by the reflective fallback for GetItem/
// SetItem/DelItem on a value with no map or slice/array kind.
var ErrNotIndexable = errors.New("capability: not indexable")

// ErrNotCallable is returned by Call when the wrapped value is not a func.
var ErrNotCallable = errors.New("capability: not callable")

// ReverseProxy adapts an arbitrary Go value to the Obj capability set.
// If the wrapped value implements Obj natively, ReverseProxy simply
// forwards every call to it; otherwise it
// falls back to reflection over exported struct fields (GetAttr/SetAttr/
// DelAttr; GetAttr also returns exported methods as bound funcs),
// map/slice indexing (GetItem/SetItem/DelItem/Len), fmt-style
// formatting (Repr/Str), and func invocation (Call).
type ReverseProxy struct {
	obj interface{}
}

// NewReverseProxy wraps obj for presentation through the capability set.
func NewReverseProxy(obj interface{}) *ReverseProxy {
	return &ReverseProxy{obj: obj}
}

// Unwrap returns the underlying value.
func (rp *ReverseProxy) Unwrap() interface{} { return rp.obj }

func (rp *ReverseProxy) GetAttr(attr string) (interface{}, error) {
	if native, ok := rp.obj.(Obj); ok {
		return native.GetAttr(attr)
	}
	v := reflect.ValueOf(rp.obj)
	fv, err := fieldByName(v, attr)
	if err != nil {
		if v.IsValid() {
			if mv := v.MethodByName(attr); mv.IsValid() {
				return mv.Interface(), nil
			}
		}
		return nil, err
	}
	return fv.Interface(), nil
}

func (rp *ReverseProxy) SetAttr(attr string, val interface{}) error {
	if native, ok := rp.obj.(Obj); ok {
		return native.SetAttr(attr, val)
	}
	v := reflect.ValueOf(rp.obj)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ErrNoSuchAttr
	}
	fv := v.FieldByName(attr)
	if !fv.IsValid() || !fv.CanSet() {
		return ErrNoSuchAttr
	}
	vv := reflect.ValueOf(val)
	if !vv.IsValid() {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	if !vv.Type().AssignableTo(fv.Type()) {
		if vv.Type().ConvertibleTo(fv.Type()) {
			vv = vv.Convert(fv.Type())
		} else {
			return fmt.Errorf("capability: cannot assign %T to field %s (%s)", val, attr, fv.Type())
		}
	}
	fv.Set(vv)
	return nil
}

func (rp *ReverseProxy) DelAttr(attr string) error {
	if native, ok := rp.obj.(Obj); ok {
		return native.DelAttr(attr)
	}
	// Reflection has no general notion of "unset a struct field"; zero it.
	return rp.SetAttr(attr, nil)
}

func fieldByName(v reflect.Value, attr string) (reflect.Value, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, ErrNoSuchAttr
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNoSuchAttr
	}
	fv := v.FieldByName(attr)
	if !fv.IsValid() {
		return reflect.Value{}, ErrNoSuchAttr
	}
	return fv, nil
}

func (rp *ReverseProxy) GetItem(item interface{}) (interface{}, error) {
	if native, ok := rp.obj.(Obj); ok {
		return native.GetItem(item)
	}
	v := indirect(reflect.ValueOf(rp.obj))
	switch v.Kind() {
	case reflect.Map:
		key := reflect.ValueOf(item)
		mv := v.MapIndex(key)
		if !mv.IsValid() {
			return nil, fmt.Errorf("capability: no such key: %v", item)
		}
		return mv.Interface(), nil
	case reflect.Slice, reflect.Array:
		idx, ok := asInt(item)
		if !ok || idx < 0 || idx >= v.Len() {
			return nil, fmt.Errorf("capability: index out of range: %v", item)
		}
		return v.Index(idx).Interface(), nil
	default:
		return nil, ErrNotIndexable
	}
}

func (rp *ReverseProxy) SetItem(item interface{}, val interface{}) error {
	if native, ok := rp.obj.(Obj); ok {
		return native.SetItem(item, val)
	}
	v := indirect(reflect.ValueOf(rp.obj))
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return ErrNotIndexable
		}
		v.SetMapIndex(reflect.ValueOf(item), reflect.ValueOf(val))
		return nil
	case reflect.Slice, reflect.Array:
		idx, ok := asInt(item)
		if !ok || idx < 0 || idx >= v.Len() {
			return fmt.Errorf("capability: index out of range: %v", item)
		}
		v.Index(idx).Set(reflect.ValueOf(val))
		return nil
	default:
		return ErrNotIndexable
	}
}

func (rp *ReverseProxy) DelItem(item interface{}) error {
	if native, ok := rp.obj.(Obj); ok {
		return native.DelItem(item)
	}
	v := indirect(reflect.ValueOf(rp.obj))
	if v.Kind() != reflect.Map {
		return ErrNotIndexable
	}
	v.SetMapIndex(reflect.ValueOf(item), reflect.Value{})
	return nil
}

func (rp *ReverseProxy) Len() (int, error) {
	if native, ok := rp.obj.(Obj); ok {
		return native.Len()
	}
	v := indirect(reflect.ValueOf(rp.obj))
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String, reflect.Chan:
		return v.Len(), nil
	default:
		return 0, ErrNotIndexable
	}
}

func (rp *ReverseProxy) Repr() (string, error) {
	if native, ok := rp.obj.(Obj); ok {
		return native.Repr()
	}
	return fmt.Sprintf("%#v", rp.obj), nil
}

func (rp *ReverseProxy) Str() (string, error) {
	if native, ok := rp.obj.(Obj); ok {
		return native.Str()
	}
	return fmt.Sprintf("%v", rp.obj), nil
}

func (rp *ReverseProxy) Call(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if native, ok := rp.obj.(Obj); ok {
		return native.Call(args, kwargs)
	}
	v := reflect.ValueOf(rp.obj)
	if v.Kind() != reflect.Func {
		return nil, ErrNotCallable
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.New(v.Type().In(i)).Elem()
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := v.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]interface{}, len(out))
		for i, o := range out {
			vals[i] = o.Interface()
		}
		return vals, nil
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}
