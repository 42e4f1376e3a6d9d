package rustache

import (
	"fmt"
	"reflect"
)

// ToValue converts an arbitrary Go value into the internal Value tree
// via reflection. This module has no serde-equivalent serialization
// collaborator available to it, so ToValue stands in for one: bools
// pass through as Bool, every numeric kind stringifies to a String
// (the core keeps no distinct numeric variant, per spec 3.3), strings
// pass through, slices/arrays become Sequence, maps/structs become
// Object, a func(*Value) *Value becomes Lambda, and nil/invalid values
// become None.
func ToValue(in any) *Value {
	if in == nil {
		return NewNone()
	}
	if fn, ok := in.(func(*Value) *Value); ok {
		return NewLambda(fn)
	}
	if v, ok := in.(*Value); ok {
		return v
	}

	rv := reflect.ValueOf(in)
	return toValueReflect(rv)
}

func toValueReflect(rv reflect.Value) *Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return NewNone()
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return NewNone()
		}
		return toValueReflect(rv.Elem())
	case reflect.Bool:
		return NewBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewString(fmt.Sprintf("%d", rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewString(fmt.Sprintf("%d", rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return NewString(fmt.Sprintf("%v", rv.Float()))
	case reflect.String:
		return NewString(rv.String())
	case reflect.Slice, reflect.Array:
		items := make([]*Value, rv.Len())
		for i := range items {
			items[i] = toValueReflect(rv.Index(i))
		}
		return NewSequence(items)
	case reflect.Map:
		fields := make(map[string]*Value, rv.Len())
		for _, key := range rv.MapKeys() {
			fields[fmt.Sprintf("%v", key.Interface())] = toValueReflect(rv.MapIndex(key))
		}
		return NewObject(fields)
	case reflect.Struct:
		t := rv.Type()
		fields := make(map[string]*Value, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			fields[sf.Name] = toValueReflect(rv.Field(i))
		}
		return NewObject(fields)
	case reflect.Func:
		if rv.CanInterface() {
			if fn, ok := rv.Interface().(func(*Value) *Value); ok && fn != nil {
				return NewLambda(fn)
			}
		}
		return NewNone()
	default:
		return NewNone()
	}
}
