// Package clone produces detached deep copies of record values so snapshots
// handed to callers never alias the live store state.
package clone

import "reflect"

// Value returns a deep copy of v. Maps, slices, arrays, pointers and exported
// struct fields are copied recursively; everything else is copied by value.
// Shared and cyclic references are preserved: a pointer, map or slice
// reached twice is copied once and the copy is reused.
func Value[T any](v T) T {
	var zero T
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return zero
	}
	c := cloner{seen: map[visit]reflect.Value{}}
	cloned := c.value(rv)
	if !cloned.IsValid() {
		return zero
	}
	out, ok := cloned.Interface().(T)
	if !ok {
		return v
	}
	return out
}

// Map deep copies every entry of src into a new map.
func Map(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = Value(value)
	}
	return out
}

// visit identifies a reference already copied during one Value call. Length
// is part of the key so sub-slices sharing a backing array stay distinct.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type cloner struct {
	seen map[visit]reflect.Value
}

func (c *cloner) value(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if done, ok := c.seen[key]; ok {
			return done
		}
		clone := reflect.New(v.Type().Elem())
		c.seen[key] = clone
		clone.Elem().Set(c.value(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := c.value(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(c.value(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if done, ok := c.seen[key]; ok {
			return done
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.seen[key] = clone
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), c.elem(iter.Value(), v.Type().Elem()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		if v.Len() > 0 {
			key := visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
			if done, ok := c.seen[key]; ok {
				return done
			}
			c.seen[key] = clone
		}
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(c.elem(v.Index(i), v.Type().Elem()))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(c.elem(v.Index(i), v.Type().Elem()))
		}
		return clone
	default:
		return v
	}
}

// elem keeps nil interface elements assignable to their container.
func (c *cloner) elem(v reflect.Value, typ reflect.Type) reflect.Value {
	cloned := c.value(v)
	if !cloned.IsValid() {
		return reflect.Zero(typ)
	}
	return cloned
}
