// Package layering holds the reflection helpers used to copy and combine
// field records without sharing mutable substructure.
package layering

import "reflect"

// Clone returns a structural copy of value. Maps, slices, arrays, pointers and
// interfaces are copied recursively so the result shares no mutable state with
// the input. Structs with unexported fields are copied as whole values.
func Clone[T any](value T) T {
	var zero T
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return zero
	}
	target := reflect.TypeOf((*T)(nil)).Elem()
	if cloned.Type() != target {
		if !cloned.Type().ConvertibleTo(target) {
			return zero
		}
		cloned = cloned.Convert(target)
	}
	out, _ := cloned.Interface().(T)
	return out
}

// CloneMap copies src deeply. A nil map stays nil.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = Clone(value)
	}
	return out
}

// Assign copies every entry of src onto dst, overwriting existing keys, and
// returns dst. A nil dst is allocated. Values are not copied.
func Assign(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneValue(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		inner := cloneValue(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), assignable(cloneValue(iter.Value()), v.Type().Elem()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(assignable(cloneValue(v.Index(i)), v.Type().Elem()))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(assignable(cloneValue(v.Index(i)), v.Type().Elem()))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		if hasUnexportedFields(v.Type()) {
			// time.Time, big.Int and friends keep their state private; copy them whole.
			out.Set(v)
			return out
		}
		for i := 0; i < v.NumField(); i++ {
			out.Field(i).Set(assignable(cloneValue(v.Field(i)), out.Field(i).Type()))
		}
		return out
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}

// assignable turns an invalid value (a nil interface element) into the zero
// value of typ so it can be stored back into a container.
func assignable(v reflect.Value, typ reflect.Type) reflect.Value {
	if !v.IsValid() {
		return reflect.Zero(typ)
	}
	return v
}

func hasUnexportedFields(typ reflect.Type) bool {
	for i := 0; i < typ.NumField(); i++ {
		if !typ.Field(i).IsExported() {
			return true
		}
	}
	return false
}
