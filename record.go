package proxied

import (
	"reflect"
	"strings"
)

// toRecord converts a caller supplied partial into a Record. Maps keyed by a
// string kind, structs and non-nil struct pointers are accepted.
func toRecord(op string, partial any) (Record, error) {
	switch typed := partial.(type) {
	case nil:
		return nil, argumentError(op, "partial", "must be an object, got nil")
	case Record:
		if typed == nil {
			return nil, argumentError(op, "partial", "must be an object, got nil Record")
		}
		return copyRecord(typed), nil
	case map[string]any:
		if typed == nil {
			return nil, argumentError(op, "partial", "must be an object, got nil map")
		}
		return copyRecord(typed), nil
	}

	value := reflect.ValueOf(partial)
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, argumentError(op, "partial", "must be an object, got nil %s", value.Type())
		}
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, argumentError(op, "partial", "must use string keys, got %s", value.Type())
		}
		if value.IsNil() {
			return nil, argumentError(op, "partial", "must be an object, got nil %s", value.Type())
		}
		out := make(Record, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	case reflect.Struct:
		return structRecord(value), nil
	default:
		return nil, argumentError(op, "partial", "must be an object, got %T", partial)
	}
}

func structRecord(value reflect.Value) Record {
	out := make(Record, value.NumField())
	collectFields(out, value, map[reflect.Type]bool{})
	return out
}

// collectFields copies exported fields into out, keyed by json name.
// Untagged embedded structs are flattened the way encoding/json promotes
// them, and fields declared on the outer struct win over promoted ones.
// Nil embedded pointers contribute nothing. Embedded structs of unexported
// types are skipped because reflection cannot read their fields. A type
// embedding itself through a pointer is only flattened once.
func collectFields(out Record, value reflect.Value, visiting map[reflect.Type]bool) {
	typ := value.Type()
	visiting[typ] = true
	defer delete(visiting, typ)
	direct := make([]int, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && !namedByTag(field) {
			embedded := value.Field(i)
			isStructPointer := embedded.Kind() == reflect.Pointer && embedded.Type().Elem().Kind() == reflect.Struct
			if isStructPointer || embedded.Kind() == reflect.Struct {
				if !field.IsExported() || (isStructPointer && embedded.IsNil()) {
					continue
				}
				if inner := reflect.Indirect(embedded); !visiting[inner.Type()] {
					collectFields(out, inner, visiting)
				}
				continue
			}
		}
		if field.IsExported() {
			direct = append(direct, i)
		}
	}
	for _, i := range direct {
		name, skip := fieldName(typ.Field(i))
		if skip {
			continue
		}
		out[name] = value.Field(i).Interface()
	}
}

// namedByTag reports whether the json tag names the field or hides it, in
// which case an embedded struct stays a single key or is dropped.
func namedByTag(field reflect.StructField) bool {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return false
	}
	name, _, _ := strings.Cut(tag, ",")
	return name != ""
}

func fieldName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return field.Name, false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name, false
	}
	return name, false
}

func copyRecord(src map[string]any) Record {
	out := make(Record, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
