package criteria

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// isFalsy reports whether v counts as "no value": nil, false, zero numbers and
// empty strings, slices, arrays and maps.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() == 0
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isSequence reports whether v is a list value. Documents and binary data are not lists.
func isSequence(v any) bool {
	switch v.(type) {
	case nil, bson.D, []byte:
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// listValues copies variadic list arguments into a bson.A. A single list
// argument is expanded into its elements.
func listValues(values []any) bson.A {
	if len(values) == 1 && isSequence(values[0]) {
		rv := reflect.ValueOf(values[0])
		list := make(bson.A, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return list
	}
	list := make(bson.A, len(values))
	copy(list, values)
	return list
}

// lookup returns the value stored under key in doc.
func lookup(doc bson.D, key string) (any, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// put sets key to v, keeping the position of an existing entry.
func put(doc bson.D, key string, v any) bson.D {
	for i := range doc {
		if doc[i].Key == key {
			doc[i].Value = v
			return doc
		}
	}
	return append(doc, bson.E{Key: key, Value: v})
}
