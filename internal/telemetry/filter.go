package telemetry

import (
	"math"
	"reflect"

	"shopping-fpti/internal/telemetry/domain"
)

// FilterFalsyValues returns a copy of vars without keys whose value is nil, "", zero, NaN or false.
func FilterFalsyValues(vars domain.Variables) domain.Variables {
	out := make(domain.Variables, len(vars))
	for k, v := range vars {
		if !isFalsy(v) {
			out[k] = v
		}
	}
	return out
}

func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
