package render

import "reflect"

// Predicate reports whether an entry handles a value.
type Predicate func(v any) bool

// Always accepts every value, nil included.
func Always() Predicate {
	return func(any) bool { return true }
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(v any) bool { return !p(v) }
}

// And accepts a value every predicate accepts.
func And(ps ...Predicate) Predicate {
	return func(v any) bool {
		for _, p := range ps {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Or accepts a value any predicate accepts.
func Or(ps ...Predicate) Predicate {
	return func(v any) bool {
		for _, p := range ps {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// InstanceOf accepts values whose dynamic type is T, or implements T when
// T is an interface.
func InstanceOf[T any]() Predicate {
	return func(v any) bool {
		_, ok := v.(T)
		return ok
	}
}

// Numeric accepts integers, floats and complex numbers of any width,
// including named types built on them.
func Numeric(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
