package tmpl

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
)

// FromNative converts a decoded JSON or YAML document to a [Value].
//
// Accepted inputs are nil, bool, every integer and float kind, string,
// [json.Number], [Value], slices and arrays of accepted values, and maps
// keyed by strings, booleans, integers or fmt.Stringers. Anything else is
// [ErrUnsupportedType].
func FromNative(x any) (Value, error) {
	return fromNative(x, "$")
}

func fromNative(x any, at string) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x)), nil
		}

		return Int(int64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}

		f, err := x.Float64()
		if err != nil {
			return Value{}, ErrUnsupportedType.Wrap(err).With(slog.String("at", at))
		}

		return Float(f), nil
	case []any:
		seq := make([]Value, len(x))
		for i, e := range x {
			v, err := fromNative(e, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return Value{}, err
			}

			seq[i] = v
		}

		return Seq(seq...), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := fromNative(e, at+"."+k)
			if err != nil {
				return Value{}, err
			}

			m[k] = v
		}

		return Map(m), nil
	}

	return fromReflect(reflect.ValueOf(x), at)
}

func fromReflect(rv reflect.Value, at string) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u)), nil
		}

		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return fromNative(rv.Elem().Interface(), at)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Seq(), nil
		}

		seq := make([]Value, rv.Len())
		for i := range seq {
			v, err := fromNative(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return Value{}, err
			}

			seq[i] = v
		}

		return Seq(seq...), nil
	case reflect.Map:
		m := make(map[string]Value, rv.Len())

		it := rv.MapRange()
		for it.Next() {
			key, ok := mapKey(it.Key())
			if !ok {
				return Value{}, ErrUnsupportedType.With(
					slog.String("at", at),
					slog.String("key", fmt.Sprintf("%T", it.Key().Interface())))
			}

			v, err := fromNative(it.Value().Interface(), at+"."+key)
			if err != nil {
				return Value{}, err
			}

			m[key] = v
		}

		return Map(m), nil
	case reflect.Invalid:
		return Null(), nil
	}

	return Value{}, ErrUnsupportedType.With(
		slog.String("at", at),
		slog.String("type", rv.Type().String()))
}

func mapKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", false
		}

		k = k.Elem()
	}

	switch k.Kind() {
	case reflect.String:
		return k.String(), true
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprint(k.Interface()), true
	}

	if s, ok := k.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}

	return "", false
}

// Native converts v to plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any.
func (v Value) Native() any {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeNumber:
		if v.isFloat {
			return v.f
		}

		return v.i
	case TypeString:
		return v.str
	case TypeSequence:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.Native()
		}

		return out
	case TypeMapping:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Native()
		}

		return out
	default:
		return nil
	}
}
