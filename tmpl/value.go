package tmpl

import (
	"encoding/json"
	"iter"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Type is the kind of a [Value].
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeSequence
	TypeMapping
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSequence:
		return "sequence"
	case TypeMapping:
		return "mapping"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is an immutable render context value. The zero Value is null.
//
// Numbers keep the representation they were built with: an int64 from
// [Int] or a float64 from [Float]. They compare numerically either way.
type Value struct {
	typ     Type
	b       bool
	isFloat bool
	i       int64
	f       float64
	str     string
	seq     []Value
	m       map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Int returns an integer number.
func Int(i int64) Value { return Value{typ: TypeNumber, i: i} }

// Float returns a floating-point number.
func Float(f float64) Value { return Value{typ: TypeNumber, isFloat: true, f: f} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

// Seq returns a sequence holding elems. The slice is retained.
func Seq(elems ...Value) Value { return Value{typ: TypeSequence, seq: elems} }

// Map returns a mapping holding m. The map is retained and must not be
// modified afterwards.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}

	return Value{typ: TypeMapping, m: m}
}

func (v Value) Type() Type   { return v.typ }
func (v Value) IsNull() bool { return v.typ == TypeNull }

// IsFloat reports whether a number holds a float64.
func (v Value) IsFloat() bool { return v.typ == TypeNumber && v.isFloat }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.typ == TypeBool }

// AsInt returns the integer held by v. Floats with an integral value convert.
func (v Value) AsInt() (int64, bool) {
	switch {
	case v.typ != TypeNumber:
		return 0, false
	case !v.isFloat:
		return v.i, true
	case v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<63:
		return int64(v.f), true
	default:
		return 0, false
	}
}

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.typ != TypeNumber {
		return 0, false
	}

	if v.isFloat {
		return v.f, true
	}

	return float64(v.i), true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.typ == TypeString }

// Len returns the number of elements of a sequence, entries of a mapping or
// bytes of a string, and 0 for every other type.
func (v Value) Len() int {
	switch v.typ {
	case TypeString:
		return len(v.str)
	case TypeSequence:
		return len(v.seq)
	case TypeMapping:
		return len(v.m)
	default:
		return 0
	}
}

// Elements iterates over the elements of a sequence.
func (v Value) Elements() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if v.typ != TypeSequence {
			return
		}

		for i, e := range v.seq {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Keys returns the keys of a mapping in sorted order.
func (v Value) Keys() []string {
	if v.typ != TypeMapping {
		return nil
	}

	return slices.Sorted(maps.Keys(v.m))
}

// Get returns the entry of a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.typ != TypeMapping {
		return Value{}, false
	}

	e, ok := v.m[key]

	return e, ok
}

// Lookup follows segments through nested mappings.
func (v Value) Lookup(segments ...string) (Value, bool) {
	for _, s := range segments {
		var ok bool
		if v, ok = v.Get(s); !ok {
			return Value{}, false
		}
	}

	return v, true
}

// Truthy reports the truthiness of v: null and false are falsy, numbers are
// truthy when non-zero, and strings, sequences and mappings when non-empty.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeNumber:
		if v.isFloat {
			return v.f != 0
		}

		return v.i != 0
	case TypeString, TypeSequence, TypeMapping:
		return v.Len() > 0
	default:
		return false
	}
}

// Equal compares by type, then by value. Numbers compare numerically across
// representations, sequences and mappings compare element-wise.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}

	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == o.b
	case TypeNumber:
		if !v.isFloat && !o.isFloat {
			return v.i == o.i
		}

		a, _ := v.AsFloat()
		b, _ := o.AsFloat()

		return a == b
	case TypeString:
		return v.str == o.str
	case TypeSequence:
		return slices.EqualFunc(v.seq, o.seq, Value.Equal)
	case TypeMapping:
		return maps.EqualFunc(v.m, o.m, Value.Equal)
	default:
		return false
	}
}

// formatFloat keeps a fractional part on integral floats so that a model
// value of 2.0 renders as 2.0 rather than as the integer 2.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsRune(s, '.') {
		return s
	}

	return s + ".0"
}

// String returns the text an interpolation of v produces: nothing for null,
// the literal text of scalars, and compact JSON for sequences and mappings.
func (v Value) String() string {
	switch v.typ {
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeNumber:
		if v.isFloat {
			return formatFloat(v.f)
		}

		return strconv.FormatInt(v.i, 10)
	case TypeString:
		return v.str
	case TypeSequence, TypeMapping:
		b, err := json.Marshal(v.Native())
		if err != nil {
			return ""
		}

		return string(b)
	default:
		return ""
	}
}

func (v Value) negate() Value {
	if v.isFloat {
		return Float(-v.f)
	}

	return Int(-v.i)
}

// MarshalJSON encodes v as the JSON value of [Value.Native].
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Native()) }

// GoString implements [fmt.GoStringer] for readable test failures.
func (v Value) GoString() string {
	switch v.typ {
	case TypeNull:
		return "tmpl.Null()"
	case TypeString:
		return "tmpl.String(" + strconv.Quote(v.str) + ")"
	default:
		return "tmpl." + v.typ.String() + "(" + v.String() + ")"
	}
}
