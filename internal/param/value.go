// Closed value variant over the four supported primitive kinds
package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Primitive lists the Go types a parameter may hold.
type Primitive interface {
	bool | int | float32 | float64
}

// Numeric lists the types that can be bounded by a slider.
type Numeric interface {
	int | float32 | float64
}

// Kind is the discriminant of a Value.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindDouble
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// KindOf returns the discriminant for the type parameter T.
func KindOf[T Primitive]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return KindBool
	case int:
		return KindInt
	case float32:
		return KindFloat
	default:
		return KindDouble
	}
}

// Value holds exactly one of bool, int, float32 or float64.
// The zero Value is a false bool.
type Value struct {
	kind Kind
	b    bool
	i    int
	f    float32
	d    float64
}

func BoolValue(v bool) Value       { return Value{kind: KindBool, b: v} }
func IntValue(v int) Value         { return Value{kind: KindInt, i: v} }
func FloatValue(v float32) Value   { return Value{kind: KindFloat, f: v} }
func DoubleValue(v float64) Value  { return Value{kind: KindDouble, d: v} }
func (v Value) Kind() Kind         { return v.kind }
func (v Value) Equal(o Value) bool { return v == o }

// ValueOf wraps a typed value.
func ValueOf[T Primitive](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(x)
	case float32:
		return FloatValue(x)
	default:
		return DoubleValue(any(v).(float64))
	}
}

func (v Value) mismatch(want Kind) error {
	return fmt.Errorf("%w: holds %s, requested %s", ErrKindMismatch, v.kind, want)
}

func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.b, nil
}

func (v Value) Int() (int, error) {
	if v.kind != KindInt {
		return 0, v.mismatch(KindInt)
	}
	return v.i, nil
}

func (v Value) Float() (float32, error) {
	if v.kind != KindFloat {
		return 0, v.mismatch(KindFloat)
	}
	return v.f, nil
}

func (v Value) Double() (float64, error) {
	if v.kind != KindDouble {
		return 0, v.mismatch(KindDouble)
	}
	return v.d, nil
}

// As extracts the held value as T. It never converts between kinds.
func As[T Primitive](v Value) (T, error) {
	var out T
	if want := KindOf[T](); v.kind != want {
		return out, v.mismatch(want)
	}
	switch p := any(&out).(type) {
	case *bool:
		*p = v.b
	case *int:
		*p = v.i
	case *float32:
		*p = v.f
	case *float64:
		*p = v.d
	}
	return out, nil
}

// String formats the held value the way a text control shows it.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return FormatText(v.b)
	case KindInt:
		return FormatText(v.i)
	case KindFloat:
		return FormatText(v.f)
	case KindDouble:
		return FormatText(v.d)
	default:
		return v.kind.String()
	}
}

// FormatText renders v as text. Floats use the shortest form that parses
// back to the same value at their width.
func FormatText[T Primitive](v T) string {
	switch x := any(v).(type) {
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return strconv.FormatFloat(any(v).(float64), 'g', -1, 64)
	}
}

// ParseText parses text produced by FormatText or typed by a user.
func ParseText[T Primitive](s string) (T, error) {
	var out T
	s = strings.TrimSpace(s)
	switch p := any(&out).(type) {
	case *bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return out, err
		}
		*p = b
	case *int:
		i, err := strconv.Atoi(s)
		if err != nil {
			return out, err
		}
		*p = i
	case *float32:
		f, err := parseFinite(s, 32)
		if err != nil {
			return out, err
		}
		*p = float32(f)
	case *float64:
		f, err := parseFinite(s, 64)
		if err != nil {
			return out, err
		}
		*p = f
	}
	return out, nil
}

// parseFinite rejects NaN and infinities, which strconv accepts as text.
func parseFinite(s string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotFinite, s)
	}
	return f, nil
}

// ParseValue parses text into a Value of the given kind.
func ParseValue(kind Kind, s string) (Value, error) {
	switch kind {
	case KindBool:
		v, err := ParseText[bool](s)
		return BoolValue(v), err
	case KindInt:
		v, err := ParseText[int](s)
		return IntValue(v), err
	case KindFloat:
		v, err := ParseText[float32](s)
		return FloatValue(v), err
	case KindDouble:
		v, err := ParseText[float64](s)
		return DoubleValue(v), err
	default:
		return Value{}, fmt.Errorf("%w: unsupported kind %s", ErrKindMismatch, kind)
	}
}
