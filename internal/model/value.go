package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional float64. The zero value is missing.
//
// Arithmetic on Value is absorbing: any operation with a missing operand
// yields a missing result, so callers can chain lookups and computations
// and check for missing once at the end.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value holding v. NaN is treated as missing.
func Some(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// Missing returns a missing Value.
func Missing() Value {
	return Value{}
}

// Get returns the underlying float and whether it is present.
func (x Value) Get() (float64, bool) {
	return x.v, x.ok
}

// IsMissing reports whether x has no value.
func (x Value) IsMissing() bool {
	return !x.ok
}

// Or returns the held value, or fallback when missing.
func (x Value) Or(fallback float64) float64 {
	if !x.ok {
		return fallback
	}
	return x.v
}

// OrElse returns x when present, otherwise y.
func (x Value) OrElse(y Value) Value {
	if x.ok {
		return x
	}
	return y
}

// Add returns x + y.
func (x Value) Add(y Value) Value {
	if !x.ok || !y.ok {
		return Value{}
	}
	return Some(x.v + y.v)
}

// Sub returns x - y.
func (x Value) Sub(y Value) Value {
	if !x.ok || !y.ok {
		return Value{}
	}
	return Some(x.v - y.v)
}

// Mul returns x * y.
func (x Value) Mul(y Value) Value {
	if !x.ok || !y.ok {
		return Value{}
	}
	return Some(x.v * y.v)
}

// Div returns x / y. Division by zero yields missing.
func (x Value) Div(y Value) Value {
	if !x.ok || !y.ok || y.v == 0 {
		return Value{}
	}
	return Some(x.v / y.v)
}

// Abs returns |x|.
func (x Value) Abs() Value {
	if !x.ok {
		return Value{}
	}
	return Some(math.Abs(x.v))
}

// Round rounds x half away from zero to the given number of decimal places.
func (x Value) Round(places int) Value {
	if !x.ok {
		return Value{}
	}
	p := math.Pow(10, float64(places))
	return Some(math.Round(x.v*p) / p)
}

// Equal reports whether x and y are both missing or both present and equal.
func (x Value) Equal(y Value) bool {
	if x.ok != y.ok {
		return false
	}
	return !x.ok || x.v == y.v
}

// Mean returns the arithmetic mean of values. If any value is missing, or
// no values are given, the result is missing.
func Mean(values ...Value) Value {
	if len(values) == 0 {
		return Value{}
	}
	var sum float64
	for _, x := range values {
		if !x.ok {
			return Value{}
		}
		sum += x.v
	}
	return Some(sum / float64(len(values)))
}

// String formats x with the minimal representation, or "NA" when missing.
func (x Value) String() string {
	if !x.ok {
		return "NA"
	}
	return strconv.FormatFloat(x.v, 'f', -1, 64)
}

// MarshalJSON encodes a missing value as null.
func (x Value) MarshalJSON() ([]byte, error) {
	if !x.ok {
		return []byte("null"), nil
	}
	return json.Marshal(x.v)
}

// UnmarshalJSON decodes null as missing.
func (x *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*x = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*x = Some(f)
	return nil
}

// MarshalYAML encodes a missing value as null.
func (x Value) MarshalYAML() (any, error) {
	if !x.ok {
		return nil, nil
	}
	return x.v, nil
}
