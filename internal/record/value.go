package record

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a sealed interface representing a single field value.
// Only Null, String, Int, Float and Bool implement it.
type Value interface {
	recordValue() // Sealed - only these types implement it
}

// Null represents an absent or JSON null field.
type Null struct{}

func (Null) recordValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string value.
type String string

func (String) recordValue() {}

// Int represents an integer value.
type Int int64

func (Int) recordValue() {}

// Float represents a floating-point value.
type Float float64

func (Float) recordValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) recordValue() {}

// IsNull reports whether v is Null or a nil interface.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Stringify returns the textual form used for matching and display.
// Returns false for null values.
func Stringify(v Value) (string, bool) {
	switch val := v.(type) {
	case String:
		return string(val), true
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64), true
	case Bool:
		return strconv.FormatBool(bool(val)), true
	default:
		return "", false
	}
}

// kindRank orders mixed kinds: Bool < number < String.
func kindRank(v Value) int {
	switch v.(type) {
	case Bool:
		return 0
	case Int, Float:
		return 1
	case String:
		return 2
	default:
		return 3
	}
}

// Compare orders two non-null values.
// Numbers compare numerically across Int and Float, strings byte-wise,
// and false sorts before true. Values of different kinds are ordered by kind.
// Null handling is the caller's concern; two nulls compare equal and a null
// sorts after everything else.
func Compare(a, b Value) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch av := a.(type) {
	case String:
		return strings.Compare(string(av), string(b.(String)))
	case Bool:
		bv := bool(b.(Bool))
		switch {
		case bool(av) == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case Int:
		switch bv := b.(type) {
		case Int:
			return cmp.Compare(av, bv)
		case Float:
			return cmp.Compare(float64(av), float64(bv))
		}
	case Float:
		switch bv := b.(type) {
		case Int:
			return cmp.Compare(float64(av), float64(bv))
		case Float:
			return cmp.Compare(av, bv)
		}
	}
	return 0
}

// FromAny converts a decoded Go value into a Value.
// Accepts the shapes produced by encoding/json (with UseNumber), yaml.v3 and
// the columnar readers. Arrays and objects become String holding compact JSON.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return FromFloat(f), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return Float(float64(val)), nil
		}
		return Int(val), nil
	case float32:
		return FromFloat(float64(val)), nil
	case float64:
		return FromFloat(val), nil
	case time.Time:
		return String(val.UTC().Format(time.RFC3339)), nil
	case []any, map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshal nested value: %w", err)
		}
		return String(data), nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// FromFloat normalizes a decoded float. Whole numbers within the exact
// float64 integer range become Int; NaN and infinities become Null.
func FromFloat(f float64) Value {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return Null{}
	case f == math.Trunc(f) && math.Abs(f) < 1<<53:
		return Int(int64(f))
	}
	return Float(f)
}

// ToAny converts a Value back to a plain Go value for encoding.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	default:
		return nil
	}
}
