package record

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Compile-time check that every kind implements Value
	var _ Value = Null{}
	var _ Value = String("a")
	var _ Value = Int(1)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(Null{}))
	assert.False(t, IsNull(String("")))
	assert.False(t, IsNull(Int(0)))
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
		ok    bool
	}{
		{"string", String("Bob"), "Bob", true},
		{"empty string", String(""), "", true},
		{"int", Int(42), "42", true},
		{"negative int", Int(-7), "-7", true},
		{"float", Float(3.25), "3.25", true},
		{"whole float", Float(2), "2", true},
		{"bool true", Bool(true), "true", true},
		{"bool false", Bool(false), "false", true},
		{"null", Null{}, "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Stringify(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"strings less", String("Amy"), String("Bob"), -1},
		{"strings equal", String("Amy"), String("Amy"), 0},
		{"strings greater", String("Cid"), String("Bob"), 1},
		{"ints", Int(1), Int(2), -1},
		{"int vs float", Int(2), Float(1.5), 1},
		{"float vs int equal", Float(3), Int(3), 0},
		{"bools", Bool(false), Bool(true), -1},
		{"bool equal", Bool(true), Bool(true), 0},
		{"bool before number", Bool(true), Int(0), -1},
		{"number before string", Int(99), String("1"), -1},
		{"string after bool", String("a"), Bool(false), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestFromAny(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null{}},
		{"string", "x", String("x")},
		{"bool", true, Bool(true)},
		{"json int", json.Number("12"), Int(12)},
		{"json float", json.Number("1.5"), Float(1.5)},
		{"json whole float", json.Number("2.0"), Int(2)},
		{"json exponent", json.Number("1e3"), Int(1000)},
		{"int", 5, Int(5)},
		{"int32", int32(-3), Int(-3)},
		{"whole float64", float64(4), Int(4)},
		{"fractional float64", 4.5, Float(4.5)},
		{"float32", float32(0.5), Float(0.5)},
		{"time", ts, String("2026-03-04T09:30:00Z")},
		{"value passthrough", Int(9), Int(9)},
		{"nested object", map[string]any{"a": 1}, String(`{"a":1}`)},
		{"nested array", []any{"a", "b"}, String(`["a","b"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, Int(3), FromFloat(3.0))
	assert.Equal(t, Float(3.5), FromFloat(3.5))
	assert.Equal(t, Float(1<<53), FromFloat(1<<53), "outside exact integer range")
	assert.Equal(t, Null{}, FromFloat(math.NaN()))
	assert.Equal(t, Null{}, FromFloat(math.Inf(1)))
	assert.Equal(t, Null{}, FromFloat(math.Inf(-1)))
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type")
}

func TestToAny(t *testing.T) {
	assert.Equal(t, "a", ToAny(String("a")))
	assert.Equal(t, int64(3), ToAny(Int(3)))
	assert.Equal(t, 1.5, ToAny(Float(1.5)))
	assert.Equal(t, true, ToAny(Bool(true)))
	assert.Nil(t, ToAny(Null{}))
}
