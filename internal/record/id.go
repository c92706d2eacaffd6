package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a record within a snapshot.
// The zero ID is the empty string id. IDs are comparable and usable as map keys.
type ID struct {
	str     string
	num     int64
	numeric bool
}

// StringID creates a string identifier.
func StringID(s string) ID {
	return ID{str: s}
}

// IntID creates an integer identifier.
func IntID(n int64) ID {
	return ID{num: n, numeric: true}
}

// IsInt reports whether the identifier is an integer.
func (id ID) IsInt() bool {
	return id.numeric
}

// String returns the textual form of the identifier.
func (id ID) String() string {
	if id.numeric {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// Value returns the identifier as a field Value.
func (id ID) Value() Value {
	if id.numeric {
		return Int(id.num)
	}
	return String(id.str)
}

// MarshalJSON encodes integer ids as JSON numbers and string ids as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(strconv.FormatInt(id.num, 10)), nil
	}
	return json.Marshal(id.str)
}

// UnmarshalJSON decodes a JSON number or string into an ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := IDFromAny(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IDFromValue converts a String or integral Int value into an ID.
func IDFromValue(v Value) (ID, error) {
	switch val := v.(type) {
	case String:
		return StringID(string(val)), nil
	case Int:
		return IntID(int64(val)), nil
	default:
		return ID{}, fmt.Errorf("identifier must be a string or integer, got %T", v)
	}
}

// IDFromAny converts a decoded Go value into an ID.
func IDFromAny(v any) (ID, error) {
	val, err := FromAny(v)
	if err != nil {
		return ID{}, err
	}
	return IDFromValue(val)
}

// ParseID interprets text as an integer id when it is a base-10 integer,
// otherwise as a string id. Used for ids typed on a command line.
func ParseID(s string) ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}
	return StringID(s)
}
