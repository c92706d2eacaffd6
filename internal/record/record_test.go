package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDKinds(t *testing.T) {
	assert.NotEqual(t, StringID("2"), IntID(2), "string and integer ids are distinct")
	assert.Equal(t, IntID(2), IntID(2))
	assert.Equal(t, "2", IntID(2).String())
	assert.Equal(t, "abc", StringID("abc").String())
	assert.True(t, IntID(1).IsInt())
	assert.False(t, StringID("1").IsInt())
	assert.Equal(t, Int(7), IntID(7).Value())
	assert.Equal(t, String("x"), StringID("x").Value())
}

func TestIDJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal([]ID{IntID(3), StringID("a-1")})
	require.NoError(t, err)
	assert.Equal(t, `[3,"a-1"]`, string(data))

	var ids []ID
	require.NoError(t, json.Unmarshal(data, &ids))
	assert.Equal(t, []ID{IntID(3), StringID("a-1")}, ids)
}

func TestIDFromValueRejectsOtherKinds(t *testing.T) {
	_, err := IDFromValue(Float(1.5))
	require.Error(t, err)
	_, err = IDFromValue(Null{})
	require.Error(t, err)
	_, err = IDFromValue(Bool(true))
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	assert.Equal(t, IntID(12), ParseID("12"))
	assert.Equal(t, IntID(-4), ParseID("-4"))
	assert.Equal(t, StringID("emp-12"), ParseID("emp-12"))
}

func TestRecordGetMissingIsNull(t *testing.T) {
	r := New(IntID(1), map[string]Value{"name": String("Bob")})
	assert.Equal(t, String("Bob"), r.Get("name"))
	assert.Equal(t, Null{}, r.Get("missing"))
}

func TestRecordKeysSorted(t *testing.T) {
	r := New(IntID(1), map[string]Value{"zeta": Int(1), "alpha": Int(2), "id": Int(1)})
	assert.Equal(t, []string{"alpha", "id", "zeta"}, r.Keys())
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`[
		{"id": 1, "name": "Bob", "rate": 21.5, "active": true, "notes": null},
		{"id": "p-2", "name": "Amy", "tags": ["a", "b"]}
	]`)

	records, err := DecodeJSON(data, "id")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, IntID(1), records[0].ID)
	assert.Equal(t, Int(1), records[0].Get("id"))
	assert.Equal(t, String("Bob"), records[0].Get("name"))
	assert.Equal(t, Float(21.5), records[0].Get("rate"))
	assert.Equal(t, Bool(true), records[0].Get("active"))
	assert.Equal(t, Null{}, records[0].Get("notes"))

	assert.Equal(t, StringID("p-2"), records[1].ID)
	assert.Equal(t, String(`["a","b"]`), records[1].Get("tags"))
}

func TestDecodeJSONCustomIDField(t *testing.T) {
	records, err := DecodeJSON([]byte(`[{"uuid": "u1", "name": "x"}]`), "uuid")
	require.NoError(t, err)
	assert.Equal(t, StringID("u1"), records[0].ID)
}

func TestDecodeJSONMissingID(t *testing.T) {
	_, err := DecodeJSON([]byte(`[{"name": "x"}]`), "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record[0]")
	assert.Contains(t, err.Error(), `missing id field "id"`)
}

func TestDecodeJSONFloatID(t *testing.T) {
	_, err := DecodeJSON([]byte(`[{"id": 1.5}]`), "id")
	require.Error(t, err)
}

func TestDecodeJSONNotArray(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"id": 1}`), "id")
	require.Error(t, err)
}

func TestRecordMarshalJSON(t *testing.T) {
	r := New(IntID(1), map[string]Value{"id": Int(1), "name": String("Bob"), "x": Null{}})
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1, "name": "Bob", "x": null}`, string(data))
}

func TestCheckUnique(t *testing.T) {
	ok := []Record{New(IntID(1), nil), New(IntID(2), nil), New(StringID("1"), nil)}
	require.NoError(t, CheckUnique(ok))

	dup := []Record{New(IntID(1), nil), New(IntID(2), nil), New(IntID(1), nil)}
	err := CheckUnique(dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Contains(t, err.Error(), "records 0 and 2")
}

func TestIDs(t *testing.T) {
	recs := []Record{New(IntID(3), nil), New(StringID("a"), nil)}
	assert.Equal(t, []ID{IntID(3), StringID("a")}, IDs(recs))
}
