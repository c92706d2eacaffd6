package source

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shiftgrid/internal/record"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"a.JSONL", FormatJSONLines},
		{"a.ndjson", FormatJSONLines},
		{"dir/a.csv", FormatCSV},
		{"a.tsv", FormatCSV},
		{"a.parquet", FormatParquet},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := DetectFormat("a.xlsx")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadJSON(t *testing.T) {
	records, err := Load(context.Background(), "testdata/shifts.json", "")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, record.IntID(1), records[0].ID)
	assert.Equal(t, record.Float(18.5), records[0].Get("rate"))
	assert.Equal(t, record.Int(21), records[1].Get("rate"))
	assert.Equal(t, record.Bool(false), records[1].Get("approved"))
	assert.True(t, record.IsNull(records[2].Get("site")))
	assert.Equal(t, record.String(`["night","forklift"]`), records[2].Get("tags"))
}

func TestLoadJSONLines(t *testing.T) {
	records, err := Load(context.Background(), "testdata/shifts.jsonl", "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, record.StringID("s-2"), records[1].ID)
	assert.Equal(t, record.Float(7.5), records[1].Get("hours"))
	assert.Equal(t, record.Int(8), records[0].Get("hours"))
}

func TestReadJSONLinesReportsLine(t *testing.T) {
	_, err := ReadJSONLines(strings.NewReader("{\"id\":1}\n{\"id\":\n"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadJSONLines(strings.NewReader("{\"name\":\"x\"}\n"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing id field "id"`)
}

func TestReadJSONLinesRejectsTrailingData(t *testing.T) {
	for _, line := range []string{
		`{"id":1} {"id":2}`,
		`{"id":1}]`,
		`{"id":1} x`,
	} {
		_, err := ReadJSONLines(strings.NewReader(line+"\n"), "")
		require.Error(t, err, line)
		assert.Contains(t, err.Error(), "line 1: trailing data", line)
	}

	records, err := ReadJSONLines(strings.NewReader("  {\"id\":1}  \n"), "")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestReadJSONLinesWholeFloats(t *testing.T) {
	records, err := ReadJSONLines(strings.NewReader(`{"id":1.0,"hours":8.0}`+"\n"), "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.IntID(1), records[0].ID)
	assert.Equal(t, record.Int(8), records[0].Get("hours"))
}

func TestLoadCSVInference(t *testing.T) {
	records, err := Load(context.Background(), "testdata/shifts.csv", "")
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, record.IntID(1), first.ID)
	assert.Equal(t, record.String("Bob Hale"), first.Get("worker"), "cells are trimmed")
	assert.Equal(t, record.Float(18.5), first.Get("rate"))
	assert.Equal(t, record.Bool(true), first.Get("approved"))

	assert.Equal(t, record.Int(21), records[1].Get("rate"))
	assert.Equal(t, record.Bool(false), records[1].Get("approved"))
	assert.True(t, record.IsNull(records[2].Get("site")))
	assert.Equal(t, record.String("maybe"), records[2].Get("approved"))
}

func TestReadCSVDetectsSeparator(t *testing.T) {
	f, err := os.Open("testdata/semicolon.csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := ReadCSV(f, "", CSVOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, record.StringID("A2"), records[1].ID)
	assert.Equal(t, record.Float(7.5), records[1].Get("hours"))
}

func TestReadCSVRawStrings(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("code,qty\n007,12\n"), "code", CSVOptions{Comma: ',', RawStrings: true})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.StringID("007"), records[0].ID)
	assert.Equal(t, record.String("12"), records[0].Get("qty"))
}

func TestReadCSVNumericText(t *testing.T) {
	input := "id,worker,hours\n1,Nan,2.0\n2,Inf,-infinity\n3,NaN,1e2\n"
	records, err := ReadCSV(strings.NewReader(input), "", CSVOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, record.String("Nan"), records[0].Get("worker"))
	assert.Equal(t, record.Int(2), records[0].Get("hours"))
	assert.Equal(t, record.String("Inf"), records[1].Get("worker"))
	assert.Equal(t, record.String("-infinity"), records[1].Get("hours"))
	assert.Equal(t, record.String("NaN"), records[2].Get("worker"))
	assert.Equal(t, record.Int(100), records[2].Get("hours"))
}

func TestReadCSVEdgeCases(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""), "", CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = ReadCSV(strings.NewReader("id,name\n1,a,extra\n"), "", CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestDetectSeparator(t *testing.T) {
	assert.Equal(t, ',', DetectSeparator("a,b,c"))
	assert.Equal(t, ';', DetectSeparator("a;b;c,d"))
	assert.Equal(t, '\t', DetectSeparator("a\tb\tc"))
	assert.Equal(t, '|', DetectSeparator("a|b"))
	assert.Equal(t, ',', DetectSeparator("single"))
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	_, err := Load(context.Background(), "testdata/duplicate.json", "")
	require.ErrorIs(t, err, record.ErrDuplicateID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), "testdata/nope.json", "")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func writeShiftsParquet(t *testing.T) string {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "worker", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "hours", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "approved", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{10, 11, 12}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"Bob", "Amy", ""}, []bool{true, true, false})
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{8, 7.5, 0}, []bool{true, true, false})
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{true, false, false}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "shifts.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return path
}

func TestLoadParquet(t *testing.T) {
	path := writeShiftsParquet(t)

	records, err := Load(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, record.IntID(10), records[0].ID)
	assert.Equal(t, record.String("Amy"), records[1].Get("worker"))
	assert.Equal(t, record.Float(7.5), records[1].Get("hours"))
	assert.Equal(t, record.Bool(true), records[0].Get("approved"))
	assert.True(t, record.IsNull(records[2].Get("worker")))
	assert.True(t, record.IsNull(records[2].Get("hours")))
	assert.Equal(t, record.Int(8), records[0].Get("hours"))
}

func TestLoadParquetNonFiniteFloats(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "hours", Type: arrow.PrimitiveTypes.Float64},
		{Name: "rate", Type: arrow.PrimitiveTypes.Float32},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{math.NaN(), math.Inf(1)}, nil)
	b.Field(2).(*array.Float32Builder).AppendValues([]float32{float32(math.Inf(-1)), 2}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "nonfinite.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	records, err := Load(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, record.IsNull(records[0].Get("hours")))
	assert.True(t, record.IsNull(records[1].Get("hours")))
	assert.True(t, record.IsNull(records[0].Get("rate")))
	assert.Equal(t, record.Int(2), records[1].Get("rate"))
}
