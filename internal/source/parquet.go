package source

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/roach88/shiftgrid/internal/record"
)

// ReadParquet reads a Parquet file through an Arrow table.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker, idField string) ([]record.Record, error) {
	pf, err := file.NewParquetReader(r, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet data: %w", err)
	}
	defer table.Release()

	return FromArrowTable(table, idField)
}

// FromArrowTable converts every row of table to a record.
func FromArrowTable(table arrow.Table, idField string) ([]record.Record, error) {
	schema := table.Schema()
	records := make([]record.Record, 0, table.NumRows())

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	row := 0
	for tr.Next() {
		batch := tr.Record()
		for i := 0; i < int(batch.NumRows()); i++ {
			m := make(map[string]any, batch.NumCols())
			for c, col := range batch.Columns() {
				m[schema.Field(c).Name] = arrowValue(col, i)
			}
			rec, err := record.FromMap(m, idField)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			records = append(records, rec)
			row++
		}
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("read arrow table: %w", err)
	}
	return checked(records)
}

// arrowValue returns the typed value at pos. Types without a direct
// counterpart use Arrow's textual form.
func arrowValue(col arrow.Array, pos int) record.Value {
	if col.IsNull(pos) {
		return record.Null{}
	}

	switch c := col.(type) {
	case *array.String:
		return record.String(c.Value(pos))
	case *array.LargeString:
		return record.String(c.Value(pos))
	case *array.Binary:
		return record.String(string(c.Value(pos)))
	case *array.Boolean:
		return record.Bool(c.Value(pos))
	case *array.Int8:
		return record.Int(c.Value(pos))
	case *array.Int16:
		return record.Int(c.Value(pos))
	case *array.Int32:
		return record.Int(c.Value(pos))
	case *array.Int64:
		return record.Int(c.Value(pos))
	case *array.Uint8:
		return record.Int(c.Value(pos))
	case *array.Uint16:
		return record.Int(c.Value(pos))
	case *array.Uint32:
		return record.Int(c.Value(pos))
	case *array.Uint64:
		v, _ := record.FromAny(c.Value(pos))
		return v
	case *array.Float32:
		return record.FromFloat(float64(c.Value(pos)))
	case *array.Float64:
		return record.FromFloat(c.Value(pos))
	case *array.Date32:
		return record.String(c.Value(pos).ToTime().Format("2006-01-02"))
	case *array.Date64:
		return record.String(c.Value(pos).ToTime().Format("2006-01-02"))
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		v, _ := record.FromAny(c.Value(pos).ToTime(unit))
		return v
	default:
		return record.String(col.ValueStr(pos))
	}
}
