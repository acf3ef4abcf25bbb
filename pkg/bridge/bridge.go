// Package bridge provides lossy two-way conversion between frame
// DataFrames and gorilla DataFrames.
//
// gorilla (github.com/paveg/gorilla) is a full dataframe library built
// on the same Arrow runtime, so the import direction hands arrays over
// without copying. The export direction uses a copying reconstruction:
// gorilla's constructors take plain value slices, so each column is
// extracted per its declared type tag and nulls degrade to zero values.
package bridge

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/gorilla"
	"go.uber.org/zap"

	"github.com/arrowframe/arrowframe/pkg/errors"
	"github.com/arrowframe/arrowframe/pkg/frame"
	"github.com/arrowframe/arrowframe/pkg/logger"
)

// ToGorilla converts a frame into a gorilla DataFrame. Each column's
// declared field type drives the extraction; a column whose runtime
// type disagrees with its declared type is a type-mismatch error.
// Nulls are lost (gorilla series are built from plain value slices).
// Release the result when done.
func ToGorilla(d *frame.DataFrame, mem memory.Allocator) (*gorilla.DataFrame, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := d.Fields()
	data := d.Data()
	series := make([]gorilla.ISeries, 0, len(data))
	for i, col := range data {
		s, err := seriesFromColumn(fields[i].Name, fields[i].Type, col, mem)
		if err != nil {
			for _, built := range series {
				built.Release()
			}
			return nil, err
		}
		series = append(series, s)
	}
	return gorilla.NewDataFrame(series...), nil
}

// FromGorilla converts a gorilla DataFrame into a frame, handing each
// column's Arrow array over directly. The gorilla frame stays usable
// and must still be released by the caller.
func FromGorilla(g *gorilla.DataFrame) (*frame.DataFrame, error) {
	names := g.Columns()
	d := frame.NewWithCapacity(g.Len(), len(names))
	for _, name := range names {
		s, ok := g.Column(name)
		if !ok {
			d.Release()
			return nil, errors.Newf(errors.ErrorTypeNotFound,
				"column not found: %s", name).WithDetail("name", name)
		}
		col := s.Array()
		col.Retain()
		if err := d.AddSeriesAuto(name, col); err != nil {
			col.Release()
			d.Release()
			return nil, err
		}
	}
	return d, nil
}

// seriesFromColumn extracts one column into a gorilla series per the
// declared type tag, widening types gorilla has no series for (int16,
// timestamps) and narrowing large strings.
func seriesFromColumn(name string, dtype arrow.DataType, col arrow.Array, mem memory.Allocator) (gorilla.ISeries, error) {
	nulls := col.NullN()
	if nulls > 0 {
		logger.Debug("nulls degrade to zero values in gorilla series",
			zap.String("name", name),
			zap.Int("nulls", nulls))
	}

	switch dtype.ID() {
	case arrow.BOOL:
		c, ok := col.(*array.Boolean)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]bool, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.INT64:
		c, ok := col.(*array.Int64)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]int64, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.INT32:
		c, ok := col.(*array.Int32)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]int32, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.INT16:
		c, ok := col.(*array.Int16)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]int64, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = int64(c.Value(i))
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.TIMESTAMP:
		c, ok := col.(*array.Timestamp)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]int64, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = int64(c.Value(i))
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.FLOAT64:
		c, ok := col.(*array.Float64)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]float64, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.FLOAT32:
		c, ok := col.(*array.Float32)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]float32, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.STRING:
		c, ok := col.(*array.String)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]string, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	case arrow.LARGE_STRING:
		c, ok := col.(*array.LargeString)
		if !ok {
			return nil, mismatch(name, dtype, col)
		}
		values := make([]string, c.Len())
		for i := range values {
			if !c.IsNull(i) {
				values[i] = c.Value(i)
			}
		}
		return gorilla.NewSeries(name, values, mem), nil

	default:
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
			"no gorilla series type for %s column %q", dtype, name)
	}
}

func mismatch(name string, dtype arrow.DataType, col arrow.Array) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch,
		"column %q declared as %s but holds %s", name, dtype, col.DataType())
}
