package frame

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/arrowframe/arrowframe/pkg/errors"
	"github.com/arrowframe/arrowframe/pkg/logger"
)

// ParseInt parses the values of the first string column matching name
// into a nullable int64 column. Values that fail to parse become nulls;
// the field's type tag is updated to int64.
func (d *DataFrame) ParseInt(name string) error {
	pos, ok := d.ColumnIndex(name)
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"column not found: %s", name).WithDetail("name", name)
	}
	return d.ParseIntAt(pos)
}

// ParseFloat parses the values of the first string column matching name
// into a nullable float64 column. Values that fail to parse become
// nulls; the field's type tag is updated to float64.
func (d *DataFrame) ParseFloat(name string) error {
	pos, ok := d.ColumnIndex(name)
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"column not found: %s", name).WithDetail("name", name)
	}
	return d.ParseFloatAt(pos)
}

// ParseIntAt is the index-addressed form of ParseInt
func (d *DataFrame) ParseIntAt(index int) error {
	return d.convertAt(index, arrow.PrimitiveTypes.Int64, func(b array.Builder, s string) bool {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return false
		}
		b.(*array.Int64Builder).Append(v)
		return true
	})
}

// ParseFloatAt is the index-addressed form of ParseFloat
func (d *DataFrame) ParseFloatAt(index int) error {
	return d.convertAt(index, arrow.PrimitiveTypes.Float64, func(b array.Builder, s string) bool {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		b.(*array.Float64Builder).Append(v)
		return true
	})
}

// convertAt runs the shared downcast→parse→replace sequence: the column
// at index must be a string column (default or large offsets); each
// element is parsed with put, nulls and unparsable values becoming
// nulls in the target column. The column is replaced in place and the
// field's type tag set to dtype.
func (d *DataFrame) convertAt(index int, dtype arrow.DataType, put func(array.Builder, string) bool) error {
	if index >= len(d.data) || index < 0 {
		return errors.New(errors.ErrorTypeOutOfBounds, "column index out of bounds")
	}

	var value func(int) string
	switch col := d.data[index].(type) {
	case *array.String:
		value = col.Value
	case *array.LargeString:
		value = col.Value
	default:
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"cannot parse %s column as string", d.data[index].DataType())
	}

	col := d.data[index]
	b := array.NewBuilder(memory.DefaultAllocator, dtype)
	defer b.Release()
	b.Reserve(col.Len())

	nulls := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) || !put(b, value(i)) {
			b.AppendNull()
			nulls++
		}
	}

	d.data[index] = b.NewArray()
	d.fields[index].Type = dtype
	col.Release()

	logger.Debug("parsed string column",
		zap.String("name", d.fields[index].Name),
		zap.String("type", dtype.String()),
		zap.Int("rows", d.rows),
		zap.Int("nulls", nulls))
	return nil
}
