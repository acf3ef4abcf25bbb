package frame

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowframe/arrowframe/pkg/errors"
)

func int64Col(t *testing.T, values []int64, valid []bool) arrow.Array {
	t.Helper()
	b := array.NewInt64Builder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewInt64Array()
}

func float64Col(t *testing.T, values []float64, valid []bool) arrow.Array {
	t.Helper()
	b := array.NewFloat64Builder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewFloat64Array()
}

func stringCol(t *testing.T, values []string, valid []bool) arrow.Array {
	t.Helper()
	b := array.NewStringBuilder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewStringArray()
}

func boolCol(t *testing.T, values []bool) arrow.Array {
	t.Helper()
	b := array.NewBooleanBuilder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewBooleanArray()
}

func testFrame(t *testing.T) *DataFrame {
	t.Helper()
	d := New(3)
	require.NoError(t, d.AddSeriesAuto("a", int64Col(t, []int64{1, 2, 3}, nil)))
	require.NoError(t, d.AddSeriesAuto("b", float64Col(t, []float64{1.5, 2.5, 3.5}, nil)))
	require.NoError(t, d.AddSeriesAuto("c", stringCol(t, []string{"x", "y", "z"}, nil)))
	return d
}

func TestNew(t *testing.T) {
	d := New(5)
	assert.Equal(t, 5, d.Rows())
	assert.True(t, d.IsEmpty())
	assert.Empty(t, d.Names())
}

func TestAddSeries(t *testing.T) {
	d := New(3)

	err := d.AddSeriesAuto("a", int64Col(t, []int64{1, 2, 3}, nil))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Rows())
	assert.False(t, d.IsEmpty())

	// length disagreement leaves the frame unchanged
	err = d.AddSeriesAuto("short", int64Col(t, []int64{1}, nil))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRowsMismatch))
	assert.Equal(t, []string{"a"}, d.Names())

	// duplicate names are not rejected
	err = d.AddSeriesAuto("a", int64Col(t, []int64{4, 5, 6}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, d.Names())
}

func TestAddSeriesExplicitType(t *testing.T) {
	d := New(2)
	dt := &arrow.TimestampType{Unit: arrow.Second, TimeZone: "UTC"}
	require.NoError(t, d.AddSeries("ts", int64Col(t, []int64{10, 20}, nil), dt))

	// the declared tag wins over the runtime type
	assert.Equal(t, dt, d.Fields()[0].Type)
	assert.Equal(t, arrow.INT64, d.Data()[0].DataType().ID())
	assert.True(t, d.Fields()[0].Nullable)
}

func TestInsertSeries(t *testing.T) {
	d := testFrame(t)

	require.NoError(t, d.InsertSeriesAuto("first", int64Col(t, []int64{7, 8, 9}, nil), 0))
	assert.Equal(t, []string{"first", "a", "b", "c"}, d.Names())

	require.NoError(t, d.InsertSeriesAuto("mid", int64Col(t, []int64{7, 8, 9}, nil), 2))
	assert.Equal(t, []string{"first", "a", "mid", "b", "c"}, d.Names())

	err := d.InsertSeriesAuto("oob", int64Col(t, []int64{7, 8, 9}, nil), 6)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))

	err = d.InsertSeriesAuto("short", int64Col(t, []int64{7}, nil), 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRowsMismatch))
	assert.Equal(t, []string{"first", "a", "mid", "b", "c"}, d.Names())
}

func TestFromParts(t *testing.T) {
	fields := []arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true},
	}
	data := []arrow.Array{
		int64Col(t, []int64{1, 2}, nil),
		stringCol(t, []string{"x", "y"}, nil),
	}

	d, err := FromParts(fields, data)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Rows())

	// parts come back unchanged
	outFields, outData := d.Parts()
	assert.Equal(t, fields, outFields)
	assert.Equal(t, data, outData)
}

func TestFromPartsRowsMismatch(t *testing.T) {
	fields := []arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "b", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}
	data := []arrow.Array{
		int64Col(t, []int64{1, 2}, nil),
		int64Col(t, []int64{1, 2, 3}, nil),
	}

	_, err := FromParts(fields, data)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRowsMismatch))
}

func TestFromPartsLengthMismatch(t *testing.T) {
	fields := []arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}
	_, err := FromParts(fields, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFromPartsEmpty(t *testing.T) {
	d, err := FromParts(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Rows())
	assert.True(t, d.IsEmpty())
}

func TestPopSeries(t *testing.T) {
	d := testFrame(t)

	col, dtype, err := d.PopSeries("b")
	require.NoError(t, err)
	assert.Equal(t, arrow.FLOAT64, dtype.ID())
	assert.Equal(t, 3, col.Len())
	assert.Equal(t, []string{"a", "c"}, d.Names())

	_, _, err = d.PopSeries("missing")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	name, ok := e.Detail("name")
	require.True(t, ok)
	assert.Equal(t, "missing", name)
	assert.Equal(t, []string{"a", "c"}, d.Names())
}

func TestPopSeriesAt(t *testing.T) {
	d := testFrame(t)

	col, name, dtype, err := d.PopSeriesAt(0)
	require.NoError(t, err)
	assert.Equal(t, "a", name)
	assert.Equal(t, arrow.INT64, dtype.ID())
	assert.Equal(t, 3, col.Len())
	assert.Equal(t, []string{"b", "c"}, d.Names())

	_, _, _, err = d.PopSeriesAt(2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))
}

func TestRename(t *testing.T) {
	d := testFrame(t)

	require.NoError(t, d.Rename("b", "renamed"))
	assert.Equal(t, []string{"a", "renamed", "c"}, d.Names())

	err := d.Rename("missing", "whatever")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	require.NoError(t, d.SetNameAt(0, "zero"))
	assert.Equal(t, "zero", d.Names()[0])

	err = d.SetNameAt(5, "oob")
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))
}

func TestSetDataType(t *testing.T) {
	d := testFrame(t)
	dt := &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}

	// metadata-only override: the column itself is untouched
	require.NoError(t, d.SetDataType("a", dt))
	assert.Equal(t, dt, d.Fields()[0].Type)
	assert.Equal(t, arrow.INT64, d.Data()[0].DataType().ID())

	require.NoError(t, d.SetDataTypeAt(1, arrow.PrimitiveTypes.Float32))
	assert.Equal(t, arrow.FLOAT32, d.Fields()[1].Type.ID())

	err := d.SetDataType("missing", dt)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	err = d.SetDataTypeAt(9, dt)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))
}

func TestColumnIndexFirstMatch(t *testing.T) {
	d := New(1)
	require.NoError(t, d.AddSeriesAuto("dup", int64Col(t, []int64{1}, nil)))
	require.NoError(t, d.AddSeriesAuto("dup", stringCol(t, []string{"x"}, nil)))

	pos, ok := d.ColumnIndex("dup")
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = d.ColumnIndex("missing")
	assert.False(t, ok)
}

func TestSlice(t *testing.T) {
	d := testFrame(t)

	s, err := d.Slice(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
	assert.Equal(t, int64(2), s.Data()[0].(*array.Int64).Value(0))
	assert.Equal(t, "z", s.Data()[2].(*array.String).Value(1))

	// field descriptors are cloned, not shared
	require.NoError(t, s.Rename("a", "sliced"))
	assert.Equal(t, "a", d.Names()[0])

	_, err = d.Slice(2, 2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))
}

func TestSliceSeries(t *testing.T) {
	d := testFrame(t)

	cols, err := d.SliceSeries(0, 3)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	for _, col := range cols {
		assert.Equal(t, 3, col.Len())
	}

	_, err = d.SliceSeries(1, 3)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfBounds))
}

func TestSliceRecord(t *testing.T) {
	d := testFrame(t)

	rec, err := d.SliceRecord(0, 2)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, int64(3), rec.NumCols())
}

func TestSetOrdering(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{name: "swap pair", order: []string{"b", "a"}, want: []string{"b", "a", "c"}},
		{name: "full permutation", order: []string{"c", "a", "b"}, want: []string{"c", "a", "b"}},
		{name: "identity", order: []string{"a", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "single name", order: []string{"c"}, want: []string{"c", "b", "a"}},
		{name: "missing names skipped", order: []string{"zz", "c"}, want: []string{"a", "c", "b"}},
		// swap-based reorder: the second "b" swaps it right back
		{name: "duplicate names", order: []string{"b", "b"}, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testFrame(t)
			d.SetOrdering(tt.order)
			assert.Equal(t, tt.want, d.Names())
			// columns follow their fields
			for i, f := range d.Fields() {
				assert.Equal(t, f.Type.ID(), d.Data()[i].DataType().ID())
			}
		})
	}
}

func TestSortColumns(t *testing.T) {
	d := New(1)
	require.NoError(t, d.AddSeriesAuto("zeta", int64Col(t, []int64{1}, nil)))
	require.NoError(t, d.AddSeriesAuto("alpha", int64Col(t, []int64{2}, nil)))
	require.NoError(t, d.AddSeriesAuto("mid", int64Col(t, []int64{3}, nil)))

	d.SortColumns()
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, d.Names())
	assert.Equal(t, int64(2), d.Data()[0].(*array.Int64).Value(0))
}

func TestSize(t *testing.T) {
	b16 := array.NewInt16Builder(memory.NewGoAllocator())
	defer b16.Release()
	b16.AppendValues([]int16{1, 2, 3, 4}, nil)
	b32 := array.NewInt32Builder(memory.NewGoAllocator())
	defer b32.Release()
	b32.AppendValues([]int32{1, 2, 3, 4}, nil)

	d := New(4)
	require.NoError(t, d.AddSeriesAuto("flags", boolCol(t, []bool{true, false, true, false})))
	require.NoError(t, d.AddSeriesAuto("small", b16.NewInt16Array()))
	require.NoError(t, d.AddSeriesAuto("medium", b32.NewInt32Array()))
	require.NoError(t, d.AddSeriesAuto("large", int64Col(t, []int64{1, 2, 3, 4}, nil)))

	// 4*1 + 4*2 + 4*4 + 4*8
	assert.Equal(t, 4+8+16+32, d.Size())
}

func TestClone(t *testing.T) {
	d := testFrame(t)
	c := d.Clone()

	require.NoError(t, c.Rename("a", "cloned"))
	assert.Equal(t, "a", d.Names()[0])
	assert.Equal(t, "cloned", c.Names()[0])
	assert.Equal(t, d.Rows(), c.Rows())

	c.Release()
	// the original still owns its columns
	assert.Equal(t, int64(1), d.Data()[0].(*array.Int64).Value(0))
}

func TestRecord(t *testing.T) {
	d := testFrame(t)
	rec, err := d.Record()
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(3), rec.NumCols())
	assert.Equal(t, "a", rec.Schema().Field(0).Name)
}

func TestRecordAfterRetype(t *testing.T) {
	d := testFrame(t)
	require.NoError(t, d.SetDataType("a", &arrow.TimestampType{Unit: arrow.Second, TimeZone: "UTC"}))

	// a relabeled frame cannot be packaged as a record batch
	_, err := d.Record()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	_, err = d.SliceRecord(0, 2)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	// relabeling back restores the encode paths
	require.NoError(t, d.SetDataType("a", arrow.PrimitiveTypes.Int64))
	rec, err := d.Record()
	require.NoError(t, err)
	rec.Release()
}

func TestFromRecord(t *testing.T) {
	d := testFrame(t)
	rec, err := d.Record()
	require.NoError(t, err)
	defer rec.Release()

	out := FromRecord(rec)
	assert.Equal(t, d.Names(), out.Names())
	assert.Equal(t, d.Rows(), out.Rows())
}

func TestSchemaJSON(t *testing.T) {
	d := testFrame(t)
	out, err := d.SchemaJSON()
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.Contains(s, `"name":"a"`))
	assert.True(t, strings.Contains(s, `"nullable":true`))
}
