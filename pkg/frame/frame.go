package frame

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arrowframe/arrowframe/pkg/errors"
)

// DataFrame is a fixed-row-count collection of named, typed Arrow
// columns. Field descriptors and columns are kept in lockstep: they
// always have the same length and order, and every column has exactly
// Rows() elements.
//
// Field names are not required to be unique; every name-addressed
// operation resolves to the first matching field. The DataFrame
// performs no internal locking; mutation requires exclusive access.
type DataFrame struct {
	fields []arrow.Field
	data   []arrow.Array
	rows   int
}

// New creates a new data frame with a fixed number of rows and no columns
func New(rows int) *DataFrame {
	return NewWithCapacity(rows, 0)
}

// NewWithCapacity creates a new data frame with a fixed number of rows
// and pre-allocated column capacity
func NewWithCapacity(rows, cols int) *DataFrame {
	return &DataFrame{
		fields: make([]arrow.Field, 0, cols),
		data:   make([]arrow.Array, 0, cols),
		rows:   rows,
	}
}

// FromParts creates a data frame from a slice of fields and a parallel
// slice of columns. The row count is taken from the first column (0 if
// there are none); any later column with a different length is a
// rows-mismatch error.
func FromParts(fields []arrow.Field, data []arrow.Array) (*DataFrame, error) {
	if len(fields) != len(data) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"fields and columns length mismatch: %d != %d", len(fields), len(data))
	}
	rows := 0
	if len(data) > 0 {
		rows = data[0].Len()
		for _, d := range data[1:] {
			if d.Len() != rows {
				return nil, errors.New(errors.ErrorTypeRowsMismatch, "rows do not match")
			}
		}
	}
	return &DataFrame{fields: fields, data: data, rows: rows}, nil
}

// FromRecord creates a data frame from one Arrow record batch. The
// record's columns are retained; the caller keeps its own reference.
func FromRecord(rec arrow.Record) *DataFrame {
	schemaFields := rec.Schema().Fields()
	fields := make([]arrow.Field, len(schemaFields))
	copy(fields, schemaFields)

	data := make([]arrow.Array, rec.NumCols())
	for i, col := range rec.Columns() {
		col.Retain()
		data[i] = col
	}
	rows := 0
	if len(data) > 0 {
		rows = data[0].Len()
	}
	return &DataFrame{fields: fields, data: data, rows: rows}
}

// Parts splits the data frame into its fields and columns. The returned
// slices are the frame's own storage; the frame must not be used
// afterwards.
func (d *DataFrame) Parts() ([]arrow.Field, []arrow.Array) {
	return d.fields, d.data
}

// Clone returns a copy of the frame sharing the underlying column
// storage. Columns are retained; release the clone when done.
func (d *DataFrame) Clone() *DataFrame {
	fields := make([]arrow.Field, len(d.fields))
	copy(fields, d.fields)
	data := make([]arrow.Array, len(d.data))
	for i, col := range d.data {
		col.Retain()
		data[i] = col
	}
	return &DataFrame{fields: fields, data: data, rows: d.rows}
}

// Release releases all held columns and empties the frame
func (d *DataFrame) Release() {
	for _, col := range d.data {
		col.Release()
	}
	d.fields = nil
	d.data = nil
}

// IsEmpty reports whether the frame has no columns
func (d *DataFrame) IsEmpty() bool {
	return len(d.data) == 0
}

// Rows returns the row count
func (d *DataFrame) Rows() int {
	return d.rows
}

// Names returns the field names in column order
func (d *DataFrame) Names() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a read-only view of the field descriptors
func (d *DataFrame) Fields() []arrow.Field {
	return d.fields
}

// Data returns a read-only view of the columns
func (d *DataFrame) Data() []arrow.Array {
	return d.data
}

// Schema projects the field descriptors into a standalone schema
func (d *DataFrame) Schema() *arrow.Schema {
	return arrow.NewSchema(d.fields, nil)
}

// ColumnIndex returns the position of the first field with the given
// name
func (d *DataFrame) ColumnIndex(name string) (int, bool) {
	for i, f := range d.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// AddSeries appends a column with an explicit field type tag. The only
// validation is the row count; duplicate names are allowed.
func (d *DataFrame) AddSeries(name string, col arrow.Array, dtype arrow.DataType) error {
	if col.Len() != d.rows {
		return errors.New(errors.ErrorTypeRowsMismatch, "rows do not match")
	}
	d.fields = append(d.fields, arrow.Field{Name: name, Type: dtype, Nullable: true})
	d.data = append(d.data, col)
	return nil
}

// AddSeriesAuto appends a column using the column's own data type as
// the field type tag
func (d *DataFrame) AddSeriesAuto(name string, col arrow.Array) error {
	return d.AddSeries(name, col, col.DataType())
}

// InsertSeries inserts a column at the given position, shifting later
// columns right
func (d *DataFrame) InsertSeries(name string, col arrow.Array, index int, dtype arrow.DataType) error {
	if index > len(d.data) || index < 0 {
		return errors.New(errors.ErrorTypeOutOfBounds, "insert index out of bounds")
	}
	if col.Len() != d.rows {
		return errors.New(errors.ErrorTypeRowsMismatch, "rows do not match")
	}
	d.fields = append(d.fields, arrow.Field{})
	copy(d.fields[index+1:], d.fields[index:])
	d.fields[index] = arrow.Field{Name: name, Type: dtype, Nullable: true}

	d.data = append(d.data, nil)
	copy(d.data[index+1:], d.data[index:])
	d.data[index] = col
	return nil
}

// InsertSeriesAuto inserts a column using its own data type as the
// field type tag
func (d *DataFrame) InsertSeriesAuto(name string, col arrow.Array, index int) error {
	return d.InsertSeries(name, col, index, col.DataType())
}

// PopSeries removes and returns the first column matching name, along
// with its declared type tag
func (d *DataFrame) PopSeries(name string) (arrow.Array, arrow.DataType, error) {
	pos, ok := d.ColumnIndex(name)
	if !ok {
		return nil, nil, errors.Newf(errors.ErrorTypeNotFound,
			"column not found: %s", name).WithDetail("name", name)
	}
	col, _, dtype, err := d.PopSeriesAt(pos)
	return col, dtype, err
}

// PopSeriesAt removes and returns the column at index, along with its
// name and declared type tag
func (d *DataFrame) PopSeriesAt(index int) (arrow.Array, string, arrow.DataType, error) {
	if index >= len(d.fields) || index < 0 {
		return nil, "", nil, errors.New(errors.ErrorTypeOutOfBounds, "pop index out of bounds")
	}
	field := d.fields[index]
	col := d.data[index]
	d.fields = append(d.fields[:index], d.fields[index+1:]...)
	d.data = append(d.data[:index], d.data[index+1:]...)
	return col, field.Name, field.Type, nil
}

// Rename renames the first field matching name
func (d *DataFrame) Rename(name, newName string) error {
	pos, ok := d.ColumnIndex(name)
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"column not found: %s", name).WithDetail("name", name)
	}
	d.fields[pos].Name = newName
	return nil
}

// SetNameAt sets the field name at index
func (d *DataFrame) SetNameAt(index int, newName string) error {
	if index >= len(d.fields) || index < 0 {
		return errors.New(errors.ErrorTypeOutOfBounds, "field index out of bounds")
	}
	d.fields[index].Name = newName
	return nil
}

// SetDataType overrides the declared type tag of the first field
// matching name. The underlying column is not touched or validated, so
// the declared type can diverge from the column's actual runtime type.
// This is a deliberate relabel-without-reinterpretation escape hatch;
// while the types diverge, Record, SliceRecord and the IPC encoders
// return a type-mismatch error, since a record batch cannot carry a
// column under a tag its buffers do not match.
func (d *DataFrame) SetDataType(name string, dtype arrow.DataType) error {
	pos, ok := d.ColumnIndex(name)
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"column not found: %s", name).WithDetail("name", name)
	}
	d.fields[pos].Type = dtype
	return nil
}

// SetDataTypeAt overrides the declared type tag of the field at index.
// See SetDataType for the (lack of) validation semantics.
func (d *DataFrame) SetDataTypeAt(index int, dtype arrow.DataType) error {
	if index >= len(d.fields) || index < 0 {
		return errors.New(errors.ErrorTypeOutOfBounds, "field index out of bounds")
	}
	d.fields[index].Type = dtype
	return nil
}

// SliceSeries returns every column sub-ranged to [offset, offset+length).
// Slicing is zero-copy: the returned arrays share the frame's buffers.
func (d *DataFrame) SliceSeries(offset, length int) ([]arrow.Array, error) {
	if offset < 0 || length < 0 || offset+length > d.rows {
		return nil, errors.New(errors.ErrorTypeOutOfBounds, "slice out of bounds")
	}
	out := make([]arrow.Array, len(d.data))
	for i, col := range d.data {
		out[i] = array.NewSlice(col, int64(offset), int64(offset+length))
	}
	return out, nil
}

// Slice returns a new frame over the row range [offset, offset+length)
// with cloned field descriptors and zero-copy column views
func (d *DataFrame) Slice(offset, length int) (*DataFrame, error) {
	data, err := d.SliceSeries(offset, length)
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(d.fields))
	copy(fields, d.fields)
	return &DataFrame{fields: fields, data: data, rows: length}, nil
}

// SliceRecord packages the sliced columns as a single record batch
// aligned to the current schema
func (d *DataFrame) SliceRecord(offset, length int) (arrow.Record, error) {
	if err := d.checkTypes(); err != nil {
		return nil, err
	}
	data, err := d.SliceSeries(offset, length)
	if err != nil {
		return nil, err
	}
	rec := array.NewRecord(d.Schema(), data, int64(length))
	for _, col := range data {
		col.Release()
	}
	return rec, nil
}

// Record packages the current columns as a single record batch. It
// fails with a type-mismatch error if any field's declared type has
// been relabeled away from its column's runtime type.
func (d *DataFrame) Record() (arrow.Record, error) {
	if err := d.checkTypes(); err != nil {
		return nil, err
	}
	return array.NewRecord(d.Schema(), d.data, int64(d.rows)), nil
}

// checkTypes verifies that every column's runtime type still matches
// its declared field type. Record construction panics on divergence
// deep inside the Arrow runtime, so the record-building paths turn it
// into a recoverable error here first.
func (d *DataFrame) checkTypes() error {
	for i, f := range d.fields {
		if !arrow.TypeEqual(f.Type, d.data[i].DataType()) {
			return errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %q declared as %s but holds %s",
				f.Name, f.Type, d.data[i].DataType()).WithDetail("name", f.Name)
		}
	}
	return nil
}

// SetOrdering reorders columns by swapping each named column into the
// position its name holds in names. Names with no matching field are
// skipped. Because this is a sequence of positional swaps, a partial or
// duplicate-bearing list is order-dependent and is not guaranteed to
// produce a full permutation.
func (d *DataFrame) SetOrdering(names []string) {
	for i, name := range names {
		if i >= len(d.fields) {
			break
		}
		if pos, ok := d.ColumnIndex(name); ok && pos != i {
			d.fields[i], d.fields[pos] = d.fields[pos], d.fields[i]
			d.data[i], d.data[pos] = d.data[pos], d.data[i]
		}
	}
}

// SortColumns reorders columns so field names are in lexicographic
// order
func (d *DataFrame) SortColumns() {
	names := d.Names()
	sort.Strings(names)
	d.SetOrdering(names)
}

// Size estimates the in-memory byte size of the frame using a fixed
// per-element width per type tag. The estimate is inaccurate for
// variable-width (string) columns.
func (d *DataFrame) Size() int {
	size := 0
	for _, col := range d.data {
		m := 8
		switch col.DataType().ID() {
		case arrow.BOOL:
			m = 1
		case arrow.INT16:
			m = 2
		case arrow.INT32, arrow.FLOAT32:
			m = 4
		}
		size += col.Len() * m
	}
	return size
}
