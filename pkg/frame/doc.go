// Package frame provides a thin columnar table container over Apache
// Arrow arrays with encode/decode to the Arrow IPC stream format.
//
// A DataFrame holds an ordered set of (field, column) pairs sharing one
// fixed row count. It supports column add/insert/pop/rename/retype,
// zero-copy row-range slicing, in-place string-to-numeric coercion, and
// conversion to a ready-to-send IPC byte block:
//
//	d := frame.NewTimeseriesFromFloat([]float64{0, 1.5, 3}, 1, "UTC", arrow.Second)
//	_ = d.AddSeriesAuto("value", valueColumn)
//	block, err := d.ToIPCBlock()
//
// The decoder materializes only the first data block of a stream; a
// frame encodes to exactly one, so encode/decode round-trips. The
// container performs no locking: mutation requires exclusive access.
package frame
