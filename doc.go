// Package arrowframe provides a thin columnar table container layered
// over Apache Arrow.
//
// The core lives in pkg/frame: a DataFrame of named, typed, nullable
// Arrow columns sharing one fixed row count, with column mutation,
// zero-copy row-range slicing, string-to-numeric coercion, and
// encode/decode to the Arrow IPC streaming format (one schema block,
// one data block, end marker).
//
// Supporting packages:
//
//   - pkg/errors: structured error taxonomy (rows_mismatch,
//     out_of_bounds, not_found, type_mismatch, codec)
//   - pkg/compress: zstd/lz4/snappy block compression for encoded IPC
//     buffers
//   - pkg/bridge: lossy conversion to and from gorilla DataFrames
//   - pkg/logger, pkg/config: zap logging with env-driven defaults
//
// Everything is synchronous and unsynchronized: a DataFrame is not safe
// for concurrent mutation.
package arrowframe
