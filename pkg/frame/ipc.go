package frame

import (
	"bytes"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/arrowframe/arrowframe/pkg/compress"
	"github.com/arrowframe/arrowframe/pkg/errors"
	"github.com/arrowframe/arrowframe/pkg/logger"
)

// ToIPCBlock encodes the frame as a complete Arrow IPC stream: one
// schema block, one data block with all current columns, and the end
// marker.
func (d *DataFrame) ToIPCBlock() ([]byte, error) {
	return d.ToIPCBlockWithMetadata(nil)
}

// ToIPCBlockWithMetadata encodes the frame as a complete Arrow IPC
// stream with free-form string metadata attached to the schema block
func (d *DataFrame) ToIPCBlockWithMetadata(md map[string]string) ([]byte, error) {
	if err := d.checkTypes(); err != nil {
		return nil, err
	}
	schema := arrow.NewSchema(d.fields, nil)
	if len(md) > 0 {
		m := arrow.MetadataFrom(md)
		schema = arrow.NewSchema(d.fields, &m)
	}

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(memory.DefaultAllocator))

	rec := array.NewRecord(schema, d.data, int64(d.rows))
	err := w.Write(rec)
	rec.Release()
	if err != nil {
		_ = w.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeCodec, "write ipc data block")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeCodec, "finish ipc stream")
	}

	logger.Debug("encoded ipc block",
		zap.Int("bytes", buf.Len()),
		zap.Int("rows", d.rows),
		zap.Int("columns", len(d.data)))
	return buf.Bytes(), nil
}

// FromIPCBlock decodes a complete Arrow IPC stream into a frame plus
// the schema's string metadata. Only the first data block is
// materialized; any further blocks in the stream are ignored. A stream
// with no data block decodes to an empty zero-row, zero-column frame.
func FromIPCBlock(block []byte) (*DataFrame, map[string]string, error) {
	r, err := ipc.NewReader(bytes.NewReader(block), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeCodec, "read ipc stream metadata")
	}
	defer r.Release()

	md := metadataToMap(r.Schema().Metadata())

	if r.Next() {
		d := FromRecord(r.Record())
		logger.Debug("decoded ipc block",
			zap.Int("bytes", len(block)),
			zap.Int("rows", d.rows),
			zap.Int("columns", len(d.data)))
		return d, md, nil
	}
	if err := r.Err(); err != nil && err != io.EOF {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeCodec, "read ipc data block")
	}
	return New(0), md, nil
}

// ToCompressedIPCBlock encodes the frame as an IPC stream and
// compresses the whole block for transport
func (d *DataFrame) ToCompressedIPCBlock(alg compress.Algorithm) ([]byte, error) {
	block, err := d.ToIPCBlock()
	if err != nil {
		return nil, err
	}
	out, err := compress.Compress(alg, block)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeCodec, "compress ipc block")
	}
	return out, nil
}

// FromCompressedIPCBlock decompresses a block produced by
// ToCompressedIPCBlock and decodes it
func FromCompressedIPCBlock(block []byte, alg compress.Algorithm) (*DataFrame, map[string]string, error) {
	raw, err := compress.Decompress(alg, block)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeCodec, "decompress ipc block")
	}
	return FromIPCBlock(raw)
}

func metadataToMap(md arrow.Metadata) map[string]string {
	out := make(map[string]string, md.Len())
	keys, values := md.Keys(), md.Values()
	for i := range keys {
		out[keys[i]] = values[i]
	}
	return out
}
