// Package compress provides block compression for encoded IPC buffers.
//
// It supports the algorithms commonly used for shipping columnar blocks
// over the wire: zstd for the best ratio, lz4 and snappy for speed, and
// a pass-through mode.
package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/arrowframe/arrowframe/pkg/errors"
)

// Algorithm represents a compression algorithm
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Snappy represents snappy block compression
	Snappy Algorithm = "snappy"
)

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil)
		zstdDecoder, _ = zstd.NewReader(nil)
	})
}

// Compress compresses data with the given algorithm
func Compress(alg Algorithm, data []byte) ([]byte, error) {
	switch alg {
	case None:
		return data, nil
	case Zstd:
		zstdInit()
		return zstdEncoder.EncodeAll(data, nil), nil
	case Snappy:
		return snappy.Encode(nil, data), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "lz4 compress")
		}
		if err := w.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "lz4 compress")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown compression algorithm: %s", alg)
	}
}

// Decompress decompresses data with the given algorithm
func Decompress(alg Algorithm, data []byte) ([]byte, error) {
	switch alg {
	case None:
		return data, nil
	case Zstd:
		zstdInit()
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "zstd decompress")
		}
		return out, nil
	case Snappy:
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "snappy decompress")
		}
		return out, nil
	case LZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "lz4 decompress")
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown compression algorithm: %s", alg)
	}
}
