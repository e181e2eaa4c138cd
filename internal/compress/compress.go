// Package compress frames payloads with an optional LZ4 or Zstandard block
// compression.
//
// Frame format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize == 0 marks a payload stored raw because compression did not
// pay off.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a compression algorithm.
type Kind uint8

const (
	// None stores payloads unframed.
	None Kind = 0
	// LZ4 is fast block compression.
	LZ4 Kind = 1
	// Zstd has a better ratio at higher CPU cost.
	Zstd Kind = 2
)

var (
	// ErrUnknown is returned for an unrecognized Kind.
	ErrUnknown = errors.New("compress: unknown kind")
	// ErrCorrupt is returned when a frame cannot be decoded.
	ErrCorrupt = errors.New("compress: corrupt frame")
)

const headerSize = 8

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k <= Zstd
}

// Parse resolves a kind by name.
func Parse(name string) (Kind, error) {
	switch name {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress frames data with the given kind. None returns data unchanged.
func Compress(data []byte, kind Kind) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknown, kind)
	}
	if kind == None {
		return data, nil
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("compress: payload of %d bytes exceeds frame limit", len(data))
	}

	var compressed []byte
	switch kind {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case Zstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	// If compression doesn't help (ratio > 0.9), store raw
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

// Decompress reverses Compress.
func Decompress(data []byte, kind Kind) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknown, kind)
	}
	if kind == None {
		return data, nil
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: frame too small for header", ErrCorrupt)
	}

	uncompressedSize := uint64(binary.LittleEndian.Uint32(data[0:]))
	compressedSize := uint64(binary.LittleEndian.Uint32(data[4:]))
	body := data[headerSize:]

	if compressedSize == 0 {
		if uint64(len(body)) != uncompressedSize {
			return nil, fmt.Errorf("%w: raw size mismatch", ErrCorrupt)
		}
		return body, nil
	}
	if uint64(len(body)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed size mismatch", ErrCorrupt)
	}

	switch kind {
	case LZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(len(out)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	}
}
