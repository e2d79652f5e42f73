package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// textHash returns the cache key for text: its xxHash64 as 16 hex digits.
func textHash(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// encodeVector packs v as little-endian float32 values.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

// decodeVector unpacks a blob written by encodeVector. Returns an error if
// the blob length does not match the stored dimension count.
func decodeVector(blob []byte, dims int) ([]float32, error) {
	if len(blob) != 4*dims {
		return nil, fmt.Errorf("vector blob has %d bytes, want %d", len(blob), 4*dims)
	}
	v := make([]float32, dims)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return v, nil
}
