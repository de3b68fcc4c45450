package ws

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Encoder serializes outbound messages, zstd-compressing payloads that cross
// a size threshold. Compression only applies to clients that negotiated the
// compressed subprotocol; a high-resolution dual surface compresses well
// since neighbouring cells differ little.
type Encoder struct {
	zstdEncoder *zstd.Encoder
	minSize     int
}

// NewEncoder creates an Encoder. Payloads shorter than minSize bytes are sent
// uncompressed even on compressed connections.
func NewEncoder(minSize int) (*Encoder, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Encoder{zstdEncoder: enc, minSize: minSize}, nil
}

// Encode marshals v to JSON and optionally compresses it. The compressed
// return reports whether the payload is a zstd frame (binary) rather than
// plain JSON (text).
func (e *Encoder) Encode(v any, allowCompress bool) (payload []byte, compressed bool, err error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("marshal message: %w", err)
	}
	if !allowCompress || len(raw) < e.minSize {
		return raw, false, nil
	}
	return e.zstdEncoder.EncodeAll(raw, nil), true, nil
}
