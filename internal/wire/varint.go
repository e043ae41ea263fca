package wire

import (
	"encoding/binary"
	"math"
	"strings"
)

const (
	fixed64Size = 8
	fixed32Size = 4
)

// DecodeVarint decodes p as an unsigned base-128 varint. Bytes after the
// first one with a clear continuation bit are ignored. Values wider than
// 64 bits wrap.
func DecodeVarint(p []byte) uint64 {
	groups := make([]byte, 0, len(p))
	for _, b := range p {
		groups = append(groups, b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}
	var v uint64
	for i := len(groups) - 1; i >= 0; i-- {
		v = v<<7 + uint64(groups[i])
	}
	return v
}

// DecodeDouble reads a little-endian IEEE-754 double from the first 8 bytes of p.
func DecodeDouble(p []byte) (float64, error) {
	if len(p) < fixed64Size {
		return 0, ErrMalformedFraming
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

// DecodeFloat reads a little-endian IEEE-754 float from the first 4 bytes of p.
func DecodeFloat(p []byte) (float32, error) {
	if len(p) < fixed32Size {
		return 0, ErrMalformedFraming
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p)), nil
}

// splitChunks cuts a length-delimited payload into (length byte, value)
// records. stride is added to each value length to find the next record.
func splitChunks(payload []byte, stride int) ([][]byte, error) {
	out := make([][]byte, 0, 1)
	for i := 0; i < len(payload); {
		n := int(payload[i])
		start := i + 1
		if n > len(payload)-start {
			return nil, ErrMalformedFraming
		}
		val := make([]byte, n)
		copy(val, payload[start:start+n])
		out = append(out, val)
		i += n + stride
	}
	return out, nil
}

func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
