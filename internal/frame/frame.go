// Package frame reads gRPC length-prefixed message frames, the usual
// envelope around protobuf payloads in HTTP/2 captures.
package frame

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	HeaderLen      = 5
	FlagCompressed = 0x01
)

var (
	ErrShortHeader     = errors.New("frame: short header")
	ErrShortPayload    = errors.New("frame: short payload")
	ErrInvalidFlag     = errors.New("frame: invalid compression flag")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Frame is one length-prefixed message.
type Frame struct {
	Compressed bool
	Payload    []byte
}

// Limits constrains frame decode memory use.
type Limits struct {
	MaxPayloadBytes uint32
	MaxMessageBytes int64
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 4 * 1024 * 1024,
		MaxMessageBytes: 16 * 1024 * 1024,
	}
}

// Framing selects how a capture is split into messages.
type Framing string

const (
	FramingNone Framing = "none"
	FramingGRPC Framing = "grpc"
)

func ParseFraming(raw string) (Framing, error) {
	switch f := Framing(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FramingNone:
		return FramingNone, nil
	case FramingGRPC:
		return FramingGRPC, nil
	default:
		return "", fmt.Errorf("frame: unknown framing %q", raw)
	}
}

// ReadFrame reads one frame. It returns io.EOF when r is exhausted on a
// frame boundary.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var hdr [HeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	if hdr[0] > FlagCompressed {
		return Frame{}, ErrInvalidFlag
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	if n > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Frame{}, ErrShortPayload
			}
			return Frame{}, err
		}
	}
	return Frame{Compressed: hdr[0] == FlagCompressed, Payload: payload}, nil
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	if uint64(len(f.Payload)) > uint64(limits.MaxPayloadBytes) {
		return ErrPayloadTooLarge
	}
	if _, err := w.Write(EncodeHeader(f.Compressed, uint32(len(f.Payload)))); err != nil {
		return err
	}
	if len(f.Payload) == 0 {
		return nil
	}
	_, err := w.Write(f.Payload)
	return err
}

func EncodeHeader(compressed bool, n uint32) []byte {
	buf := make([]byte, HeaderLen)
	if compressed {
		buf[0] = FlagCompressed
	}
	binary.BigEndian.PutUint32(buf[1:], n)
	return buf
}

// Message returns the frame payload, gunzipped when the frame is compressed.
func (f Frame) Message(limits Limits) ([]byte, error) {
	if !f.Compressed {
		return f.Payload, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(f.Payload))
	if err != nil {
		return nil, fmt.Errorf("frame: gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, limits.MaxMessageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("frame: gzip: %w", err)
	}
	if int64(len(out)) > limits.MaxMessageBytes {
		return nil, ErrPayloadTooLarge
	}
	return out, nil
}

// Split cuts data into message payloads according to framing.
func Split(data []byte, framing Framing, limits Limits) ([][]byte, error) {
	if framing != FramingGRPC {
		return [][]byte{data}, nil
	}
	r := bytes.NewReader(data)
	var out [][]byte
	for i := 0; ; i++ {
		f, err := ReadFrame(r, limits)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		msg, err := f.Message(limits)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		out = append(out, msg)
	}
}
