package wire

import (
	"errors"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds nested-message speculation when Decoder.MaxDepth is zero.
const DefaultMaxDepth = 64

// Observer receives decode events. Implementations must be safe for
// concurrent use when a Decoder is shared.
type Observer interface {
	FieldDecoded(t Type, depth int)
	Speculated(nested bool, depth int)
}

// Decoder interprets framed records and speculatively decodes
// length-delimited values as embedded messages.
//
// The zero value is ready to use. A Decoder holds no per-call state.
type Decoder struct {
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// ExactStride advances past a length-delimited sub-value by its length
	// plus the length byte. When false one extra byte is skipped between
	// sub-values, matching captures produced by older tooling.
	ExactStride bool
	Observer    Observer
	Logger      zerolog.Logger
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

func (d *Decoder) stride() int {
	if d.ExactStride {
		return 1
	}
	return 2
}

// Decode frames data and interprets every record. Errors from the top-level
// records propagate; failed nested guesses do not.
func (d *Decoder) Decode(data []byte) (*Message, error) {
	s := NewScanner()
	if _, err := s.Write(data); err != nil {
		return nil, err
	}
	fields, err := d.interpretAll(s.Fields(), 0)
	if err != nil {
		return nil, err
	}
	if n := s.Pending(); n > 0 {
		d.Logger.Debug().Int("bytes", n).Int("offset", len(data)-n).Msg("trailing record incomplete")
	}
	return &Message{Fields: fields, Incomplete: s.Pending()}, nil
}

// Interpret decodes one top-level record.
func (d *Decoder) Interpret(raw RawField) (Value, error) {
	return d.interpret(raw, 0)
}

func (d *Decoder) interpretAll(raws []RawField, depth int) ([]Field, error) {
	fields := make([]Field, 0, len(raws))
	for _, raw := range raws {
		v, err := d.interpret(raw, depth)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Number: raw.Number, Type: raw.Type, Offset: raw.Offset, Value: v})
	}
	return fields, nil
}

func (d *Decoder) interpret(raw RawField, depth int) (Value, error) {
	var v Value
	switch raw.Type {
	case Varint:
		v = Value{Kind: KindUint, Uint: DecodeVarint(raw.Payload)}
	case Fixed64:
		f, err := DecodeDouble(raw.Payload)
		if err != nil {
			return Value{}, d.fail(raw, depth, err)
		}
		v = Value{Kind: KindDouble, Double: f}
	case Fixed32:
		f, err := DecodeFloat(raw.Payload)
		if err != nil {
			return Value{}, d.fail(raw, depth, err)
		}
		v = Value{Kind: KindFloat, Float: f}
	case Bytes:
		vals, err := splitChunks(raw.Payload, d.stride())
		if err != nil {
			return Value{}, d.fail(raw, depth, err)
		}
		chunks := make([]Chunk, 0, len(vals))
		for _, b := range vals {
			nested, err := d.speculate(b, depth+1)
			if err != nil {
				return Value{}, err
			}
			chunks = append(chunks, Chunk{Raw: b, Nested: nested})
		}
		v = Value{Kind: KindBytes, Chunks: chunks}
	default:
		return Value{}, d.fail(raw, depth, ErrUnimplementedWireType)
	}
	if d.Observer != nil {
		d.Observer.FieldDecoded(raw.Type, depth)
	}
	return v, nil
}

// speculate tries b as an embedded message. It returns nil fields when b
// does not frame or interpret cleanly, and an error only for failures that
// must reach the caller.
func (d *Decoder) speculate(b []byte, depth int) ([]Field, error) {
	raws, err := Scan(b)
	if depth > d.maxDepth() {
		// Framing is iterative, so it is still safe to tell text from a
		// message that nests too deep.
		if err != nil || len(raws) == 0 {
			d.observeSpeculation(false, depth)
			return nil, nil
		}
		return nil, &Error{Offset: raws[0].Offset, Depth: depth, Type: raws[0].Type, Err: ErrDepthExceeded}
	}
	if err == nil {
		var fields []Field
		fields, err = d.interpretAll(raws, depth)
		if err == nil {
			d.observeSpeculation(len(fields) > 0, depth)
			if len(fields) == 0 {
				return nil, nil
			}
			return fields, nil
		}
	}
	if !speculative(err) {
		return nil, err
	}
	d.observeSpeculation(false, depth)
	d.Logger.Debug().Err(err).Int("depth", depth).Int("len", len(b)).Msg("value is not a nested message")
	return nil, nil
}

func (d *Decoder) observeSpeculation(nested bool, depth int) {
	if d.Observer != nil {
		d.Observer.Speculated(nested, depth)
	}
}

func (d *Decoder) fail(raw RawField, depth int, err error) error {
	var we *Error
	if errors.As(err, &we) {
		return err
	}
	return &Error{Offset: raw.Offset, Depth: depth, Type: raw.Type, Err: err}
}
